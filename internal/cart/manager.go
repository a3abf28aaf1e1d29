package cart

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"ArtfulStore/internal/catalog"
	"ArtfulStore/internal/storage"
)

// Manager owns one cart. Every accepted change to the line items is written to
// storage under key before the call returns. A Manager is not safe for
// concurrent use; Registry serializes access per session.
type Manager struct {
	key      string
	store    storage.Store
	observer Observer
	log      *zap.Logger
	metrics  *Metrics
	state    State
}

type Option func(*Manager)

func WithObserver(o Observer) Option {
	return func(m *Manager) {
		if o != nil {
			m.observer = o
		}
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

// WithMetrics counts events and failed writes.
func WithMetrics(metrics *Metrics) Option {
	return func(m *Manager) { m.metrics = metrics }
}

// NewManager returns a manager holding an empty cart. Call Load to rehydrate.
func NewManager(store storage.Store, key string, opts ...Option) *Manager {
	m := &Manager{
		key:      key,
		store:    store,
		observer: nopObserver{},
		log:      zap.NewNop(),
		state:    NewState(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) Key() string  { return m.key }
func (m *Manager) State() State { return m.state }

// ErrStorageUnavailable is returned by Load when the stored cart could not be
// read. The caller must not mutate the cart until a Load succeeds, or the
// stored value would be overwritten.
var ErrStorageUnavailable = errors.New("cart storage unavailable")

// Load replaces the in-memory cart with the stored one. A missing or malformed
// value yields an empty cart. A failed read leaves an empty cart and returns
// ErrStorageUnavailable.
func (m *Manager) Load(ctx context.Context) (State, error) {
	m.state = NewState()

	data, ok, err := m.store.Get(ctx, m.key)
	if err != nil {
		m.log.Warn("read stored cart failed", zap.String("key", m.key), zap.Error(err))
		return m.state, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if !ok {
		return m.state, nil
	}

	items, err := Decode(data)
	if err != nil {
		m.log.Warn("discarding stored cart", zap.String("key", m.key), zap.Error(err))
		return m.state, nil
	}

	m.state = NewState(items...)
	if m.state.Len() > 0 {
		m.emit(ctx, Event{Kind: EventRestored, Quantity: m.state.TotalItems()})
	}
	return m.state, nil
}

func (m *Manager) AddItem(ctx context.Context, p catalog.Product, quantity int) (State, error) {
	_, existed := m.state.Item(p.ID)

	next, err := m.state.Add(p, quantity)
	if err != nil {
		m.reject(ctx, err)
		return m.state, err
	}

	kind := EventItemAdded
	if existed {
		kind = EventQuantityChanged
	}
	it, _ := next.Item(p.ID)
	m.commit(ctx, next, Event{Kind: kind, ProductID: p.ID, Name: p.Name, Quantity: it.Quantity})
	return m.state, nil
}

func (m *Manager) RemoveItem(ctx context.Context, productID string) State {
	it, _ := m.state.Item(productID)

	next, removed := m.state.Remove(productID)
	if !removed {
		return m.state
	}
	m.commit(ctx, next, Event{Kind: EventItemRemoved, ProductID: productID, Name: it.Name})
	return m.state
}

func (m *Manager) UpdateQuantity(ctx context.Context, productID string, quantity int) (State, error) {
	if quantity < 1 {
		return m.RemoveItem(ctx, productID), nil
	}

	it, ok := m.state.Item(productID)
	if !ok {
		return m.state, nil
	}

	next, err := m.state.SetQuantity(productID, quantity)
	if err != nil {
		m.reject(ctx, err)
		return m.state, err
	}
	if quantity == it.Quantity {
		return m.state, nil
	}
	m.commit(ctx, next, Event{Kind: EventQuantityChanged, ProductID: productID, Name: it.Name, Quantity: quantity})
	return m.state, nil
}

func (m *Manager) ClearCart(ctx context.Context) State {
	m.commit(ctx, m.state.Clear(), Event{Kind: EventCleared})
	return m.state
}

// SetPanelOpen only affects the session; the flag is never stored.
func (m *Manager) SetPanelOpen(open bool) State {
	m.state = m.state.WithPanelOpen(open)
	return m.state
}

func (m *Manager) commit(ctx context.Context, next State, e Event) {
	m.state = next
	m.persist(ctx)
	m.emit(ctx, e)
}

// persist outlives the caller's context: the change is already accepted in
// memory, so a client disconnect must not leave storage behind it.
func (m *Manager) persist(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)

	data, err := Encode(m.state.items)
	if err == nil {
		err = m.store.Put(ctx, m.key, data)
	}
	if err != nil {
		if m.metrics != nil {
			m.metrics.PersistFailures.Inc()
		}
		m.log.Error("persist cart failed", zap.String("key", m.key), zap.Error(err))
	}
}

func (m *Manager) reject(ctx context.Context, err error) {
	var se *StockError
	if errors.As(err, &se) {
		m.emit(ctx, Event{Kind: EventStockExceeded, ProductID: se.ProductID, Quantity: se.Requested, Available: se.Available})
	}
}

func (m *Manager) emit(ctx context.Context, e Event) {
	e.Key = m.key
	if m.metrics != nil {
		m.metrics.Notify(ctx, e)
	}
	m.observer.Notify(ctx, e)
}
