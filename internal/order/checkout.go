package order

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"ArtfulStore/internal/cart"
	"ArtfulStore/internal/money"
	"ArtfulStore/pkg/kit"
)

const (
	DefaultDelay       = 1500 * time.Millisecond
	defaultConcurrency = 4
)

var ErrEmptyCart = errors.New("cart is empty")

// Service runs the simulated checkout. Nothing is charged.
type Service struct {
	Store    Store
	Products cart.ProductSource
	Money    money.Converter
	Log      *zap.Logger

	// Delay simulates payment processing.
	Delay       time.Duration
	Concurrency int

	now func() time.Time
}

var forms = NewFormValidator()

func NewService(store Store, products cart.ProductSource, conv money.Converter, log *zap.Logger) *Service {
	return &Service{
		Store:       store,
		Products:    products,
		Money:       conv,
		Log:         log,
		Delay:       DefaultDelay,
		Concurrency: defaultConcurrency,
		now:         time.Now,
	}
}

// Validate normalizes and checks the form.
func (s *Service) Validate(f Form) (Form, error) {
	f = f.Normalize()
	return f, forms.Validate(f)
}

// PlaceOrder turns the cart held by m into a confirmed order and clears the
// cart. The cart is untouched when any step fails.
func (s *Service) PlaceOrder(ctx context.Context, sessionID string, m *cart.Manager, f Form) (Order, error) {
	f, err := s.Validate(f)
	if err != nil {
		return Order{}, err
	}

	st := m.State()
	if st.Len() == 0 {
		return Order{}, ErrEmptyCart
	}
	if err := s.recheck(ctx, st.Items()); err != nil {
		return Order{}, err
	}
	if err := s.wait(ctx); err != nil {
		return Order{}, err
	}

	o := Order{
		ID:         "o_" + uuid.NewString(),
		SessionID:  sessionID,
		Customer:   f.Customer(),
		Items:      make([]Item, 0, st.Len()),
		TotalItems: st.TotalItems(),
		Total:      st.TotalPrice(),
		Display:    s.Money.Summarize(st.TotalPrice()),
		Status:     StatusConfirmed,
		CreatedAt:  s.clock()().UTC(),
	}
	for _, it := range st.Items() {
		o.Items = append(o.Items, Item{
			ProductID: it.ID,
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  it.Quantity,
			Subtotal:  it.Subtotal(),
		})
	}

	if err := s.Store.Create(ctx, o); err != nil {
		return Order{}, err
	}
	m.ClearCart(ctx)

	kit.OrNop(s.Log).Info("order placed",
		zap.String("order_id", o.ID),
		zap.String("session_id", sessionID),
		zap.Int("items", o.TotalItems),
		zap.String("total", o.Total.String()),
	)
	return o, nil
}

// recheck compares every line against current stock.
func (s *Service) recheck(ctx context.Context, items []cart.LineItem) error {
	g, gctx := errgroup.WithContext(ctx)
	limit := s.Concurrency
	if limit <= 0 {
		limit = defaultConcurrency
	}
	g.SetLimit(limit)

	for _, it := range items {
		g.Go(func() error {
			p, err := s.Products.Lookup(gctx, it.ID)
			if err != nil {
				return err
			}
			if it.Quantity > p.StockQuantity {
				return &cart.StockError{ProductID: it.ID, Requested: it.Quantity, Available: p.StockQuantity}
			}
			return nil
		})
	}
	return g.Wait()
}

func (s *Service) wait(ctx context.Context) error {
	if s.Delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.Delay)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (s *Service) clock() func() time.Time {
	if s.now == nil {
		return time.Now
	}
	return s.now
}
