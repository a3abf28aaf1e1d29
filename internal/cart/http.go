package cart

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"ArtfulStore/internal/catalog"
	"ArtfulStore/internal/money"
	"ArtfulStore/internal/session"
	"ArtfulStore/pkg/kit"
)

type Server struct {
	Carts    *Registry
	Products ProductSource
	Money    money.Converter
	Log      *zap.Logger

	// AddDelay holds an add before it is confirmed.
	AddDelay time.Duration
}

// Routes is mounted under /cart and expects session.Require in front of it.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/", s.get)
	r.Delete("/", s.clear)
	r.Put("/panel", s.panel)
	r.Post("/items", s.add)
	r.Patch("/items/{id}", s.update)
	r.Delete("/items/{id}", s.remove)

	return r
}

type View struct {
	Items      []LineItem      `json:"items"`
	TotalItems int             `json:"total_items"`
	TotalPrice decimal.Decimal `json:"total_price"`
	PanelOpen  bool            `json:"panel_open"`
	Display    money.Summary   `json:"display"`
	Event      *EventView      `json:"event,omitempty"`
}

type EventView struct {
	Event
	Message string `json:"message"`
}

func NewView(st State, conv money.Converter) View {
	return View{
		Items:      st.Items(),
		TotalItems: st.TotalItems(),
		TotalPrice: st.TotalPrice(),
		PanelOpen:  st.PanelOpen(),
		Display:    conv.Summarize(st.TotalPrice()),
	}
}

type addReq struct {
	ProductID string `json:"product_id"`
	Quantity  *int   `json:"quantity"`
}

type quantityReq struct {
	Quantity *int `json:"quantity"`
}

type panelReq struct {
	Open *bool `json:"open"`
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	s.run(w, r, func(ctx context.Context, m *Manager) (State, error) {
		return m.State(), nil
	})
}

func (s *Server) add(w http.ResponseWriter, r *http.Request) {
	var req addReq
	if err := kit.DecodeJSON(w, r, &req, false); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}
	if req.ProductID == "" {
		kit.WriteError(w, r, http.StatusBadRequest, "product_id required", nil)
		return
	}
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}
	if qty < 1 {
		kit.WriteError(w, r, http.StatusBadRequest, ErrInvalidQuantity.Error(), map[string]any{"quantity": qty})
		return
	}

	p, err := s.Products.Lookup(r.Context(), req.ProductID)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}

	if s.AddDelay > 0 {
		select {
		case <-r.Context().Done():
			return
		case <-time.After(s.AddDelay):
		}
	}

	s.run(w, r, func(ctx context.Context, m *Manager) (State, error) {
		return m.AddItem(ctx, p, qty)
	})
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req quantityReq
	if err := kit.DecodeJSON(w, r, &req, false); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}
	if req.Quantity == nil {
		kit.WriteError(w, r, http.StatusBadRequest, "quantity required", nil)
		return
	}

	s.run(w, r, func(ctx context.Context, m *Manager) (State, error) {
		return m.UpdateQuantity(ctx, id, *req.Quantity)
	})
}

func (s *Server) remove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.run(w, r, func(ctx context.Context, m *Manager) (State, error) {
		return m.RemoveItem(ctx, id), nil
	})
}

func (s *Server) clear(w http.ResponseWriter, r *http.Request) {
	s.run(w, r, func(ctx context.Context, m *Manager) (State, error) {
		return m.ClearCart(ctx), nil
	})
}

func (s *Server) panel(w http.ResponseWriter, r *http.Request) {
	var req panelReq
	if err := kit.DecodeJSON(w, r, &req, false); err != nil || req.Open == nil {
		kit.WriteError(w, r, http.StatusBadRequest, "open required", nil)
		return
	}
	s.run(w, r, func(_ context.Context, m *Manager) (State, error) {
		return m.SetPanelOpen(*req.Open), nil
	})
}

// run applies fn to the caller's cart and renders the resulting view along
// with the last event the operation produced.
func (s *Server) run(w http.ResponseWriter, r *http.Request, fn func(context.Context, *Manager) (State, error)) {
	sid, ok := session.IDFromContext(r.Context())
	if !ok {
		kit.WriteError(w, r, http.StatusUnauthorized, "missing session", nil)
		return
	}

	var (
		last *Event
		st   State
	)
	ctx := withEventSink(r.Context(), func(e Event) { last = &e })

	err := s.Carts.With(ctx, sid, func(m *Manager) error {
		var err error
		st, err = fn(ctx, m)
		return err
	})
	if err != nil {
		s.writeErr(w, r, err)
		return
	}

	view := NewView(st, s.Money)
	if last != nil {
		view.Event = &EventView{Event: *last, Message: last.Message()}
	}
	kit.WriteJSON(w, http.StatusOK, view)
}

func (s *Server) writeErr(w http.ResponseWriter, r *http.Request, err error) {
	var se *StockError
	switch {
	case errors.As(err, &se):
		kit.WriteError(w, r, http.StatusConflict, Event{Kind: EventStockExceeded, Available: se.Available}.Message(), map[string]any{
			"product_id": se.ProductID,
			"requested":  se.Requested,
			"available":  se.Available,
		})
	case errors.Is(err, ErrInvalidQuantity):
		kit.WriteError(w, r, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, catalog.ErrNotFound):
		kit.WriteError(w, r, http.StatusNotFound, "product not found", nil)
	case errors.Is(err, ErrStorageUnavailable):
		kit.WriteError(w, r, http.StatusServiceUnavailable, ErrStorageUnavailable.Error(), nil)
	case errors.Is(err, catalog.ErrUnavailable), errors.Is(err, catalog.ErrBadStatus):
		kit.OrNop(s.Log).Warn("catalog lookup failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusServiceUnavailable, "catalog unavailable", nil)
	default:
		kit.OrNop(s.Log).Error("cart operation failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
	}
}

type sinkKey struct{}

func withEventSink(ctx context.Context, fn func(Event)) context.Context {
	return context.WithValue(ctx, sinkKey{}, fn)
}

// SinkObserver forwards events to the per-request sink installed by the HTTP
// layer, so a response can echo what just happened.
func SinkObserver() Observer {
	return ObserverFunc(func(ctx context.Context, e Event) {
		if fn, ok := ctx.Value(sinkKey{}).(func(Event)); ok {
			fn(e)
		}
	})
}
