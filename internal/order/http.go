package order

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"ArtfulStore/internal/cart"
	"ArtfulStore/internal/catalog"
	"ArtfulStore/internal/session"
	"ArtfulStore/pkg/kit"
)

type Server struct {
	Orders *Service
	Carts  *cart.Registry
	Log    *zap.Logger

	// Limiter throttles checkout attempts; nil disables it.
	Limiter *kit.RateLimiter
}

// CheckoutHandler and GetHandler expect session.Require in front of them.
func (s *Server) CheckoutHandler() http.Handler {
	h := http.Handler(http.HandlerFunc(s.checkout))
	if s.Limiter != nil {
		h = s.Limiter.Middleware(h)
	}
	return h
}

func (s *Server) GetHandler() http.HandlerFunc { return s.get }

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Method(http.MethodPost, "/checkout", s.CheckoutHandler())
	r.Get("/orders/{id}", s.GetHandler())
	return r
}

func (s *Server) checkout(w http.ResponseWriter, r *http.Request) {
	sid, ok := session.IDFromContext(r.Context())
	if !ok {
		kit.WriteError(w, r, http.StatusUnauthorized, "missing session", nil)
		return
	}

	var f Form
	if err := kit.DecodeJSON(w, r, &f, false); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}

	var o Order
	err := s.Carts.With(r.Context(), sid, func(m *cart.Manager) error {
		var err error
		o, err = s.Orders.PlaceOrder(r.Context(), sid, m, f)
		return err
	})
	if err != nil {
		s.writeCheckoutError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusCreated, o)
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	sid, ok := session.IDFromContext(r.Context())
	if !ok {
		kit.WriteError(w, r, http.StatusUnauthorized, "missing session", nil)
		return
	}

	id := chi.URLParam(r, "id")
	o, found, err := s.Orders.Store.Get(r.Context(), id)
	if err != nil {
		kit.OrNop(s.Log).Error("store get order failed", zap.Error(err), zap.String("order_id", id))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	if !found {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}
	if o.SessionID != sid {
		kit.WriteError(w, r, http.StatusForbidden, "forbidden", nil)
		return
	}

	kit.WriteJSON(w, http.StatusOK, o)
}

func (s *Server) writeCheckoutError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr *ValidationError
		serr *cart.StockError
	)
	switch {
	case errors.As(err, &verr):
		kit.WriteError(w, r, http.StatusBadRequest, ErrInvalidForm.Error(), verr.Fields)
	case errors.Is(err, ErrEmptyCart):
		kit.WriteError(w, r, http.StatusBadRequest, err.Error(), nil)
	case errors.As(err, &serr):
		kit.WriteError(w, r, http.StatusConflict, cart.Event{Kind: cart.EventStockExceeded, Available: serr.Available}.Message(), map[string]any{
			"product_id": serr.ProductID,
			"requested":  serr.Requested,
			"available":  serr.Available,
		})
	case errors.Is(err, catalog.ErrNotFound):
		kit.WriteError(w, r, http.StatusConflict, "product no longer available", nil)
	case errors.Is(err, catalog.ErrUnavailable), errors.Is(err, catalog.ErrBadStatus):
		kit.WriteError(w, r, http.StatusServiceUnavailable, "catalog unavailable", nil)
	case errors.Is(err, cart.ErrStorageUnavailable):
		kit.WriteError(w, r, http.StatusServiceUnavailable, cart.ErrStorageUnavailable.Error(), nil)
	case isTimeoutErr(err):
		kit.WriteError(w, r, http.StatusGatewayTimeout, "timeout", nil)
	default:
		kit.OrNop(s.Log).Error("checkout failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
	}
}

func isTimeoutErr(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}
