// Package storefront wires sessions, carts and checkout into one HTTP service.
package storefront

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"ArtfulStore/internal/cart"
	"ArtfulStore/internal/money"
	"ArtfulStore/internal/order"
	"ArtfulStore/internal/session"
	"ArtfulStore/internal/storage"
	"ArtfulStore/pkg/kit"
)

type HTTPDeps = kit.HTTPDeps

type Deps struct {
	Tokens   *session.TokenMaker
	Storage  storage.Store
	// Carts is built from Storage when nil. Pass one in to run its Janitor.
	Carts    *cart.Registry
	Products cart.ProductSource
	Orders   order.Store
	Money    money.Converter

	AddDelay       time.Duration
	CheckoutDelay  time.Duration
	CheckoutLimit  int
	CheckoutWindow time.Duration
}

const readyTimeout = 2 * time.Second

// pinger is implemented by remote product sources.
type pinger interface {
	Ping(ctx context.Context) error
}

func NewHandler(deps Deps, httpDeps HTTPDeps) http.Handler {
	log := kit.OrNop(httpDeps.Log)

	r := kit.NewRouter(httpDeps)

	carts := deps.Carts
	if carts == nil {
		carts = NewCarts(deps.Storage, httpDeps)
	}

	orders := deps.Orders
	if orders == nil {
		orders = order.NewMemStore()
	}
	svc := order.NewService(orders, deps.Products, deps.Money, log)
	svc.Delay = deps.CheckoutDelay

	cartSrv := &cart.Server{
		Carts:    carts,
		Products: deps.Products,
		Money:    deps.Money,
		Log:      log,
		AddDelay: deps.AddDelay,
	}
	orderSrv := &order.Server{
		Orders: svc,
		Carts:  carts,
		Log:    log,
	}
	if deps.CheckoutLimit > 0 {
		orderSrv.Limiter = kit.NewRateLimiter(deps.CheckoutLimit, deps.CheckoutWindow, session.KeyBySession)
	}
	sessionSrv := &session.Server{Tokens: deps.Tokens, Log: log}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", readyz(deps, log))

	r.Post("/session", sessionSrv.Start)

	r.Group(func(pr chi.Router) {
		pr.Use(session.Require(deps.Tokens))
		pr.Mount("/cart", cartSrv.Routes())
		pr.Method(http.MethodPost, "/checkout", orderSrv.CheckoutHandler())
		pr.Get("/orders/{id}", orderSrv.GetHandler())
	})

	return r
}

// NewCarts builds the per-session cart registry the handler serves from.
func NewCarts(store storage.Store, httpDeps HTTPDeps) *cart.Registry {
	log := kit.OrNop(httpDeps.Log)
	observers := cart.Observers{cart.LogObserver(log), cart.SinkObserver()}
	opts := []cart.Option{cart.WithLogger(log)}
	if httpDeps.Registry != nil {
		opts = append(opts, cart.WithMetrics(cart.NewMetrics(httpDeps.Registry)))
	}
	return cart.NewRegistry(store, append(opts, cart.WithObserver(observers))...)
}

func readyz(deps Deps, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error { return deps.Storage.Ping(gctx) })
		if p, ok := deps.Products.(pinger); ok {
			g.Go(func() error { return p.Ping(gctx) })
		}
		if err := g.Wait(); err != nil {
			log.Warn("readyz failed", zap.Error(err))
			kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}
