package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"ArtfulStore/internal/catalog"
	"ArtfulStore/internal/config"
	"ArtfulStore/internal/money"
	"ArtfulStore/internal/order"
	"ArtfulStore/internal/session"
	"ArtfulStore/internal/storage"
	"ArtfulStore/internal/storefront"
	"ArtfulStore/pkg/kit"
)

func main() {
	service := config.ServiceStorefront

	cfg, err := config.Load(service, "")
	if err != nil {
		kit.NewLogger(service, "info", false).Fatal("load config failed", zap.Error(err))
	}

	log := kit.NewLogger(service, cfg.Log.Level, cfg.Log.Development)
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	store, err := storage.Open(ctx, cfg.Storage)
	cancel()
	if err != nil {
		log.Fatal("open storage failed", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	defer func() { _ = store.Close() }()

	httpDeps := storefront.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       prometheus.NewRegistry(),
		MetricsEnabled: cfg.Metrics.Enabled,
		MetricsToken:   cfg.Metrics.Token,
		CORSOrigins:    cfg.CORSOrigins,
	}
	carts := storefront.NewCarts(store, httpDeps)

	h := storefront.NewHandler(storefront.Deps{
		Tokens:         session.NewTokenMaker(cfg.Session.Secret, cfg.Session.TTL),
		Carts:          carts,
		Storage:        store,
		Products:       catalog.NewClient(cfg.CatalogURL),
		Orders:         order.NewMemStore(),
		Money:          money.Default(),
		AddDelay:       cfg.Cart.AddDelay,
		CheckoutDelay:  cfg.Checkout.Delay,
		CheckoutLimit:  cfg.Checkout.RateLimit,
		CheckoutWindow: cfg.Checkout.RateWindow,
	}, httpDeps)

	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go carts.Janitor(runCtx, cfg.Cart.SweepEvery, cfg.Cart.IdleTTL, func(n int) {
		if n > 0 {
			log.Debug("idle carts evicted", zap.Int("count", n), zap.Int("live", carts.Len()))
		}
	})

	if err := kit.Serve(runCtx, cfg.Addr(), h, log, kit.ServerOptions{}); err != nil {
		log.Error("http server stopped", zap.Error(err))
	}
}
