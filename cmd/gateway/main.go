package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"ArtfulStore/internal/config"
	"ArtfulStore/internal/gateway"
	"ArtfulStore/pkg/kit"
)

func main() {
	service := config.ServiceGateway

	cfg, err := config.Load(service, "")
	if err != nil {
		kit.NewLogger(service, "info", false).Fatal("load config failed", zap.Error(err))
	}

	log := kit.NewLogger(service, cfg.Log.Level, cfg.Log.Development)
	defer func() { _ = log.Sync() }()

	h, err := gateway.NewHandler(gateway.Deps{
		CatalogURL:    cfg.CatalogURL,
		StorefrontURL: cfg.StorefrontURL,
	}, gateway.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       prometheus.NewRegistry(),
		MetricsEnabled: cfg.Metrics.Enabled,
		MetricsToken:   cfg.Metrics.Token,
		CORSOrigins:    cfg.CORSOrigins,
	})
	if err != nil {
		log.Fatal("init gateway handler failed", zap.Error(err))
	}

	if err := kit.RunHTTPServer(cfg.Addr(), h, log, kit.ServerOptions{}); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}
