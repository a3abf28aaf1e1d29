package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"ArtfulStore/internal/catalog"
	"ArtfulStore/internal/config"
	"ArtfulStore/pkg/kit"
)

func main() {
	service := config.ServiceCatalog

	cfg, err := config.Load(service, "")
	if err != nil {
		kit.NewLogger(service, "info", false).Fatal("load config failed", zap.Error(err))
	}

	log := kit.NewLogger(service, cfg.Log.Level, cfg.Log.Development)
	defer func() { _ = log.Sync() }()

	s := &catalog.Server{Catalog: catalog.Default(), Log: log}

	h := catalog.NewHandler(s, catalog.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       prometheus.NewRegistry(),
		MetricsEnabled: cfg.Metrics.Enabled,
		MetricsToken:   cfg.Metrics.Token,
		CORSOrigins:    cfg.CORSOrigins,
	})

	if err := kit.RunHTTPServer(cfg.Addr(), h, log, kit.ServerOptions{}); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}
