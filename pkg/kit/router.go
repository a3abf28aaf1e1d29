package kit

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// HTTPDeps is what every service router needs besides its own routes.
type HTTPDeps struct {
	Log      *zap.Logger
	Service  string
	Registry *prometheus.Registry

	MetricsEnabled bool
	MetricsToken   string
	CORSOrigins    []string
}

// NewRouter returns a router with request ids, panic recovery, access logs and
// CORS installed. With a Registry it also records per-route metrics, and
// serves /metrics behind MetricsToken when MetricsEnabled is set.
func NewRouter(deps HTTPDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(Recoverer)
	r.Use(Logging(deps.Log))
	r.Use(CORS(deps.CORSOrigins))

	if deps.Registry == nil {
		return r
	}

	r.Use(NewMetrics(deps.Registry).Middleware(deps.Service, ChiRoutePatternOrPath))
	if deps.MetricsEnabled {
		r.With(MetricsAuth(deps.MetricsToken)).
			Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}
	return r
}
