package catalog

import (
	"net/http"

	"ArtfulStore/pkg/kit"
)

type HTTPDeps = kit.HTTPDeps

// NewHandler serves the catalog API with the shared middleware stack.
// The service is ready once it holds at least one product.
func NewHandler(s *Server, deps HTTPDeps) http.Handler {
	r := kit.NewRouter(deps)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if s.Catalog == nil || s.Catalog.Len() == 0 {
			kit.WriteError(w, r, http.StatusServiceUnavailable, "catalog empty", nil)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	r.Mount("/", s.Routes())
	return r
}
