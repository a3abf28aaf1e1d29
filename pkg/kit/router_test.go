package kit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
)

func TestNewRouter_Metrics(t *testing.T) {
	cases := []struct {
		name  string
		deps  HTTPDeps
		authz string
		want  int
	}{
		{name: "no registry", deps: HTTPDeps{}, want: http.StatusNotFound},
		{name: "disabled", deps: HTTPDeps{Registry: prometheus.NewRegistry()}, want: http.StatusNotFound},
		{name: "no token", deps: HTTPDeps{Registry: prometheus.NewRegistry(), MetricsEnabled: true, MetricsToken: "t"}, want: http.StatusForbidden},
		{name: "token", deps: HTTPDeps{Registry: prometheus.NewRegistry(), MetricsEnabled: true, MetricsToken: "t"}, authz: "Bearer t", want: http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := NewRouter(tc.deps)
			r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
			assert.Equal(t, http.StatusNoContent, rec.Code)

			req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
			if tc.authz != "" {
				req.Header.Set("Authorization", tc.authz)
			}
			rec = httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}
