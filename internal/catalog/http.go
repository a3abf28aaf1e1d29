package catalog

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"ArtfulStore/pkg/kit"
)

type Server struct {
	Catalog *Catalog
	Log     *zap.Logger
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/products", s.list)
	r.Get("/products/featured", s.featured)
	r.Get("/products/facets", s.facets)
	r.Get("/products/{id}", s.get)

	return r
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	crit, err := ParseCriteria(r.URL.Query())
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad filter", map[string]any{"cause": err.Error()})
		return
	}
	kit.WriteJSON(w, http.StatusOK, s.Catalog.Filter(crit))
}

func (s *Server) featured(w http.ResponseWriter, _ *http.Request) {
	kit.WriteJSON(w, http.StatusOK, s.Catalog.Featured())
}

func (s *Server) facets(w http.ResponseWriter, _ *http.Request) {
	kit.WriteJSON(w, http.StatusOK, s.Catalog.Facets())
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, ok := s.Catalog.GetByID(id)
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}
	kit.WriteJSON(w, http.StatusOK, p)
}

var errBadPrice = errors.New("price bound must be a non-negative number")

// ParseCriteria reads the storefront's query parameters: category, search, min, max.
func ParseCriteria(q url.Values) (Criteria, error) {
	var crit Criteria

	if raw := strings.TrimSpace(q.Get("category")); raw != "" && raw != "all" {
		c, err := ParseCategory(raw)
		if err != nil {
			return Criteria{}, err
		}
		crit.Category = c
	}

	crit.SearchQuery = q.Get("search")

	var err error
	if crit.MinPrice, err = parseBound(q.Get("min")); err != nil {
		return Criteria{}, err
	}
	if crit.MaxPrice, err = parseBound(q.Get("max")); err != nil {
		return Criteria{}, err
	}
	return crit, nil
}

func parseBound(raw string) (*decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		return nil, errBadPrice
	}
	return &d, nil
}
