package order_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ArtfulStore/internal/cart"
	"ArtfulStore/internal/catalog"
	"ArtfulStore/internal/money"
	"ArtfulStore/internal/order"
	"ArtfulStore/internal/session"
	"ArtfulStore/internal/storage"
	"ArtfulStore/pkg/kit"
)

const formJSON = `{
	"first_name": "Asha", "last_name": "Rao", "email": "asha@example.com",
	"address": "12 MG Road", "city": "Bengaluru", "state": "KA", "zip_code": "560001",
	"country": "", "card_name": "Asha Rao", "card_number": "4111111111111111",
	"card_expiry": "09/29", "card_cvc": "123"
}`

type fixture struct {
	h     http.Handler
	carts *cart.Registry
}

func newFixture(limiter *kit.RateLimiter) fixture {
	c := catalog.Default()
	svc := order.NewService(order.NewMemStore(), c, money.Default(), nil)
	svc.Delay = 0

	carts := cart.NewRegistry(storage.NewMemStore())
	s := &order.Server{Orders: svc, Carts: carts, Limiter: limiter}

	routes := s.Routes()
	return fixture{
		carts: carts,
		h: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if sid := r.Header.Get("X-Session"); sid != "" {
				r = r.WithContext(session.WithID(r.Context(), sid))
			}
			routes.ServeHTTP(w, r)
		}),
	}
}

func (f fixture) add(t *testing.T, sid, id string, q int) {
	t.Helper()
	p, ok := catalog.Default().GetByID(id)
	require.True(t, ok)
	require.NoError(t, f.carts.With(context.Background(), sid, func(m *cart.Manager) error {
		_, err := m.AddItem(context.Background(), p, q)
		return err
	}))
}

func (f fixture) do(method, path, sid, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if sid != "" {
		req.Header.Set("X-Session", sid)
	}
	rec := httptest.NewRecorder()
	f.h.ServeHTTP(rec, req)
	return rec
}

func TestCheckoutHTTP(t *testing.T) {
	f := newFixture(nil)

	rec := f.do(http.MethodPost, "/checkout", "s1", formJSON)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "cart is empty")

	f.add(t, "s1", "handicraft-4", 2)

	rec = f.do(http.MethodPost, "/checkout", "s1", `{"first_name":"A"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var e kit.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
	assert.Equal(t, "invalid checkout form", e.Error)
	assert.Contains(t, e.Details, "email")

	rec = f.do(http.MethodPost, "/checkout", "s1", formJSON)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var o order.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &o))
	assert.Equal(t, order.StatusConfirmed, o.Status)
	assert.Equal(t, 2, o.TotalItems)
	assert.Equal(t, "India", o.Customer.Country)
	assert.NotContains(t, rec.Body.String(), "4111111111111111")

	require.NoError(t, f.carts.With(context.Background(), "s1", func(m *cart.Manager) error {
		assert.Equal(t, 0, m.State().Len())
		return nil
	}))

	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/orders/"+o.ID, "s1", "").Code)
	assert.Equal(t, http.StatusForbidden, f.do(http.MethodGet, "/orders/"+o.ID, "s2", "").Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/orders/o_missing", "s1", "").Code)
	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/orders/"+o.ID, "", "").Code)
}

func TestCheckoutHTTP_RateLimited(t *testing.T) {
	f := newFixture(kit.NewRateLimiter(1, time.Minute, session.KeyBySession))

	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPost, "/checkout", "s1", formJSON).Code)
	assert.Equal(t, http.StatusTooManyRequests, f.do(http.MethodPost, "/checkout", "s1", formJSON).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPost, "/checkout", "s2", formJSON).Code)
}
