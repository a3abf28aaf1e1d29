package storefront_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ArtfulStore/internal/catalog"
	"ArtfulStore/internal/money"
	"ArtfulStore/internal/session"
	"ArtfulStore/internal/storage"
	"ArtfulStore/internal/storefront"
)

const secret = "0123456789abcdef0123456789abcdef"

type brokenStore struct{ *storage.MemStore }

func (brokenStore) Ping(context.Context) error { return errors.New("disk gone") }

func newServer(t *testing.T, store storage.Store) *httptest.Server {
	t.Helper()
	h := storefront.NewHandler(storefront.Deps{
		Tokens:   session.NewTokenMaker(secret, time.Hour),
		Storage:  store,
		Products: catalog.Default(),
		Money:    money.Default(),
	}, storefront.HTTPDeps{
		Service:        "storefront",
		Registry:       prometheus.NewRegistry(),
		MetricsEnabled: true,
		MetricsToken:   "metrics-token",
	})
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return ts
}

func call(t *testing.T, method, url, token, body string) (int, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]any{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func TestStorefront_SessionCartCheckout(t *testing.T) {
	store := storage.NewMemStore()
	ts := newServer(t, store)

	code, _ := call(t, http.MethodGet, ts.URL+"/cart", "", "")
	require.Equal(t, http.StatusUnauthorized, code)

	code, sess := call(t, http.MethodPost, ts.URL+"/session", "", "")
	require.Equal(t, http.StatusCreated, code)
	token := sess["token"].(string)
	sid := sess["session_id"].(string)

	code, body := call(t, http.MethodPost, ts.URL+"/cart/items", token, `{"product_id":"portrait-4","quantity":2}`)
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, float64(2), body["total_items"])

	_, ok, err := store.Get(context.Background(), "artful-cart:"+sid)
	require.NoError(t, err)
	assert.True(t, ok)

	code, _ = call(t, http.MethodPatch, ts.URL+"/cart/items/portrait-4", token, `{"quantity":16}`)
	assert.Equal(t, http.StatusConflict, code)

	code, ord := call(t, http.MethodPost, ts.URL+"/checkout", token, `{
		"first_name":"Asha","last_name":"Rao","email":"asha@example.com","address":"12 MG Road",
		"city":"Pune","state":"MH","zip_code":"411001","card_name":"Asha Rao",
		"card_number":"4111111111111111","card_expiry":"12/30","card_cvc":"999"}`)
	require.Equal(t, http.StatusCreated, code, ord)
	assert.Equal(t, "CONFIRMED", ord["status"])

	code, body = call(t, http.MethodGet, ts.URL+"/cart", token, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(0), body["total_items"])

	code, _ = call(t, http.MethodGet, ts.URL+"/orders/"+ord["id"].(string), token, "")
	assert.Equal(t, http.StatusOK, code)

	code, _ = call(t, http.MethodGet, ts.URL+"/metrics", "", "")
	assert.Equal(t, http.StatusForbidden, code)
}

func TestStorefront_Readyz(t *testing.T) {
	ok := newServer(t, storage.NewMemStore())
	resp, err := http.Get(ok.URL + "/readyz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	down := newServer(t, brokenStore{storage.NewMemStore()})
	resp, err = http.Get(down.URL + "/readyz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestStorefront_SweptCartReloads(t *testing.T) {
	store := storage.NewMemStore()
	httpDeps := storefront.HTTPDeps{Service: "storefront"}
	carts := storefront.NewCarts(store, httpDeps)

	ts := httptest.NewServer(storefront.NewHandler(storefront.Deps{
		Tokens:   session.NewTokenMaker(secret, time.Hour),
		Carts:    carts,
		Storage:  store,
		Products: catalog.Default(),
		Money:    money.Default(),
	}, httpDeps))
	t.Cleanup(ts.Close)

	_, sess := call(t, http.MethodPost, ts.URL+"/session", "", "")
	token := sess["token"].(string)

	code, _ := call(t, http.MethodPost, ts.URL+"/cart/items", token, `{"product_id":"portrait-1","quantity":2}`)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, 1, carts.Len())

	assert.Equal(t, 1, carts.Sweep(0))
	assert.Equal(t, 0, carts.Len())

	code, body := call(t, http.MethodGet, ts.URL+"/cart", token, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(2), body["total_items"])
	assert.Equal(t, 1, carts.Len())
}
