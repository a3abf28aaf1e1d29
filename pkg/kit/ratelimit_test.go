package kit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_SlidingWindow(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewRateLimiter(2, time.Minute, nil)
	l.now = func() time.Time { return now }

	assert.False(t, l.Limited("a"))
	assert.False(t, l.Limited("a"))
	assert.True(t, l.Limited("a"))
	assert.False(t, l.Limited("b"), "keys are independent")

	now = now.Add(61 * time.Second)
	assert.False(t, l.Limited("a"), "old hits fall out of the window")
}

func TestRateLimiter_Middleware(t *testing.T) {
	l := NewRateLimiter(1, time.Minute, func(r *http.Request) string { return r.Header.Get("X-Key") })
	h := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	do := func(key string) int {
		req := httptest.NewRequest(http.MethodPost, "/checkout", nil)
		req.Header.Set("X-Key", key)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusNoContent, do("s1"))
	require.Equal(t, http.StatusTooManyRequests, do("s1"))
	require.Equal(t, http.StatusNoContent, do("s2"))
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.7:5555"
	assert.Equal(t, "10.0.0.7", ClientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", ClientIP(req))
}
