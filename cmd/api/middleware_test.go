package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecoverPanic(t *testing.T) {
	app := newTestApplication(t)
	h := app.recoverPanic(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := do(t, h, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "close", w.Header().Get("Connection"))
}

func TestRateLimit(t *testing.T) {
	app := newTestApplication(t)
	app.config.limiter.enabled = true
	app.config.limiter.rps = 1
	app.config.limiter.burst = 2
	h := app.routes()

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/doctors", "").Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/doctors", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, do(t, h, http.MethodGet, "/doctors", "").Code)
}

func TestRateLimitDisabled(t *testing.T) {
	h := newTestApplication(t).routes()

	for range 10 {
		require.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/doctors", "").Code)
	}
}

func TestCORSPreflightFromTrustedOrigin(t *testing.T) {
	h := newTestApplication(t).routes()

	r := httptest.NewRequest(http.MethodOptions, "/doctors/1", nil)
	r.Header.Set("Origin", "http://localhost:5173")
	r.Header.Set("Access-Control-Request-Method", http.MethodPut)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSIgnoresUntrustedOrigin(t *testing.T) {
	h := newTestApplication(t).routes()

	r := httptest.NewRequest(http.MethodGet, "/doctors", nil)
	r.Header.Set("Origin", "http://evil.example")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestIDHeader(t *testing.T) {
	h := newTestApplication(t).routes()

	w := do(t, h, http.MethodGet, "/doctors", "")
	assert.Len(t, w.Header().Get("X-Request-Id"), 36)

	r := httptest.NewRequest(http.MethodGet, "/doctors", nil)
	r.Header.Set("X-Request-Id", "abc-123")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-Id"))
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestApplication(t).routes()

	do(t, h, http.MethodPost, "/doctors", `{"name":"Alice"}`)
	do(t, h, http.MethodGet, "/doctors/999", "")

	w := do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `hospital_http_requests_total{code="201",method="POST"} 1`)
	assert.Contains(t, w.Body.String(), `hospital_http_requests_total{code="404",method="GET"} 1`)
	assert.Contains(t, w.Body.String(), `hospital_http_request_duration_seconds_count{method="POST"} 1`)
}
