package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsumeDeniesPastBurst(t *testing.T) {
	rl, stop := NewRateLimiter(1, 2)
	defer stop()

	assert.True(t, rl.Consume("10.0.0.1"))
	assert.True(t, rl.Consume("10.0.0.1"))
	assert.False(t, rl.Consume("10.0.0.1"))
}

func TestConsumeBucketsPerKey(t *testing.T) {
	rl, stop := NewRateLimiter(1, 1)
	defer stop()

	assert.True(t, rl.Consume("10.0.0.1"))
	assert.False(t, rl.Consume("10.0.0.1"))
	assert.True(t, rl.Consume("10.0.0.2"))
}

func TestRateLimitMiddleware(t *testing.T) {
	rl, stop := NewRateLimiter(1, 1)
	defer stop()

	handler := RateLimit(rl)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/rooms", nil)
	req.RemoteAddr = "10.0.0.1:52000"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "RATE_LIMITED")

	// A different client port maps to the same bucket
	req.RemoteAddr = "10.0.0.1:52001"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}
