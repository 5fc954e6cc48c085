package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guesspro/guesspro-go/internal/testutil"
)

func TestLoggingPassesResponseThrough(t *testing.T) {
	handler := Logging(testutil.NopLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/anything", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "short", rec.Body.String())
}

func TestLoggingWrapperForwardsFlush(t *testing.T) {
	handler := Logging(testutil.NopLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		require.True(t, ok)
		_, _ = w.Write([]byte("frame"))
		flusher.Flush()
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stream", nil))

	assert.True(t, rec.Flushed)
}

func TestRecoveryInvokesPanicHandler(t *testing.T) {
	var captured any
	recovery := Recovery(testutil.NopLogger(), func(w http.ResponseWriter, _ *http.Request, v any) {
		captured = v
		w.WriteHeader(http.StatusInternalServerError)
	})

	handler := recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/anything", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "boom", captured)
}
