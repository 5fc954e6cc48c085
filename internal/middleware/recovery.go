package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"
)

// PanicHandler writes the response for a request whose handler panicked
type PanicHandler func(w http.ResponseWriter, r *http.Request, v any)

// Recovery turns a handler panic into a logged error response instead of
// a dropped connection
func Recovery(logger *slog.Logger, handler PanicHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if v := recover(); v != nil {
					logger.Error("handler panicked",
						slog.Any("panic", v),
						slog.String("method", r.Method),
						slog.String("path", r.URL.Path),
						slog.String("stack", string(debug.Stack())),
					)
					handler(w, r, v)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
