package middleware

import (
	"log/slog"
	"net/http"

	"github.com/guesspro/guesspro-go/internal/api/apierr"
	"github.com/guesspro/guesspro-go/internal/middleware"
)

// Recovery converts handler panics into INTERNAL_ERROR JSON responses
// so API clients never see a dropped connection
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, writePanicError)
}

func writePanicError(w http.ResponseWriter, _ *http.Request, _ any) {
	apierr.WriteError(w, apierr.NewInternalError())
}
