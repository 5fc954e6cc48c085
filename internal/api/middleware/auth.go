package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/guesspro/guesspro-go/internal/api/apierr"
	"github.com/guesspro/guesspro-go/internal/model"
	"github.com/guesspro/guesspro-go/internal/services/session"
)

// SessionHeader carries the confirmed session token on room actions
const SessionHeader = "X-Session-Id"

type contextKey string

const sessionContextKey contextKey = "session"

// Auth creates session authentication middleware. It resolves the
// X-Session-Id header to a live session and puts it in the context.
func Auth(sessions *session.Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(SessionHeader)
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}
			if _, err := uuid.Parse(token); err != nil {
				apierr.WriteError(w, model.ErrInvalidSession)
				return
			}

			sess, err := sessions.Get(model.SessionID(token))
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), sessionContextKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSession returns the authenticated session from the request context
func GetSession(ctx context.Context) *session.Session {
	sess, _ := ctx.Value(sessionContextKey).(*session.Session)
	return sess
}

// MustGetSession returns the authenticated session or panics
func MustGetSession(ctx context.Context) *session.Session {
	sess := GetSession(ctx)
	if sess == nil {
		panic("no session in context - auth middleware not applied?")
	}
	return sess
}
