package handlers

import (
	"context"
	"net/http"

	"github.com/shortkeyhq/shortkey/internal/session"
)

type ctxKey int

const userIDKey ctxKey = iota

// RequireSession guards routes that need an authenticated user. The
// resolved user id is injected into the request context.
func RequireSession(sessions *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := sessions.Verify(r)
			if !ok {
				jsonError(w, "authentication required", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserID returns the authenticated user's id, or 0 outside a guarded route.
func UserID(ctx context.Context) int64 {
	id, _ := ctx.Value(userIDKey).(int64)
	return id
}
