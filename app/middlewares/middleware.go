package middlewares

import (
	"context"
	"log"
	"net/http"

	"github.com/amberique/storefront/app/helpers"
	"github.com/amberique/storefront/app/utils/sessions"
)

// SessionContextMiddleware resolves the visitor's session and places the
// visitor id, and for logged-in visitors the user id and bearer token, into
// the request context for handlers and API clients.
func SessionContextMiddleware(sessionStore sessions.SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			visitorID, err := sessionStore.VisitorID(w, r)
			if err != nil {
				log.Printf("SessionContextMiddleware: failed to resolve visitor id: %v", err)
				next.ServeHTTP(w, r)
				return
			}

			ctx := helpers.WithSessionID(r.Context(), visitorID)
			if token := sessionStore.AuthToken(r); token != "" {
				ctx = helpers.WithAuthToken(ctx, token)
				ctx = context.WithValue(ctx, helpers.ContextKeyUserID, sessionStore.UserID(r))
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuthMiddleware rejects requests from anonymous visitors.
func RequireAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if helpers.AuthTokenFromContext(r.Context()) == "" {
			http.Error(w, `{"error":"authentication required"}`, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
