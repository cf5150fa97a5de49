package middleware

import (
	"context"
	"net/http"
)

// OptionalAuthMiddleware is identical to AuthMiddleware except that the
// request passes through anonymously when no token is present or the
// token does not validate. Used by routes that merely personalize
// behavior for logged-in users (e.g. view counting).
func OptionalAuthMiddleware(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, _ := extractToken(r) // ignore error here
			if tokenStr == "" {
				next.ServeHTTP(w, r) // unauthenticated – allowed
				return
			}

			userID, username, vErr := ValidateToken(tokenStr, secret)
			if vErr != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUserID, userID)
			ctx = context.WithValue(ctx, ContextKeyUsername, username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
