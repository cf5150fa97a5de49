package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rentopedia/rentals-service/internal/utils"
)

type contextKey string

const (
	ContextKeyUserID   = contextKey("userID")
	ContextKeyUsername = contextKey("username")

	// Session cookie set by the login endpoint.
	TokenCookieName = "token"
)

// AuthMiddleware – for normal-protected endpoints. If token is missing
// or invalid, returns 401.
//   - Browsers send the JWT in the TokenCookieName cookie.
//   - Non-browser clients may send Authorization: Bearer ... instead.
func AuthMiddleware(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, err := extractToken(r)
			if err != nil {
				utils.RespondErrorWithCode(
					w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, err.Error(), nil,
				)
				return
			}

			userID, username, vErr := ValidateToken(tokenStr, secret)
			if vErr != nil {
				if errors.Is(vErr, jwt.ErrTokenExpired) {
					utils.RespondErrorWithCode(
						w, http.StatusUnauthorized, utils.ErrCodeTokenExpired, "Token expired", nil, vErr,
					)
					return
				}
				utils.RespondErrorWithCode(
					w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid token", nil, vErr,
				)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUserID, userID)
			ctx = context.WithValue(ctx, ContextKeyUsername, username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// helper: read the token from the session cookie, falling back to Bearer
func extractToken(r *http.Request) (string, error) {
	if c, err := r.Cookie(TokenCookieName); err == nil && c.Value != "" {
		return c.Value, nil
	}

	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return "", errors.New("missing token cookie")
	}
	return strings.TrimPrefix(h, "Bearer "), nil
}
