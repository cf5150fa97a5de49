package controllers

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/rentopedia/rentals-service/internal/middleware"
)

var validate = validator.New()

// userIDFromContext returns the authenticated user id, or "" when the
// request came through unauthenticated (optional-auth routes).
func userIDFromContext(r *http.Request) string {
	if v := r.Context().Value(middleware.ContextKeyUserID); v != nil {
		return v.(string)
	}
	return ""
}

func usernameFromContext(r *http.Request) string {
	if v := r.Context().Value(middleware.ContextKeyUsername); v != nil {
		return v.(string)
	}
	return ""
}

func clearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   -1,
	})
}
