package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rentopedia/rentals-service/internal/dtos"
	"github.com/rentopedia/rentals-service/internal/middleware"
	"github.com/rentopedia/rentals-service/internal/services"
	"github.com/rentopedia/rentals-service/internal/utils"
)

type AuthController struct {
	authService  *services.AuthService
	secureCookie bool
}

func NewAuthController(as *services.AuthService, secureCookie bool) *AuthController {
	return &AuthController{authService: as, secureCookie: secureCookie}
}

// ----------------------------------------------------------------
// POST /api/auth/register
// ----------------------------------------------------------------
func (c *AuthController) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var body dtos.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			"Invalid JSON for register payload", nil, err,
		)
		return
	}
	if err := validate.Struct(body); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation,
			err.Error(), nil, nil,
		)
		return
	}

	if err := c.authService.Register(r.Context(), body); err != nil {
		if errors.Is(err, utils.ErrUsernameTaken) {
			utils.RespondErrorWithCode(
				w, http.StatusBadRequest, utils.ErrCodeConflict,
				"User already exists", nil, nil,
			)
			return
		}
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeInternal,
			"Registration failed", nil, err,
		)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, dtos.MessageResponse{Message: "User registered successfully"})
}

// ----------------------------------------------------------------
// POST /api/auth/login
// ----------------------------------------------------------------
func (c *AuthController) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var body dtos.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			"Invalid JSON for login payload", nil, err,
		)
		return
	}
	if err := validate.Struct(body); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation,
			err.Error(), nil, nil,
		)
		return
	}

	token, err := c.authService.Login(r.Context(), body.Username, body.Password)
	if err != nil {
		if errors.Is(err, utils.ErrInvalidCredentials) {
			utils.RespondErrorWithCode(
				w, http.StatusBadRequest, utils.ErrCodeInvalidCredentials,
				"Invalid credentials", nil, nil,
			)
			return
		}
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeInternal,
			"Login failed", nil, err,
		)
		return
	}

	c.setSessionCookie(w, token)
	utils.RespondWithJSON(w, http.StatusOK, dtos.MessageResponse{Message: "Login successful"})
}

// ----------------------------------------------------------------
// POST /api/auth/logout
// ----------------------------------------------------------------
func (c *AuthController) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	clearSessionCookie(w, c.secureCookie)
	utils.RespondWithJSON(w, http.StatusOK, dtos.MessageResponse{Message: "Logged out successfully"})
}

// ----------------------------------------------------------------
// cookie helpers
// ----------------------------------------------------------------

// Cookie lifetime matches the JWT expiration.
func (c *AuthController) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secureCookie,
		SameSite: http.SameSiteNoneMode,
		MaxAge:   int(c.authService.TokenTTL() / time.Second),
	})
}
