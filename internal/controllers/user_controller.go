package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rentopedia/rentals-service/internal/dtos"
	"github.com/rentopedia/rentals-service/internal/middleware"
	"github.com/rentopedia/rentals-service/internal/services"
	"github.com/rentopedia/rentals-service/internal/utils"
)

type UserController struct {
	userService  *services.UserService
	jwtSecret    []byte
	secureCookie bool
}

func NewUserController(us *services.UserService, jwtSecret []byte, secureCookie bool) *UserController {
	return &UserController{userService: us, jwtSecret: jwtSecret, secureCookie: secureCookie}
}

// ----------------------------------------------------------------
// GET /api/users/me
// ----------------------------------------------------------------
func (c *UserController) MeHandler(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r)
	if userID == "" {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized,
			"No userID in context", nil, nil,
		)
		return
	}

	user, err := c.userService.Me(r.Context(), userID)
	if err != nil {
		if errors.Is(err, utils.ErrUserNotFound) {
			utils.RespondErrorWithCode(
				w, http.StatusNotFound, utils.ErrCodeNotFound,
				"User not found", nil, nil,
			)
			return
		}
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeInternal,
			"Failed to fetch user", nil, err,
		)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, user)
}

// ----------------------------------------------------------------
// GET /api/users/verify
// Validates the session cookie without requiring middleware, so the
// frontend can probe login state cheaply.
// ----------------------------------------------------------------
func (c *UserController) VerifyHandler(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(middleware.TokenCookieName)
	if err != nil || cookie.Value == "" {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized,
			"No token found", nil, nil,
		)
		return
	}

	userID, username, vErr := middleware.ValidateToken(cookie.Value, c.jwtSecret)
	if vErr != nil {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized,
			"Invalid or expired token", nil, vErr,
		)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dtos.TokenClaimsResponse{
		Message:  "Token is valid",
		UserID:   userID,
		Username: username,
	})
}

// ----------------------------------------------------------------
// GET /api/users/{username}
// ----------------------------------------------------------------
func (c *UserController) ProfileHandler(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	profile, err := c.userService.Profile(r.Context(), username)
	if err != nil {
		if errors.Is(err, utils.ErrUserNotFound) {
			utils.RespondErrorWithCode(
				w, http.StatusNotFound, utils.ErrCodeNotFound,
				"User not found", nil, nil,
			)
			return
		}
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeInternal,
			"Failed to fetch profile", nil, err,
		)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, profile)
}

// ----------------------------------------------------------------
// PUT /api/users/change-password
// ----------------------------------------------------------------
func (c *UserController) ChangePasswordHandler(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r)
	if userID == "" {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized,
			"No userID in context", nil, nil,
		)
		return
	}

	var body dtos.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			"Invalid JSON for change-password payload", nil, err,
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

	err := c.userService.ChangePassword(r.Context(), userID, body)
	switch {
	case err == nil:
		utils.RespondWithJSON(w, http.StatusOK, dtos.MessageResponse{Message: "Password updated successfully"})
	case errors.Is(err, utils.ErrPasswordMismatch):
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation,
			"Passwords do not match", nil, nil,
		)
	case errors.Is(err, utils.ErrInvalidCredentials):
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidCredentials,
			"Old password is incorrect", nil, nil,
		)
	case errors.Is(err, utils.ErrUserNotFound):
		utils.RespondErrorWithCode(
			w, http.StatusNotFound, utils.ErrCodeNotFound,
			"User not found", nil, nil,
		)
	default:
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeInternal,
			"Error updating password", nil, err,
		)
	}
}

// ----------------------------------------------------------------
// DELETE /api/users/delete
// ----------------------------------------------------------------
func (c *UserController) DeleteAccountHandler(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r)
	if userID == "" {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized,
			"No userID in context", nil, nil,
		)
		return
	}

	err := c.userService.DeleteAccount(r.Context(), userID)
	if err != nil {
		if errors.Is(err, utils.ErrUserNotFound) {
			utils.RespondErrorWithCode(
				w, http.StatusNotFound, utils.ErrCodeNotFound,
				"User not found", nil, nil,
			)
			return
		}
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeInternal,
			"Failed to delete account", nil, err,
		)
		return
	}

	clearSessionCookie(w, c.secureCookie)
	utils.RespondWithJSON(w, http.StatusOK, dtos.MessageResponse{Message: "Account deleted and archived successfully"})
}
