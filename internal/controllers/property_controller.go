package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/rentopedia/rentals-service/internal/dtos"
	"github.com/rentopedia/rentals-service/internal/services"
	"github.com/rentopedia/rentals-service/internal/utils"
)

type PropertyController struct {
	propertyService *services.PropertyService
}

func NewPropertyController(ps *services.PropertyService) *PropertyController {
	return &PropertyController{propertyService: ps}
}

// ----------------------------------------------------------------
// GET /api/property/all  (public)
// ----------------------------------------------------------------
func (c *PropertyController) ListAllHandler(w http.ResponseWriter, r *http.Request) {
	props, err := c.propertyService.ListAll(r.Context())
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeInternal,
			"Failed to fetch properties", nil, err,
		)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, props)
}

// ----------------------------------------------------------------
// GET /api/property/{id}  (optional auth – logged-in views are counted)
// ----------------------------------------------------------------
func (c *PropertyController) GetPropertyHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusNotFound, utils.ErrCodeNotFound,
			"Property not found", nil, nil,
		)
		return
	}

	prop, err := c.propertyService.Get(r.Context(), id, userIDFromContext(r))
	if err != nil {
		if errors.Is(err, utils.ErrPropertyNotFound) {
			utils.RespondErrorWithCode(
				w, http.StatusNotFound, utils.ErrCodeNotFound,
				"Property not found", nil, nil,
			)
			return
		}
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeInternal,
			"Failed to fetch property", nil, err,
		)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, prop)
}

// ----------------------------------------------------------------
// POST /api/property/add
// ----------------------------------------------------------------
func (c *PropertyController) CreatePropertyHandler(w http.ResponseWriter, r *http.Request) {
	username := usernameFromContext(r)
	if username == "" {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized,
			"No username in context", nil, nil,
		)
		return
	}

	var body dtos.CreatePropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			"Invalid JSON for property payload", nil, err,
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

	prop, err := c.propertyService.Create(r.Context(), username, body)
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeInternal,
			"Failed to create property", nil, err,
		)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, prop)
}

// ----------------------------------------------------------------
// GET /api/property/owner/{username}  (must be the logged-in user)
// ----------------------------------------------------------------
func (c *PropertyController) ListByOwnerHandler(w http.ResponseWriter, r *http.Request) {
	actor := usernameFromContext(r)
	if actor == "" {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized,
			"No username in context", nil, nil,
		)
		return
	}

	props, err := c.propertyService.ListByOwner(r.Context(), mux.Vars(r)["username"], actor)
	if err != nil {
		if errors.Is(err, utils.ErrNotPropertyOwner) {
			utils.RespondErrorWithCode(
				w, http.StatusForbidden, utils.ErrCodeForbidden,
				"Not authorized to view these properties", nil, nil,
			)
			return
		}
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeInternal,
			"Failed to fetch properties", nil, err,
		)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, props)
}

// ----------------------------------------------------------------
// POST /api/property/{id}/review
// ----------------------------------------------------------------
func (c *PropertyController) AddReviewHandler(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r)
	username := usernameFromContext(r)
	if userID == "" || username == "" {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized,
			"No userID in context", nil, nil,
		)
		return
	}
	uid, err := uuid.Parse(userID)
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized,
			"Invalid userID in context", nil, err,
		)
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusNotFound, utils.ErrCodeNotFound,
			"Property not found", nil, nil,
		)
		return
	}

	var body dtos.AddReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			"Invalid JSON for review payload", nil, err,
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

	prop, err := c.propertyService.AddReview(r.Context(), id, uid, username, body)
	if err != nil {
		if errors.Is(err, utils.ErrPropertyNotFound) {
			utils.RespondErrorWithCode(
				w, http.StatusNotFound, utils.ErrCodeNotFound,
				"Property not found", nil, nil,
			)
			return
		}
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeInternal,
			"Failed to add review", nil, err,
		)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, prop)
}
