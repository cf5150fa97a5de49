package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/rentopedia/rentals-service/internal/dtos"
	"github.com/rentopedia/rentals-service/internal/models"
	"github.com/rentopedia/rentals-service/internal/services"
	"github.com/rentopedia/rentals-service/internal/utils"
)

type RentRequestController struct {
	rentRequestService *services.RentRequestService
}

func NewRentRequestController(rs *services.RentRequestService) *RentRequestController {
	return &RentRequestController{rentRequestService: rs}
}

// ----------------------------------------------------------------
// POST /api/property/{id}/rent-request
// ----------------------------------------------------------------
func (c *RentRequestController) CreateHandler(w http.ResponseWriter, r *http.Request) {
	username := usernameFromContext(r)
	if username == "" {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized,
			"No username in context", nil, nil,
		)
		return
	}

	propertyID, ok := parsePropertyID(w, r)
	if !ok {
		return
	}

	var body dtos.CreateRentRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			"Invalid JSON for rent-request payload", nil, err,
		)
		return
	}
	if err := validate.Struct(body); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation,
			"Invalid days", nil, err,
		)
		return
	}

	req, err := c.rentRequestService.Create(r.Context(), propertyID, username, body)
	if err != nil {
		c.respondLifecycleError(w, err, "Failed to send rent request")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.RentRequestResponse{
		Message: "Rent request sent!",
		Request: req,
	})
}

// ----------------------------------------------------------------
// POST /api/property/{id}/rent-request/{reqId}/accept
// ----------------------------------------------------------------
func (c *RentRequestController) AcceptHandler(w http.ResponseWriter, r *http.Request) {
	c.decideHandler(w, r, c.rentRequestService.Accept, "Request accepted", "Failed to accept request")
}

// ----------------------------------------------------------------
// POST /api/property/{id}/rent-request/{reqId}/reject
// ----------------------------------------------------------------
func (c *RentRequestController) RejectHandler(w http.ResponseWriter, r *http.Request) {
	c.decideHandler(w, r, c.rentRequestService.Reject, "Request rejected", "Failed to reject request")
}

// ----------------------------------------------------------------
// POST /api/property/{id}/rent-request/{reqId}/cancel
// ----------------------------------------------------------------
func (c *RentRequestController) CancelHandler(w http.ResponseWriter, r *http.Request) {
	c.decideHandler(w, r, c.rentRequestService.Cancel, "Request cancelled", "Failed to cancel request")
}

// ----------------------------------------------------------------
// GET /api/property/rent-requests/sent
// ----------------------------------------------------------------
func (c *RentRequestController) ListSentHandler(w http.ResponseWriter, r *http.Request) {
	username := usernameFromContext(r)
	if username == "" {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized,
			"No username in context", nil, nil,
		)
		return
	}

	out, err := c.rentRequestService.ListSent(r.Context(), username)
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeInternal,
			"Failed to list sent requests", nil, err,
		)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, out)
}

// ----------------------------------------------------------------
// GET /api/property/rent-requests/received
// ----------------------------------------------------------------
func (c *RentRequestController) ListReceivedHandler(w http.ResponseWriter, r *http.Request) {
	username := usernameFromContext(r)
	if username == "" {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized,
			"No username in context", nil, nil,
		)
		return
	}

	out, err := c.rentRequestService.ListReceived(r.Context(), username)
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeInternal,
			"Failed to list received requests", nil, err,
		)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, out)
}

// ----------------------------------------------------------------
// internals
// ----------------------------------------------------------------

type decideFunc func(ctx context.Context, propertyID, requestID uuid.UUID, actor string) (*models.RentRequest, error)

func (c *RentRequestController) decideHandler(
	w http.ResponseWriter,
	r *http.Request,
	decide decideFunc,
	successMsg, failureMsg string,
) {
	username := usernameFromContext(r)
	if username == "" {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized,
			"No username in context", nil, nil,
		)
		return
	}

	propertyID, ok := parsePropertyID(w, r)
	if !ok {
		return
	}
	requestID, err := uuid.Parse(mux.Vars(r)["reqId"])
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusNotFound, utils.ErrCodeNotFound,
			"Rent request not found", nil, nil,
		)
		return
	}

	req, err := decide(r.Context(), propertyID, requestID, username)
	if err != nil {
		c.respondLifecycleError(w, err, failureMsg)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.RentRequestResponse{
		Message: successMsg,
		Request: req,
	})
}

func parsePropertyID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusNotFound, utils.ErrCodeNotFound,
			"Property not found", nil, nil,
		)
		return uuid.Nil, false
	}
	return id, true
}

// respondLifecycleError maps lifecycle-engine failures onto the HTTP
// error contract.
func (c *RentRequestController) respondLifecycleError(w http.ResponseWriter, err error, fallbackMsg string) {
	var conflict *services.RowVersionConflictError

	switch {
	case errors.Is(err, utils.ErrPropertyNotFound):
		utils.RespondErrorWithCode(
			w, http.StatusNotFound, utils.ErrCodeNotFound,
			"Property not found", nil, nil,
		)
	case errors.Is(err, utils.ErrRentRequestNotFound):
		utils.RespondErrorWithCode(
			w, http.StatusNotFound, utils.ErrCodeNotFound,
			"Rent request not found", nil, nil,
		)
	case errors.Is(err, utils.ErrNotPropertyOwner), errors.Is(err, utils.ErrNotRequester):
		utils.RespondErrorWithCode(
			w, http.StatusForbidden, utils.ErrCodeForbidden,
			"Not authorized", nil, nil,
		)
	case errors.Is(err, utils.ErrWrongStatus):
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeWrongStatus,
			"Only pending requests can be updated", nil, nil,
		)
	case errors.Is(err, utils.ErrInvalidDays):
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			"Invalid days", nil, nil,
		)
	case errors.As(err, &conflict):
		utils.RespondErrorWithCode(
			w, http.StatusConflict, utils.ErrCodeRowVersionConflict,
			"Property was updated concurrently, please retry", conflict.Current, nil,
		)
	default:
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeInternal,
			fallbackMsg, nil, err,
		)
	}
}
