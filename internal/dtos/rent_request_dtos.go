package dtos

import (
	"time"

	"github.com/google/uuid"

	"github.com/rentopedia/rentals-service/internal/models"
)

type CreateRentRequestRequest struct {
	Days        int     `json:"days" validate:"required,min=1"`
	TotalAmount float64 `json:"totalAmount" validate:"required,gt=0"`
}

type RentRequestResponse struct {
	Message string              `json:"message"`
	Request *models.RentRequest `json:"request"`
}

// SentRentRequestDTO annotates a request with the property it was filed
// against, for the "requests I sent" view.
type SentRentRequestDTO struct {
	PropertyID    uuid.UUID                `json:"propertyId"`
	PropertyTitle string                   `json:"propertyTitle"`
	OwnerUsername string                   `json:"ownerUsername"`
	RequestID     uuid.UUID                `json:"requestId"`
	Days          int                      `json:"days"`
	TotalAmount   float64                  `json:"totalAmount"`
	Status        models.RentRequestStatus `json:"status"`
	CreatedAt     time.Time                `json:"createdAt"`
}

// ReceivedRentRequestDTO is the owner-side projection.
type ReceivedRentRequestDTO struct {
	PropertyID    uuid.UUID                `json:"propertyId"`
	PropertyTitle string                   `json:"propertyTitle"`
	Requester     string                   `json:"requester"`
	RequestID     uuid.UUID                `json:"requestId"`
	Days          int                      `json:"days"`
	TotalAmount   float64                  `json:"totalAmount"`
	Status        models.RentRequestStatus `json:"status"`
	CreatedAt     time.Time                `json:"createdAt"`
}
