package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rentopedia/rentals-service/internal/utils"
)

type PropertyStatus string

const (
	PropertyStatusAvailable    PropertyStatus = "available"
	PropertyStatusNotAvailable PropertyStatus = "not_available"
)

type RentRequestStatus string

const (
	RentRequestStatusPending   RentRequestStatus = "pending"
	RentRequestStatusAccepted  RentRequestStatus = "accepted"
	RentRequestStatusRejected  RentRequestStatus = "rejected"
	RentRequestStatusCancelled RentRequestStatus = "cancelled"
)

// IsTerminal reports whether no further transition is permitted.
func (s RentRequestStatus) IsTerminal() bool {
	return s == RentRequestStatusAccepted ||
		s == RentRequestStatusRejected ||
		s == RentRequestStatusCancelled
}

// RentRequest lives embedded in exactly one Property. Requester, days and
// total amount never change after creation; only Status moves, and only
// away from pending.
type RentRequest struct {
	ID          uuid.UUID         `json:"id"`
	Requester   string            `json:"requester"`
	Days        int               `json:"days"`
	TotalAmount float64           `json:"total_amount"`
	Status      RentRequestStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
}

type Review struct {
	UserID    uuid.UUID `json:"user_id"`
	Username  string    `json:"username"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

type Property struct {
	Versioned
	ID          uuid.UUID      `json:"id"`
	OwnerUserID string         `json:"owner_user_id"` // username of the creator
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Category    string         `json:"category"`
	SubCategory string         `json:"sub_category"`
	Location    string         `json:"location"`
	RentType    string         `json:"rent_type"`
	Condition   string         `json:"condition"`
	Price       float64        `json:"price"`
	Deposit     float64        `json:"deposit"`
	Images      []string       `json:"images"`
	Status      PropertyStatus `json:"status"`

	// Append-only; ids are stable once assigned, entries are never removed.
	RentRequests []RentRequest `json:"rent_requests"`

	Reviews    []Review  `json:"reviews"`
	ViewsCount int       `json:"views_count"`
	ViewedBy   []string  `json:"viewed_by"`
	CreatedAt  time.Time `json:"created_at"`
}

func (p *Property) GetID() string { return p.ID.String() }

// ------------------------------------------------------------------
// Owned rent-request collection
// ------------------------------------------------------------------

// FindRentRequest returns a pointer into p.RentRequests, or nil.
func (p *Property) FindRentRequest(id uuid.UUID) *RentRequest {
	for i := range p.RentRequests {
		if p.RentRequests[i].ID == id {
			return &p.RentRequests[i]
		}
	}
	return nil
}

// AppendRentRequest creates a pending request at the tail of the list and
// returns a pointer to it. Property availability is untouched: a pending
// request never affects the derived status.
func (p *Property) AppendRentRequest(requester string, days int, totalAmount float64, now time.Time) *RentRequest {
	p.RentRequests = append(p.RentRequests, RentRequest{
		ID:          uuid.New(),
		Requester:   requester,
		Days:        days,
		TotalAmount: totalAmount,
		Status:      RentRequestStatusPending,
		CreatedAt:   now,
	})
	return &p.RentRequests[len(p.RentRequests)-1]
}

// TransitionRentRequest moves a pending request to a terminal status and
// recomputes availability. Terminal requests never change again.
func (p *Property) TransitionRentRequest(id uuid.UUID, to RentRequestStatus) (*RentRequest, error) {
	r := p.FindRentRequest(id)
	if r == nil {
		return nil, utils.ErrRentRequestNotFound
	}
	if r.Status != RentRequestStatusPending {
		return nil, utils.ErrWrongStatus
	}
	r.Status = to
	p.RecomputeStatus()
	return r, nil
}

// HasAcceptedRequest scans the full request list.
func (p *Property) HasAcceptedRequest() bool {
	for i := range p.RentRequests {
		if p.RentRequests[i].Status == RentRequestStatusAccepted {
			return true
		}
	}
	return false
}

// RecomputeStatus derives availability from the entire request list.
// Never set Status directly on a mutation path; always recompute.
func (p *Property) RecomputeStatus() {
	if p.HasAcceptedRequest() {
		p.Status = PropertyStatusNotAvailable
	} else {
		p.Status = PropertyStatusAvailable
	}
}

// ------------------------------------------------------------------
// Views / reviews (unordered-append semantics)
// ------------------------------------------------------------------

// HasViewer reports whether this user was already counted.
func (p *Property) HasViewer(userID string) bool {
	for _, v := range p.ViewedBy {
		if v == userID {
			return true
		}
	}
	return false
}

// RecordView adds the viewer once and bumps the counter. Returns false if
// this viewer was already counted.
func (p *Property) RecordView(userID string) bool {
	if p.HasViewer(userID) {
		return false
	}
	p.ViewedBy = append(p.ViewedBy, userID)
	p.ViewsCount++
	return true
}

func (p *Property) AddReview(userID uuid.UUID, username string, rating int, comment string, now time.Time) {
	p.Reviews = append(p.Reviews, Review{
		UserID:    userID,
		Username:  username,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: now,
	})
}
