package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/rentopedia/rentals-service/internal/dtos"
	"github.com/rentopedia/rentals-service/internal/events"
	"github.com/rentopedia/rentals-service/internal/models"
	"github.com/rentopedia/rentals-service/internal/repositories"
	"github.com/rentopedia/rentals-service/internal/utils"
)

// RentRequestService drives the rent-request lifecycle: create, accept,
// reject, cancel, and the two cross-property listings. Every mutation is
// a single optimistically-locked property update, so the status change
// and the availability recompute commit together.
type RentRequestService struct {
	props    repositories.PropertyRepository
	listener events.Listener
}

func NewRentRequestService(props repositories.PropertyRepository, listener events.Listener) *RentRequestService {
	return &RentRequestService{props: props, listener: listener}
}

// Create appends a pending request. The property's availability is not
// touched: only an acceptance can flip it.
func (s *RentRequestService) Create(
	ctx context.Context,
	propertyID uuid.UUID,
	requester string,
	req dtos.CreateRentRequestRequest,
) (*models.RentRequest, error) {
	if req.Days < 1 {
		return nil, utils.ErrInvalidDays
	}

	var (
		created models.RentRequest
		ev      events.RentRequestEvent
	)
	err := s.mutateProperty(ctx, propertyID, func(p *models.Property) error {
		r := p.AppendRentRequest(requester, req.Days, req.TotalAmount, time.Now().UTC())
		created = *r
		ev = newRentRequestEvent(p, r)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, ev)
	return &created, nil
}

// Accept is owner-only. The accepted request makes the property
// unavailable; sibling pending requests are left untouched.
func (s *RentRequestService) Accept(
	ctx context.Context,
	propertyID, requestID uuid.UUID,
	actor string,
) (*models.RentRequest, error) {
	return s.decide(ctx, propertyID, requestID, actor, models.RentRequestStatusAccepted)
}

// Reject is owner-only. Availability is recomputed over the full list:
// a property with another accepted request stays unavailable.
func (s *RentRequestService) Reject(
	ctx context.Context,
	propertyID, requestID uuid.UUID,
	actor string,
) (*models.RentRequest, error) {
	return s.decide(ctx, propertyID, requestID, actor, models.RentRequestStatusRejected)
}

// decide applies the owner's accept/reject verdict to a pending request.
func (s *RentRequestService) decide(
	ctx context.Context,
	propertyID, requestID uuid.UUID,
	actor string,
	to models.RentRequestStatus,
) (*models.RentRequest, error) {
	var (
		updated models.RentRequest
		ev      events.RentRequestEvent
	)
	err := s.mutateProperty(ctx, propertyID, func(p *models.Property) error {
		if p.OwnerUserID != actor {
			return utils.ErrNotPropertyOwner
		}
		r, err := p.TransitionRentRequest(requestID, to)
		if err != nil {
			return err
		}
		updated = *r
		ev = newRentRequestEvent(p, r)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, ev)
	return &updated, nil
}

// Cancel is requester-only and allowed while the request is pending.
func (s *RentRequestService) Cancel(
	ctx context.Context,
	propertyID, requestID uuid.UUID,
	actor string,
) (*models.RentRequest, error) {
	var (
		updated models.RentRequest
		ev      events.RentRequestEvent
	)
	err := s.mutateProperty(ctx, propertyID, func(p *models.Property) error {
		r := p.FindRentRequest(requestID)
		if r == nil {
			return utils.ErrRentRequestNotFound
		}
		if r.Requester != actor {
			return utils.ErrNotRequester
		}
		r, err := p.TransitionRentRequest(requestID, models.RentRequestStatusCancelled)
		if err != nil {
			return err
		}
		updated = *r
		ev = newRentRequestEvent(p, r)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, ev)
	return &updated, nil
}

// ListSent returns every request the user filed, across all properties.
// Per-property request ordering is preserved.
func (s *RentRequestService) ListSent(ctx context.Context, username string) ([]dtos.SentRentRequestDTO, error) {
	props, err := s.props.ListByRequester(ctx, username)
	if err != nil {
		return nil, err
	}

	out := []dtos.SentRentRequestDTO{}
	for _, p := range props {
		for _, r := range p.RentRequests {
			if r.Requester != username {
				continue
			}
			out = append(out, dtos.SentRentRequestDTO{
				PropertyID:    p.ID,
				PropertyTitle: p.Title,
				OwnerUsername: p.OwnerUserID,
				RequestID:     r.ID,
				Days:          r.Days,
				TotalAmount:   r.TotalAmount,
				Status:        r.Status,
				CreatedAt:     r.CreatedAt,
			})
		}
	}
	return out, nil
}

// ListReceived returns every request filed against the user's properties.
func (s *RentRequestService) ListReceived(ctx context.Context, username string) ([]dtos.ReceivedRentRequestDTO, error) {
	props, err := s.props.ListWithRequestsByOwner(ctx, username)
	if err != nil {
		return nil, err
	}

	out := []dtos.ReceivedRentRequestDTO{}
	for _, p := range props {
		for _, r := range p.RentRequests {
			out = append(out, dtos.ReceivedRentRequestDTO{
				PropertyID:    p.ID,
				PropertyTitle: p.Title,
				Requester:     r.Requester,
				RequestID:     r.ID,
				Days:          r.Days,
				TotalAmount:   r.TotalAmount,
				Status:        r.Status,
				CreatedAt:     r.CreatedAt,
			})
		}
	}
	return out, nil
}

// ------------------------------------------------------------------
// internals
// ------------------------------------------------------------------

// mutateProperty wraps the optimistic-locking loop and normalizes its
// failure modes: missing property, and contention that survived every
// retry (reported with the latest property state attached).
func (s *RentRequestService) mutateProperty(
	ctx context.Context,
	propertyID uuid.UUID,
	mutate func(*models.Property) error,
) error {
	err := s.props.UpdateWithRetry(ctx, propertyID, mutate)
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return utils.ErrPropertyNotFound
	}
	if errors.Is(err, utils.ErrRowVersionConflict) {
		latest, gErr := s.props.GetByID(ctx, propertyID)
		if gErr == nil && latest != nil {
			return NewRowVersionConflictError(latest)
		}
	}
	return err
}

func (s *RentRequestService) notify(ctx context.Context, ev events.RentRequestEvent) {
	if s.listener == nil {
		return
	}
	s.listener.OnRentRequestChanged(ctx, ev)
}

func newRentRequestEvent(p *models.Property, r *models.RentRequest) events.RentRequestEvent {
	return events.RentRequestEvent{
		PropertyID:    p.ID,
		PropertyTitle: p.Title,
		OwnerUsername: p.OwnerUserID,
		RequestID:     r.ID,
		Requester:     r.Requester,
		Status:        r.Status,
		Days:          r.Days,
		TotalAmount:   r.TotalAmount,
		OccurredAt:    time.Now().UTC(),
	}
}
