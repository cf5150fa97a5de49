package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/rentopedia/rentals-service/internal/models"
	"github.com/rentopedia/rentals-service/internal/utils"
)

// RentRequestEvent describes a committed rent-request state change.
type RentRequestEvent struct {
	PropertyID    uuid.UUID                `json:"property_id"`
	PropertyTitle string                   `json:"property_title"`
	OwnerUsername string                   `json:"owner_username"`
	RequestID     uuid.UUID                `json:"request_id"`
	Requester     string                   `json:"requester"`
	Status        models.RentRequestStatus `json:"status"`
	Days          int                      `json:"days"`
	TotalAmount   float64                  `json:"total_amount"`
	OccurredAt    time.Time                `json:"occurred_at"`
}

// Listener is notified after a transition has been persisted. Delivery
// is best-effort; implementations must not block the request path for
// long and must swallow their own failures.
type Listener interface {
	OnRentRequestChanged(ctx context.Context, ev RentRequestEvent)
}

// Fanout relays one event to every registered listener.
type Fanout struct {
	listeners []Listener
}

func NewFanout(listeners ...Listener) *Fanout {
	return &Fanout{listeners: listeners}
}

func (f *Fanout) Add(l Listener) {
	f.listeners = append(f.listeners, l)
}

func (f *Fanout) OnRentRequestChanged(ctx context.Context, ev RentRequestEvent) {
	for _, l := range f.listeners {
		l.OnRentRequestChanged(ctx, ev)
	}
}

// LogListener writes every state change to the service log.
type LogListener struct{}

func (LogListener) OnRentRequestChanged(_ context.Context, ev RentRequestEvent) {
	utils.Logger.WithFields(logrus.Fields{
		"property_id": ev.PropertyID,
		"request_id":  ev.RequestID,
		"requester":   ev.Requester,
		"owner":       ev.OwnerUsername,
		"status":      ev.Status,
	}).Info("Rent request changed")
}
