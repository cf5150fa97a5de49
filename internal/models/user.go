package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	Versioned
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u *User) GetID() string { return u.ID.String() }

// DeletedUser is the archive record written before a user row is removed.
type DeletedUser struct {
	ID             uuid.UUID `json:"id"`
	OriginalUserID uuid.UUID `json:"original_user_id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	Reason         string    `json:"reason"`
	DeletedAt      time.Time `json:"deleted_at"`
}

const DeletionReasonUserRequested = "user_requested"
