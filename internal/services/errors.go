package services

import (
	"github.com/rentopedia/rentals-service/internal/models"
)

/*
   RowVersionConflictError is returned when a property update lost the
   optimistic-lock race on every retry. It includes the "latest"
   Property so the controller can return it to the client if desired.
*/
type RowVersionConflictError struct {
	Current *models.Property
}

func (e *RowVersionConflictError) Error() string {
	return "row_version_conflict"
}

func NewRowVersionConflictError(current *models.Property) error {
	return &RowVersionConflictError{Current: current}
}
