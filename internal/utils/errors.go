package utils

import "errors"

/*
   Sentinel errors for rentals-service domain logic.
   Callers can do: if errors.Is(err, ErrXYZ) { ... }
*/
var (
	ErrPropertyNotFound    = errors.New("property_not_found")
	ErrRentRequestNotFound = errors.New("rent_request_not_found")
	ErrUserNotFound        = errors.New("user_not_found")

	ErrNotPropertyOwner = errors.New("not_property_owner")
	ErrNotRequester     = errors.New("not_requester")

	// Transition attempted on a request that is no longer pending.
	ErrWrongStatus = errors.New("wrong_status")

	ErrInvalidDays = errors.New("invalid_days")

	ErrUsernameTaken      = errors.New("username_taken")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrPasswordMismatch   = errors.New("password_mismatch")

	// For concurrency conflicts
	ErrRowVersionConflict = errors.New("row_version_conflict")

	ErrNoRowsUpdated = errors.New("no_rows_updated")
)
