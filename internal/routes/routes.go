package routes

const (
	// Health
	Health = "/health"

	// Auth
	AuthRegister = "/api/auth/register"
	AuthLogin    = "/api/auth/login"
	AuthLogout   = "/api/auth/logout"

	// Users
	UsersMe             = "/api/users/me"
	UsersVerify         = "/api/users/verify"
	UsersChangePassword = "/api/users/change-password"
	UsersDelete         = "/api/users/delete"
	UserProfile         = "/api/users/{username}"

	// Properties
	PropertyAll     = "/api/property/all"
	PropertyAdd     = "/api/property/add"
	PropertyByOwner = "/api/property/owner/{username}"
	PropertyByID    = "/api/property/{id}"
	PropertyReview  = "/api/property/{id}/review"

	// Rent requests
	RentRequestsSent     = "/api/property/rent-requests/sent"
	RentRequestsReceived = "/api/property/rent-requests/received"
	RentRequestCreate    = "/api/property/{id}/rent-request"
	RentRequestAccept    = "/api/property/{id}/rent-request/{reqId}/accept"
	RentRequestReject    = "/api/property/{id}/rent-request/{reqId}/reject"
	RentRequestCancel    = "/api/property/{id}/rent-request/{reqId}/cancel"
)
