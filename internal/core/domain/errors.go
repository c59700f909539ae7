package domain

import "errors"

// Sentinel errors form the contract between the core services and the
// adapters. Repositories translate driver-level failures into these values;
// handlers translate them into HTTP statuses.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("an account with this email already exists, use the login form instead")
	ErrUnsupportedRole    = errors.New("role must be volunteer or reporter")
	ErrUnsupportedType    = errors.New("type must be one of health, food, shelter, blood")
	ErrForbidden          = errors.New("only volunteers and admins can act on grievances")
	ErrInvalidTransition  = errors.New("grievance is not in the required status for this action")
	ErrInvalidTrackingID  = errors.New("tracking id must look like GR-123456")
	ErrNotFound           = errors.New("no grievance with this tracking id")
	ErrDuplicateID        = errors.New("tracking id is already in use")
)

// MissingFieldError identifies a required field that was left empty, so the
// caller can point at the exact input to fix.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return e.Field + " is required"
}
