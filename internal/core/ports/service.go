package ports

import (
	"context"

	"github.com/reliefdesk/grievance-service/internal/core/domain"
)

type AuthService interface {
	// Login verifies credentials and, on success, returns a signed token and
	// the landing destination for the user's role.
	Login(ctx context.Context, email, password string) (string, domain.Destination, error)
	Logout(ctx context.Context, token string) error
}

type RegistrationService interface {
	Signup(ctx context.Context, email, password, name, role string) (*domain.Profile, error)
}

type SessionResolver interface {
	// Resolve maps an authenticated user id to a landing destination. It is
	// read-fresh on every call so repeated resolutions for the same role
	// always agree.
	Resolve(ctx context.Context, userID string) domain.Destination
}

// ReportInput carries the fields of a new grievance submission.
type ReportInput struct {
	Name        string
	Phone       string
	Location    string
	Type        string
	Description string
	ImageURL    string
}

type GrievanceService interface {
	Report(ctx context.Context, in ReportInput) (*domain.Grievance, error)
	Catalog(ctx context.Context, query, statusFilter, typeFilter string) ([]domain.Grievance, error)
	Assign(ctx context.Context, callerRole domain.Role, id string) error
	Resolve(ctx context.Context, callerRole domain.Role, id string) error
}

type TrackingService interface {
	Track(ctx context.Context, id string) (*domain.Grievance, error)
}
