package ports

import (
	"context"

	"github.com/reliefdesk/grievance-service/internal/core/domain"
)

type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Profile, error)
	FindByID(ctx context.Context, id string) (*domain.Profile, error)
	// Create inserts one profile row. A duplicate email must surface as
	// domain.ErrEmailTaken.
	Create(ctx context.Context, profile domain.Profile) error
}

type GrievanceRepository interface {
	// Create inserts the grievance and its outbox event in one transaction.
	// A tracking-id collision must surface as domain.ErrDuplicateID.
	Create(ctx context.Context, g domain.Grievance, outboxPayload []byte) error
	FindByID(ctx context.Context, id string) (*domain.Grievance, error)
	List(ctx context.Context) ([]domain.Grievance, error)
	// UpdateStatus moves a grievance from one status to another, writing the
	// outbox event in the same transaction. It fails with domain.ErrNotFound
	// if the id does not exist and domain.ErrInvalidTransition if the record
	// is not in the expected source status.
	UpdateStatus(ctx context.Context, id string, from, to domain.GrievanceStatus, outboxPayload []byte) error
}
