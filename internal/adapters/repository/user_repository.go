package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/reliefdesk/grievance-service/internal/core/domain"
	"github.com/reliefdesk/grievance-service/internal/core/ports"
)

// uniqueViolation is the Postgres error code for a unique constraint breach.
const uniqueViolation = "23505"

type UserRepository struct {
	db *sql.DB
}

var _ ports.UserRepository = (*UserRepository)(nil)

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	return r.findOne(ctx,
		"SELECT id, name, email, role, password_hash, created_at, updated_at FROM profiles WHERE email = $1",
		email)
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.Profile, error) {
	return r.findOne(ctx,
		"SELECT id, name, email, role, password_hash, created_at, updated_at FROM profiles WHERE id = $1",
		id)
}

func (r *UserRepository) findOne(ctx context.Context, query, arg string) (*domain.Profile, error) {
	var p domain.Profile
	var role string
	err := r.db.QueryRowContext(ctx, query, arg).
		Scan(&p.ID, &p.Name, &p.Email, &role, &p.PasswordHash, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Role = domain.NormalizeRole(role)
	return &p, nil
}

func (r *UserRepository) Create(ctx context.Context, profile domain.Profile) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO profiles (id, name, email, role, password_hash, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		profile.ID,
		profile.Name,
		profile.Email,
		string(profile.Role),
		profile.PasswordHash,
		profile.CreatedAt,
		profile.UpdatedAt,
	)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return domain.ErrEmailTaken
	}
	return err
}
