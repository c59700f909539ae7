package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/reliefdesk/grievance-service/internal/core/domain"
	"github.com/reliefdesk/grievance-service/internal/core/ports"
)

type GrievanceRepository struct {
	db        *sql.DB
	eventType string
}

var _ ports.GrievanceRepository = (*GrievanceRepository)(nil)

// NewGrievanceRepository builds the Postgres-backed grievance store.
// eventType tags outbox rows so the relay can route them to the right queue.
func NewGrievanceRepository(db *sql.DB, eventType string) *GrievanceRepository {
	return &GrievanceRepository{db: db, eventType: eventType}
}

func (r *GrievanceRepository) Create(ctx context.Context, g domain.Grievance, outboxPayload []byte) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO grievances (id, name, phone, location, type, description, status, image_url, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		g.ID, g.Name, g.Phone, g.Location, string(g.Type), g.Description, string(g.Status), g.ImageURL, g.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.ErrDuplicateID
		}
		return err
	}

	if err := r.insertOutboxEvent(ctx, tx, outboxPayload); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *GrievanceRepository) FindByID(ctx context.Context, id string) (*domain.Grievance, error) {
	var g domain.Grievance
	var typ, status string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, phone, location, type, description, status, image_url, created_at
		 FROM grievances WHERE id = $1`, id).
		Scan(&g.ID, &g.Name, &g.Phone, &g.Location, &typ, &g.Description, &status, &g.ImageURL, &g.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	g.Type = domain.GrievanceType(typ)
	g.Status = domain.GrievanceStatus(status)
	return &g, nil
}

func (r *GrievanceRepository) List(ctx context.Context) ([]domain.Grievance, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, phone, location, type, description, status, image_url, created_at
		 FROM grievances ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Grievance
	for rows.Next() {
		var g domain.Grievance
		var typ, status string
		if err := rows.Scan(&g.ID, &g.Name, &g.Phone, &g.Location, &typ, &g.Description, &status, &g.ImageURL, &g.CreatedAt); err != nil {
			return nil, err
		}
		g.Type = domain.GrievanceType(typ)
		g.Status = domain.GrievanceStatus(status)
		out = append(out, g)
	}
	return out, rows.Err()
}

// UpdateStatus applies a conditional transition. The WHERE clause carries the
// expected source status so two concurrent actions cannot both succeed; when
// no row matches, a follow-up read distinguishes "gone" from "wrong state".
func (r *GrievanceRepository) UpdateStatus(ctx context.Context, id string, from, to domain.GrievanceStatus, outboxPayload []byte) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE grievances SET status = $1 WHERE id = $2 AND status = $3",
		string(to), id, string(from),
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		var cur string
		err := tx.QueryRowContext(ctx, "SELECT status FROM grievances WHERE id = $1", id).Scan(&cur)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		if err != nil {
			return err
		}
		return domain.ErrInvalidTransition
	}

	if err := r.insertOutboxEvent(ctx, tx, outboxPayload); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *GrievanceRepository) insertOutboxEvent(ctx context.Context, tx *sql.Tx, payload []byte) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO outbox_events (id, event_type, payload, created_at) VALUES ($1, $2, $3, $4)",
		uuid.NewString(), r.eventType, payload, time.Now(),
	)
	return err
}
