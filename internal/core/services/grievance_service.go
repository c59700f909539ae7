package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/reliefdesk/grievance-service/internal/core/domain"
	"github.com/reliefdesk/grievance-service/internal/core/ports"
)

// idAttempts bounds tracking-id regeneration when an insert collides.
const idAttempts = 5

type GrievanceService struct {
	repo ports.GrievanceRepository
}

var _ ports.GrievanceService = (*GrievanceService)(nil)

func NewGrievanceService(repo ports.GrievanceRepository) *GrievanceService {
	return &GrievanceService{repo: repo}
}

// Report files a new grievance in pending status, assigns a GR-###### id,
// and stages a created event in the outbox.
func (s *GrievanceService) Report(ctx context.Context, in ports.ReportInput) (*domain.Grievance, error) {
	for _, f := range []struct{ name, value string }{
		{"name", in.Name},
		{"phone", in.Phone},
		{"location", in.Location},
		{"description", in.Description},
	} {
		if strings.TrimSpace(f.value) == "" {
			return nil, &domain.MissingFieldError{Field: f.name}
		}
	}

	typ, err := domain.ParseGrievanceType(in.Type)
	if err != nil {
		return nil, err
	}

	g := domain.Grievance{
		Name:        strings.TrimSpace(in.Name),
		Phone:       strings.TrimSpace(in.Phone),
		Location:    strings.TrimSpace(in.Location),
		Type:        typ,
		Description: strings.TrimSpace(in.Description),
		Status:      domain.StatusPending,
		ImageURL:    strings.TrimSpace(in.ImageURL),
		CreatedAt:   time.Now(),
	}

	for attempt := 0; attempt < idAttempts; attempt++ {
		g.ID = domain.NewTrackingID()

		payload, err := eventPayload(g)
		if err != nil {
			return nil, err
		}

		err = s.repo.Create(ctx, g, payload)
		if errors.Is(err, domain.ErrDuplicateID) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return &g, nil
	}
	return nil, domain.ErrDuplicateID
}

// Catalog lists grievances narrowed by the query and facets. Empty facet
// values behave like the "all" sentinel.
func (s *GrievanceService) Catalog(ctx context.Context, query, statusFilter, typeFilter string) ([]domain.Grievance, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if statusFilter == "" {
		statusFilter = domain.FilterAll
	}
	if typeFilter == "" {
		typeFilter = domain.FilterAll
	}
	return domain.FilterGrievances(records, query, statusFilter, typeFilter), nil
}

// Assign moves a pending grievance into progress. The caller's role is
// checked before any state is read; the transition itself is rejected, not
// coerced, when the record is not pending.
func (s *GrievanceService) Assign(ctx context.Context, callerRole domain.Role, id string) error {
	return s.transition(ctx, callerRole, id, domain.StatusPending, domain.StatusProgress)
}

// Resolve moves an in-progress grievance to resolved.
func (s *GrievanceService) Resolve(ctx context.Context, callerRole domain.Role, id string) error {
	return s.transition(ctx, callerRole, id, domain.StatusProgress, domain.StatusResolved)
}

func (s *GrievanceService) transition(ctx context.Context, callerRole domain.Role, id string, from, to domain.GrievanceStatus) error {
	if !domain.NormalizeRole(string(callerRole)).CanActOnGrievances() {
		return domain.ErrForbidden
	}

	g, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if g.Status != from {
		return domain.ErrInvalidTransition
	}

	g.Status = to
	payload, err := eventPayload(*g)
	if err != nil {
		return err
	}
	return s.repo.UpdateStatus(ctx, id, from, to, payload)
}

func eventPayload(g domain.Grievance) ([]byte, error) {
	return json.Marshal(ports.GrievanceEvent{
		GrievanceID: g.ID,
		Type:        string(g.Type),
		Status:      string(g.Status),
		Name:        g.Name,
		Phone:       g.Phone,
		Location:    g.Location,
	})
}
