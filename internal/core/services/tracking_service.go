package services

import (
	"context"

	"github.com/reliefdesk/grievance-service/internal/core/domain"
	"github.com/reliefdesk/grievance-service/internal/core/ports"
)

// TrackingService is the public read path: possession of a well-formed
// tracking id is the only credential.
type TrackingService struct {
	repo ports.GrievanceRepository
}

var _ ports.TrackingService = (*TrackingService)(nil)

func NewTrackingService(repo ports.GrievanceRepository) *TrackingService {
	return &TrackingService{repo: repo}
}

// Track resolves a tracking id to its grievance. Malformed ids fail before
// any store round-trip.
func (s *TrackingService) Track(ctx context.Context, id string) (*domain.Grievance, error) {
	if !domain.ValidTrackingID(id) {
		return nil, domain.ErrInvalidTrackingID
	}
	return s.repo.FindByID(ctx, id)
}
