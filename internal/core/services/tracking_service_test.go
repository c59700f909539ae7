package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/reliefdesk/grievance-service/internal/core/domain"
	"github.com/reliefdesk/grievance-service/internal/core/services"
	"github.com/reliefdesk/grievance-service/test/mocks"
)

func TestTrack_Found(t *testing.T) {
	repo := mocks.NewMockGrievanceRepository()
	repo.SeedGrievance(mocks.SampleGrievance("GR-723491"))
	svc := services.NewTrackingService(repo)

	g, err := svc.Track(context.Background(), "GR-723491")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.ID != "GR-723491" || g.Status != domain.StatusPending {
		t.Errorf("unexpected record: %+v", g)
	}
}

func TestTrack_MalformedIDFailsBeforeStore(t *testing.T) {
	for _, id := range []string{"", "XYZ", "GR-12345", "gr-723491"} {
		repo := mocks.NewMockGrievanceRepository()
		svc := services.NewTrackingService(repo)

		_, err := svc.Track(context.Background(), id)
		if !errors.Is(err, domain.ErrInvalidTrackingID) {
			t.Errorf("Track(%q): expected ErrInvalidTrackingID, got %v", id, err)
		}
		if repo.CallCount() != 0 {
			t.Errorf("Track(%q): store must not be touched for malformed ids", id)
		}
	}
}

func TestTrack_WellFormedButUnknown(t *testing.T) {
	svc := services.NewTrackingService(mocks.NewMockGrievanceRepository())

	_, err := svc.Track(context.Background(), "GR-000000")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
