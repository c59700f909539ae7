package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/reliefdesk/grievance-service/internal/core/domain"
	"github.com/reliefdesk/grievance-service/internal/core/ports"
	"github.com/reliefdesk/grievance-service/internal/core/services"
	"github.com/reliefdesk/grievance-service/test/mocks"
)

func validReport() ports.ReportInput {
	return ports.ReportInput{
		Name:        "John Doe",
		Phone:       "+1 123-456-7890",
		Location:    "123 Main St, Springfield",
		Type:        "health",
		Description: "Medical emergency after building collapse.",
	}
}

func TestReport_Success(t *testing.T) {
	repo := mocks.NewMockGrievanceRepository()
	svc := services.NewGrievanceService(repo)

	g, err := svc.Report(context.Background(), validReport())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !domain.ValidTrackingID(g.ID) {
		t.Errorf("expected GR-<6 digits> id, got %q", g.ID)
	}
	if g.Status != domain.StatusPending {
		t.Errorf("new grievance must start pending, got %q", g.Status)
	}
	if g.Type != domain.TypeHealth {
		t.Errorf("expected health type, got %q", g.Type)
	}

	// One outbox payload staged alongside the insert.
	if len(repo.OutboxPayloads) != 1 {
		t.Fatalf("expected one outbox payload, got %d", len(repo.OutboxPayloads))
	}
	var evt ports.GrievanceEvent
	if err := json.Unmarshal(repo.OutboxPayloads[0], &evt); err != nil {
		t.Fatalf("outbox payload is not valid JSON: %v", err)
	}
	if evt.GrievanceID != g.ID || evt.Status != "pending" {
		t.Errorf("outbox event mismatch: %+v", evt)
	}
}

func TestReport_MissingFields(t *testing.T) {
	tests := []struct {
		field  string
		mutate func(*ports.ReportInput)
	}{
		{"name", func(in *ports.ReportInput) { in.Name = " " }},
		{"phone", func(in *ports.ReportInput) { in.Phone = "" }},
		{"location", func(in *ports.ReportInput) { in.Location = "" }},
		{"description", func(in *ports.ReportInput) { in.Description = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			repo := mocks.NewMockGrievanceRepository()
			svc := services.NewGrievanceService(repo)

			in := validReport()
			tt.mutate(&in)

			_, err := svc.Report(context.Background(), in)
			var missing *domain.MissingFieldError
			if !errors.As(err, &missing) || missing.Field != tt.field {
				t.Fatalf("expected MissingFieldError{%s}, got %v", tt.field, err)
			}
			if repo.CallCount() != 0 {
				t.Errorf("store must not be touched on validation failure, saw %d calls", repo.CallCount())
			}
		})
	}
}

func TestReport_UnsupportedType(t *testing.T) {
	repo := mocks.NewMockGrievanceRepository()
	svc := services.NewGrievanceService(repo)

	in := validReport()
	in.Type = "money"

	_, err := svc.Report(context.Background(), in)
	if !errors.Is(err, domain.ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
	if repo.CallCount() != 0 {
		t.Errorf("store must not be touched on type rejection, saw %d calls", repo.CallCount())
	}
}

func TestReport_GivesUpAfterRepeatedCollisions(t *testing.T) {
	repo := mocks.NewMockGrievanceRepository()
	repo.CreateError = domain.ErrDuplicateID
	svc := services.NewGrievanceService(repo)

	_, err := svc.Report(context.Background(), validReport())
	if !errors.Is(err, domain.ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID after exhausting retries, got %v", err)
	}
	if len(repo.CreateCalls) < 2 {
		t.Errorf("expected multiple insert attempts, got %d", len(repo.CreateCalls))
	}
}

func TestCatalog_EmptyFacetsMeanAll(t *testing.T) {
	repo := mocks.NewMockGrievanceRepository()
	repo.SeedGrievance(mocks.SampleGrievance("GR-111111"))
	repo.SeedGrievance(mocks.SampleGrievance("GR-222222"))
	svc := services.NewGrievanceService(repo)

	got, err := svc.Catalog(context.Background(), "", "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected both records, got %d", len(got))
	}
}

func TestCatalog_AppliesFilter(t *testing.T) {
	repo := mocks.NewMockGrievanceRepository()
	a := mocks.SampleGrievance("GR-111111")
	b := mocks.SampleGrievance("GR-222222")
	b.Name = "Maria Lopez"
	b.Status = domain.StatusProgress
	repo.SeedGrievance(a)
	repo.SeedGrievance(b)
	svc := services.NewGrievanceService(repo)

	got, err := svc.Catalog(context.Background(), "maria", "progress", domain.FilterAll)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "GR-222222" {
		t.Fatalf("expected only GR-222222, got %v", got)
	}
}

func TestAssign_PendingToProgress(t *testing.T) {
	repo := mocks.NewMockGrievanceRepository()
	repo.SeedGrievance(mocks.SampleGrievance("GR-723491"))
	svc := services.NewGrievanceService(repo)

	if err := svc.Assign(context.Background(), domain.RoleVolunteer, "GR-723491"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.Status("GR-723491") != domain.StatusProgress {
		t.Errorf("expected progress status, got %q", repo.Status("GR-723491"))
	}

	// The status change and the notification payload travel together.
	if len(repo.OutboxPayloads) != 1 {
		t.Fatalf("expected one outbox payload, got %d", len(repo.OutboxPayloads))
	}
	var evt ports.GrievanceEvent
	if err := json.Unmarshal(repo.OutboxPayloads[0], &evt); err != nil {
		t.Fatalf("outbox payload is not valid JSON: %v", err)
	}
	if evt.GrievanceID != "GR-723491" || evt.Status != "progress" {
		t.Errorf("outbox event mismatch: %+v", evt)
	}
}

func TestTransitions_Matrix(t *testing.T) {
	tests := []struct {
		name    string
		from    domain.GrievanceStatus
		act     string
		wantErr error
	}{
		{"assign_pending_ok", domain.StatusPending, "assign", nil},
		{"assign_progress_rejected", domain.StatusProgress, "assign", domain.ErrInvalidTransition},
		{"assign_resolved_rejected", domain.StatusResolved, "assign", domain.ErrInvalidTransition},
		{"resolve_pending_rejected", domain.StatusPending, "resolve", domain.ErrInvalidTransition},
		{"resolve_progress_ok", domain.StatusProgress, "resolve", nil},
		{"resolve_resolved_rejected", domain.StatusResolved, "resolve", domain.ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewMockGrievanceRepository()
			g := mocks.SampleGrievance("GR-723491")
			g.Status = tt.from
			repo.SeedGrievance(g)
			svc := services.NewGrievanceService(repo)

			var err error
			if tt.act == "assign" {
				err = svc.Assign(context.Background(), domain.RoleAdmin, "GR-723491")
			} else {
				err = svc.Resolve(context.Background(), domain.RoleAdmin, "GR-723491")
			}

			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			// A rejected transition must never coerce the stored status.
			if repo.Status("GR-723491") != tt.from {
				t.Errorf("status changed despite rejection: %q", repo.Status("GR-723491"))
			}
		})
	}
}

func TestTransitions_ReporterForbiddenBeforeAnyRead(t *testing.T) {
	repo := mocks.NewMockGrievanceRepository()
	repo.SeedGrievance(mocks.SampleGrievance("GR-723491"))
	svc := services.NewGrievanceService(repo)

	if err := svc.Assign(context.Background(), domain.RoleReporter, "GR-723491"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := svc.Resolve(context.Background(), "grievance_reporter", "GR-723491"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for legacy label, got %v", err)
	}

	// The role gate comes first: no record read, no status change.
	if repo.CallCount() != 0 {
		t.Errorf("store must not be touched for forbidden callers, saw %d calls", repo.CallCount())
	}
	if repo.Status("GR-723491") != domain.StatusPending {
		t.Errorf("status changed for forbidden caller: %q", repo.Status("GR-723491"))
	}
}

func TestTransitions_UnknownID(t *testing.T) {
	repo := mocks.NewMockGrievanceRepository()
	svc := services.NewGrievanceService(repo)

	if err := svc.Assign(context.Background(), domain.RoleAdmin, "GR-000001"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
