package mocks

import (
	"time"

	"github.com/reliefdesk/grievance-service/internal/core/domain"
)

// SampleGrievance creates a pending grievance for test setup.
func SampleGrievance(id string) domain.Grievance {
	return domain.Grievance{
		ID:          id,
		Name:        "John Doe",
		Phone:       "+1 123-456-7890",
		Location:    "123 Main St, Springfield",
		Type:        domain.TypeHealth,
		Description: "Medical emergency after building collapse.",
		Status:      domain.StatusPending,
		CreatedAt:   time.Now(),
	}
}

// SampleProfile creates a profile with the given role for test setup.
func SampleProfile(id string, role domain.Role) *domain.Profile {
	return &domain.Profile{
		ID:        id,
		Name:      "Test User",
		Email:     id + "@example.com",
		Role:      role,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}
