package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/reliefdesk/grievance-service/internal/core/domain"
	"github.com/reliefdesk/grievance-service/internal/core/ports"
)

const bcryptCost = 12

type RegistrationService struct {
	userRepo ports.UserRepository
}

var _ ports.RegistrationService = (*RegistrationService)(nil)

func NewRegistrationService(userRepo ports.UserRepository) *RegistrationService {
	return &RegistrationService{userRepo: userRepo}
}

// Signup creates one profile per successful call, with the chosen role
// persisted in the same row. Field validation happens before any store call;
// a duplicate email surfaces as domain.ErrEmailTaken from the repository.
func (s *RegistrationService) Signup(ctx context.Context, email, password, name, roleLabel string) (*domain.Profile, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &domain.MissingFieldError{Field: "name"}
	}
	if strings.TrimSpace(email) == "" {
		return nil, &domain.MissingFieldError{Field: "email"}
	}
	if password == "" {
		return nil, &domain.MissingFieldError{Field: "password"}
	}

	role, err := domain.ParseSignupRole(roleLabel)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	profile := domain.Profile{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(name),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		Role:         role,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, profile); err != nil {
		return nil, err
	}
	return &profile, nil
}
