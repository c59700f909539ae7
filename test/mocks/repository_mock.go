// Package mocks provides mock implementations of port interfaces for testing.
// In hexagonal architecture, ports define the contracts between the core domain
// and external adapters. Mocks implement these interfaces to enable isolated testing.
package mocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/reliefdesk/grievance-service/internal/core/domain"
	"github.com/reliefdesk/grievance-service/internal/core/ports"
)

// MockUserRepository implements ports.UserRepository in memory, tracking every
// call so tests can assert how services use the store (including that they
// did NOT touch it).
type MockUserRepository struct {
	mu sync.RWMutex

	byID    map[string]*domain.Profile
	byEmail map[string]*domain.Profile

	// Call tracking for verification
	FindByEmailCalls []string
	FindByIDCalls    []string
	CreateCalls      []domain.Profile

	// Error injection for testing error scenarios
	FindByEmailError error
	FindByIDError    error
	CreateError      error
}

var _ ports.UserRepository = (*MockUserRepository)(nil)

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		byID:    make(map[string]*domain.Profile),
		byEmail: make(map[string]*domain.Profile),
	}
}

// SeedUser adds a profile to the mock repository for test setup.
func (m *MockUserRepository) SeedUser(p *domain.Profile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[p.ID] = p
	m.byEmail[p.Email] = p
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	m.mu.Lock()
	m.FindByEmailCalls = append(m.FindByEmailCalls, email)
	m.mu.Unlock()

	if m.FindByEmailError != nil {
		return nil, m.FindByEmailError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.byEmail[email]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return p, nil
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*domain.Profile, error) {
	m.mu.Lock()
	m.FindByIDCalls = append(m.FindByIDCalls, id)
	m.mu.Unlock()

	if m.FindByIDError != nil {
		return nil, m.FindByIDError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return p, nil
}

func (m *MockUserRepository) Create(ctx context.Context, profile domain.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CreateCalls = append(m.CreateCalls, profile)

	if m.CreateError != nil {
		return m.CreateError
	}
	if _, exists := m.byEmail[profile.Email]; exists {
		return domain.ErrEmailTaken
	}

	p := profile
	m.byID[p.ID] = &p
	m.byEmail[p.Email] = &p
	return nil
}

// CallCount returns the total number of store calls the mock has seen.
func (m *MockUserRepository) CallCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.FindByEmailCalls) + len(m.FindByIDCalls) + len(m.CreateCalls)
}

// MockGrievanceRepository implements ports.GrievanceRepository in memory.
type MockGrievanceRepository struct {
	mu sync.RWMutex

	records map[string]*domain.Grievance
	order   []string

	// Call tracking for verification
	CreateCalls       []domain.Grievance
	FindByIDCalls     []string
	ListCalls         int
	UpdateStatusCalls []string

	// Outbox payloads handed to Create/UpdateStatus, in call order.
	OutboxPayloads [][]byte

	// Error injection for testing error scenarios
	CreateError       error
	FindByIDError     error
	ListError         error
	UpdateStatusError error
}

var _ ports.GrievanceRepository = (*MockGrievanceRepository)(nil)

func NewMockGrievanceRepository() *MockGrievanceRepository {
	return &MockGrievanceRepository{
		records: make(map[string]*domain.Grievance),
	}
}

// SeedGrievance adds a record to the mock repository for test setup.
func (m *MockGrievanceRepository) SeedGrievance(g domain.Grievance) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := g
	m.records[g.ID] = &rec
	m.order = append(m.order, g.ID)
}

func (m *MockGrievanceRepository) Create(ctx context.Context, g domain.Grievance, outboxPayload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CreateCalls = append(m.CreateCalls, g)

	if m.CreateError != nil {
		return m.CreateError
	}
	if _, exists := m.records[g.ID]; exists {
		return domain.ErrDuplicateID
	}

	rec := g
	m.records[g.ID] = &rec
	m.order = append(m.order, g.ID)
	m.OutboxPayloads = append(m.OutboxPayloads, outboxPayload)
	return nil
}

func (m *MockGrievanceRepository) FindByID(ctx context.Context, id string) (*domain.Grievance, error) {
	m.mu.Lock()
	m.FindByIDCalls = append(m.FindByIDCalls, id)
	m.mu.Unlock()

	if m.FindByIDError != nil {
		return nil, m.FindByIDError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *g
	return &cp, nil
}

func (m *MockGrievanceRepository) List(ctx context.Context) ([]domain.Grievance, error) {
	m.mu.Lock()
	m.ListCalls++
	m.mu.Unlock()

	if m.ListError != nil {
		return nil, m.ListError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Grievance, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, *m.records[id])
	}
	return out, nil
}

func (m *MockGrievanceRepository) UpdateStatus(ctx context.Context, id string, from, to domain.GrievanceStatus, outboxPayload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.UpdateStatusCalls = append(m.UpdateStatusCalls, id)

	if m.UpdateStatusError != nil {
		return m.UpdateStatusError
	}

	g, ok := m.records[id]
	if !ok {
		return domain.ErrNotFound
	}
	if g.Status != from {
		return domain.ErrInvalidTransition
	}
	g.Status = to
	m.OutboxPayloads = append(m.OutboxPayloads, outboxPayload)
	return nil
}

// Status returns the current status of a seeded record.
func (m *MockGrievanceRepository) Status(id string) domain.GrievanceStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if g, ok := m.records[id]; ok {
		return g.Status
	}
	return ""
}

// CallCount returns the total number of store calls the mock has seen.
func (m *MockGrievanceRepository) CallCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.CreateCalls) + len(m.FindByIDCalls) + m.ListCalls + len(m.UpdateStatusCalls)
}
