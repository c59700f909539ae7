package mocks

import (
	"context"
	"sync"

	"github.com/reliefdesk/grievance-service/internal/core/ports"
)

// MockGrievancePublisher implements ports.GrievanceEventPublisher for testing
// the outbox relay without a real RabbitMQ connection.
type MockGrievancePublisher struct {
	mu sync.RWMutex

	// Track published events for verification
	PublishedEvents []ports.GrievanceEvent

	// Error injection for testing error scenarios
	PublishError error

	// Track number of calls
	PublishCallCount int
}

var _ ports.GrievanceEventPublisher = (*MockGrievancePublisher)(nil)

func NewMockGrievancePublisher() *MockGrievancePublisher {
	return &MockGrievancePublisher{
		PublishedEvents: make([]ports.GrievanceEvent, 0),
	}
}

// PublishStatusChanged captures published events for verification.
func (m *MockGrievancePublisher) PublishStatusChanged(ctx context.Context, evt ports.GrievanceEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PublishCallCount++

	if m.PublishError != nil {
		return m.PublishError
	}

	m.PublishedEvents = append(m.PublishedEvents, evt)
	return nil
}

// GetPublishedEvents returns all events that were published.
func (m *MockGrievancePublisher) GetPublishedEvents() []ports.GrievanceEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]ports.GrievanceEvent, len(m.PublishedEvents))
	copy(out, m.PublishedEvents)
	return out
}
