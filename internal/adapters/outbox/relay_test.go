package outbox_test

import (
	"sync"
	"testing"

	"github.com/reliefdesk/grievance-service/internal/adapters/outbox"
	"github.com/reliefdesk/grievance-service/test/mocks"
)

func TestRelay_HealthAndReadinessAtStartup(t *testing.T) {
	relay := outbox.NewRelay(nil, "postgres://localhost/relief", "grievances", mocks.NewMockGrievancePublisher())

	if !relay.IsHealthy() {
		t.Error("a freshly constructed relay must report healthy")
	}
	if !relay.IsReady() {
		t.Error("a freshly constructed relay must report ready")
	}
}

// Health endpoints poll from their own goroutine while the processing loop
// updates the same fields; the accessors must be safe under -race.
func TestRelay_ConcurrentHealthReads(t *testing.T) {
	relay := outbox.NewRelay(nil, "postgres://localhost/relief", "grievances", mocks.NewMockGrievancePublisher())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = relay.IsHealthy()
				_ = relay.IsReady()
			}
		}()
	}
	wg.Wait()
}
