package ports

import (
	"context"
)

// GrievanceEvent is the payload relayed to volunteers when a grievance is
// created or changes status. Assignment carries no assignee: the event is the
// whole side effect.
type GrievanceEvent struct {
	GrievanceID string `json:"grievance_id"`
	Type        string `json:"type"`
	Status      string `json:"status"`
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Location    string `json:"location"`
}

type GrievanceEventPublisher interface {
	PublishStatusChanged(ctx context.Context, evt GrievanceEvent) error
}
