package services

import (
	"context"

	"github.com/reliefdesk/grievance-service/internal/core/domain"
	"github.com/reliefdesk/grievance-service/internal/core/ports"
)

// SessionResolver turns an authenticated identity into a landing destination.
// It reads the profile fresh on every call, so resolving at page load and
// resolving after a login event cannot disagree for the same role.
type SessionResolver struct {
	userRepo ports.UserRepository
}

var _ ports.SessionResolver = (*SessionResolver)(nil)

func NewSessionResolver(userRepo ports.UserRepository) *SessionResolver {
	return &SessionResolver{userRepo: userRepo}
}

// Resolve maps a user id to a destination. No session means the login
// surface. A missing profile or a profile-fetch failure degrades to the
// report surface, never to an elevated one.
func (r *SessionResolver) Resolve(ctx context.Context, userID string) domain.Destination {
	if userID == "" {
		return domain.DestinationLogin
	}
	profile, err := r.userRepo.FindByID(ctx, userID)
	if err != nil || profile == nil {
		return domain.DestinationReport
	}
	return domain.DestinationFor(profile.Role)
}
