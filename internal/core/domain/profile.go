package domain

import (
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleVolunteer Role = "volunteer"
	RoleReporter  Role = "reporter"
)

// roleReporterAlias is the legacy label some stored rows still carry.
const roleReporterAlias = "grievance_reporter"

// NormalizeRole lowercases a stored or submitted role label and folds the
// legacy reporter alias into the canonical label. Unknown labels are returned
// lowercased so callers can treat them as "not admin, not volunteer".
func NormalizeRole(label string) Role {
	r := strings.ToLower(strings.TrimSpace(label))
	if r == roleReporterAlias {
		return RoleReporter
	}
	return Role(r)
}

// ParseSignupRole validates a role chosen at signup. Only volunteer and
// reporter accounts are self-service-creatable; admin accounts are not.
func ParseSignupRole(label string) (Role, error) {
	switch NormalizeRole(label) {
	case RoleVolunteer:
		return RoleVolunteer, nil
	case RoleReporter:
		return RoleReporter, nil
	default:
		return "", ErrUnsupportedRole
	}
}

// CanActOnGrievances reports whether a role may assign or resolve grievances.
func (r Role) CanActOnGrievances() bool {
	return r == RoleAdmin || r == RoleVolunteer
}

type Profile struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Destination names the landing surface a signed-in user is sent to.
type Destination string

const (
	DestinationLogin     Destination = "login"
	DestinationDashboard Destination = "dashboard"
	DestinationVolunteer Destination = "volunteer"
	DestinationReport    Destination = "report"
)

// DestinationFor maps a role to its landing surface. Anything that is not
// admin or volunteer, including an unknown role, lands on the report surface.
func DestinationFor(role Role) Destination {
	switch NormalizeRole(string(role)) {
	case RoleAdmin:
		return DestinationDashboard
	case RoleVolunteer:
		return DestinationVolunteer
	default:
		return DestinationReport
	}
}
