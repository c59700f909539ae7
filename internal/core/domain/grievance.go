package domain

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"
)

type GrievanceType string

const (
	TypeHealth  GrievanceType = "health"
	TypeFood    GrievanceType = "food"
	TypeShelter GrievanceType = "shelter"
	TypeBlood   GrievanceType = "blood"
)

func ParseGrievanceType(label string) (GrievanceType, error) {
	switch GrievanceType(strings.ToLower(strings.TrimSpace(label))) {
	case TypeHealth:
		return TypeHealth, nil
	case TypeFood:
		return TypeFood, nil
	case TypeShelter:
		return TypeShelter, nil
	case TypeBlood:
		return TypeBlood, nil
	default:
		return "", ErrUnsupportedType
	}
}

type GrievanceStatus string

const (
	StatusPending  GrievanceStatus = "pending"
	StatusProgress GrievanceStatus = "progress"
	StatusResolved GrievanceStatus = "resolved"
)

type Grievance struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Phone       string          `json:"phone"`
	Location    string          `json:"location"`
	Type        GrievanceType   `json:"type"`
	Description string          `json:"description"`
	Status      GrievanceStatus `json:"status"`
	ImageURL    string          `json:"image,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

var trackingIDPattern = regexp.MustCompile(`^GR-[0-9]{6}$`)

// ValidTrackingID reports whether id has the shape "GR-" plus six digits.
func ValidTrackingID(id string) bool {
	return trackingIDPattern.MatchString(id)
}

// NewTrackingID generates a candidate grievance identifier. Uniqueness is
// enforced by the store; callers retry on collision.
func NewTrackingID() string {
	return fmt.Sprintf("GR-%06d", rand.Intn(1_000_000))
}
