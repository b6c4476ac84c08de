package models

import (
	"time"

	"github.com/google/uuid"
)

// Missing-person report statuses. Transitions happen only through an
// authenticated admin action; there is no automatic expiry.
const (
	MissingStatusActive   = "active"
	MissingStatusResolved = "resolved"
)

// MissingPerson is a public missing-person report.
type MissingPerson struct {
	ID               uuid.UUID `json:"id"`
	CreatedAt        time.Time `json:"created_at"`
	Name             string    `json:"name"`
	Age              int       `json:"age"`
	Gender           string    `json:"gender"`
	Location         string    `json:"location"`
	DateSeen         string    `json:"date_seen"`
	Description      string    `json:"description"`
	Notes            string    `json:"notes,omitempty"`
	ReporterName     string    `json:"reporter_name"`
	ReporterContact  string    `json:"reporter_contact"`
	ReporterRelation string    `json:"reporter_relation"`
	PhotoURL         string    `json:"photo_url,omitempty"`
	Status           string    `json:"status"`
}

// ValidMissingStatus reports whether s is a known report status.
func ValidMissingStatus(s string) bool {
	return s == MissingStatusActive || s == MissingStatusResolved
}
