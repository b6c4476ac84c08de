package models

import (
	"time"

	"github.com/google/uuid"
)

// Subscriber is a citizen registered to receive alerts for a location.
// Email is unique and stored lowercase. Phone is optional; when present it is
// normalized to the +91XXXXXXXXXX convention.
type Subscriber struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Location  string    `json:"location"`
}
