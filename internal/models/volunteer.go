package models

import (
	"time"

	"github.com/google/uuid"
)

// Volunteer is an enrolled disaster-relief volunteer.
type Volunteer struct {
	ID            uuid.UUID `json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	Name          string    `json:"name"`
	Age           int       `json:"age"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone,omitempty"`
	Location      string    `json:"location,omitempty"`
	Skills        string    `json:"skills,omitempty"`
	Availability  string    `json:"availability,omitempty"`
	ProfilePicURL string    `json:"profile_pic_url,omitempty"`
}
