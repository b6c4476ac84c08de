package models

import (
	"time"

	"github.com/google/uuid"
)

// Alert is a disaster alert broadcast to subscribers. Alerts are immutable
// once created; the alerts table is an append-only log read newest-first.
type Alert struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Location  string    `json:"location,omitempty"` // optional subscriber-location filter
}
