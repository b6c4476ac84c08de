package models

import (
	"time"

	"github.com/google/uuid"
)

// Admin is an administrator account. Password is stored as an Argon2id hash.
type Admin struct {
	ID           uuid.UUID `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
}
