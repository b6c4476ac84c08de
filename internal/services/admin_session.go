package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/google/uuid"

	"github.com/adityavermaa/sahayata-backend/internal/database"
)

const (
	// AdminSessionDuration is how long an admin stays signed in.
	AdminSessionDuration = 7 * 24 * time.Hour
	// AdminSessionKeyPrefix is the Redis key prefix for session -> admin.
	AdminSessionKeyPrefix = "admin_session:"
	// AdminToSessionKeyPrefix is the Redis key prefix for admin -> session.
	AdminToSessionKeyPrefix = "admin_to_session:"
)

// CreateAdminSession creates a server-side session for an admin and returns
// the opaque token. Any existing session for the admin is invalidated first
// so there is at most one live session per admin.
func CreateAdminSession(ctx context.Context, adminID uuid.UUID) (string, error) {
	_ = InvalidateAdminSessions(ctx, adminID)

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	token := base64.URLEncoding.EncodeToString(tokenBytes)

	sessionKey := AdminSessionKeyPrefix + token
	adminKey := AdminToSessionKeyPrefix + adminID.String()

	if err := database.RedisClient.Set(ctx, sessionKey, adminID.String(), AdminSessionDuration).Err(); err != nil {
		return "", err
	}
	if err := database.RedisClient.Set(ctx, adminKey, token, AdminSessionDuration).Err(); err != nil {
		return "", err
	}

	return token, nil
}

// ValidateAdminSession checks a session token and returns the admin ID when
// the session is live.
func ValidateAdminSession(ctx context.Context, token string) (uuid.UUID, bool, error) {
	if token == "" {
		return uuid.Nil, false, nil
	}

	adminIDStr, err := database.RedisClient.Get(ctx, AdminSessionKeyPrefix+token).Result()
	if err != nil {
		return uuid.Nil, false, nil
	}

	adminID, err := uuid.Parse(adminIDStr)
	if err != nil {
		return uuid.Nil, false, err
	}
	return adminID, true, nil
}

// InvalidateAdminSession signs out a single session token.
func InvalidateAdminSession(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	sessionKey := AdminSessionKeyPrefix + token
	if adminIDStr, err := database.RedisClient.Get(ctx, sessionKey).Result(); err == nil && adminIDStr != "" {
		_ = database.RedisClient.Del(ctx, AdminToSessionKeyPrefix+adminIDStr).Err()
	}
	return database.RedisClient.Del(ctx, sessionKey).Err()
}

// InvalidateAdminSessions signs out whatever session the admin currently has.
func InvalidateAdminSessions(ctx context.Context, adminID uuid.UUID) error {
	adminKey := AdminToSessionKeyPrefix + adminID.String()

	if token, err := database.RedisClient.Get(ctx, adminKey).Result(); err == nil && token != "" {
		_ = database.RedisClient.Del(ctx, AdminSessionKeyPrefix+token).Err()
	}
	return database.RedisClient.Del(ctx, adminKey).Err()
}
