package services

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/adityavermaa/sahayata-backend/internal/database"
)

func setupTestRedis(t *testing.T) {
	t.Helper()
	mr := miniredis.RunT(t)
	database.RedisClient = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { database.RedisClient.Close() })
}

func TestAdminSessionRoundTrip(t *testing.T) {
	setupTestRedis(t)
	ctx := context.Background()
	adminID := uuid.New()

	token, err := CreateAdminSession(ctx, adminID)
	if err != nil {
		t.Fatalf("CreateAdminSession returned error: %v", err)
	}
	if token == "" {
		t.Fatal("empty session token")
	}

	gotID, ok, err := ValidateAdminSession(ctx, token)
	if err != nil {
		t.Fatalf("ValidateAdminSession returned error: %v", err)
	}
	if !ok {
		t.Fatal("fresh session did not validate")
	}
	if gotID != adminID {
		t.Errorf("session admin = %s, want %s", gotID, adminID)
	}

	if err := InvalidateAdminSession(ctx, token); err != nil {
		t.Fatalf("InvalidateAdminSession returned error: %v", err)
	}
	if _, ok, _ := ValidateAdminSession(ctx, token); ok {
		t.Error("invalidated session still validates")
	}
}

func TestAdminSessionSingleLive(t *testing.T) {
	setupTestRedis(t)
	ctx := context.Background()
	adminID := uuid.New()

	first, err := CreateAdminSession(ctx, adminID)
	if err != nil {
		t.Fatal(err)
	}
	second, err := CreateAdminSession(ctx, adminID)
	if err != nil {
		t.Fatal(err)
	}

	if _, ok, _ := ValidateAdminSession(ctx, first); ok {
		t.Error("older session still validates after a new signin")
	}
	if _, ok, _ := ValidateAdminSession(ctx, second); !ok {
		t.Error("newest session does not validate")
	}
}

func TestValidateAdminSessionEmptyOrUnknown(t *testing.T) {
	setupTestRedis(t)
	ctx := context.Background()

	if _, ok, err := ValidateAdminSession(ctx, ""); ok || err != nil {
		t.Errorf("empty token: ok=%v err=%v, want false/nil", ok, err)
	}
	if _, ok, _ := ValidateAdminSession(ctx, "no-such-token"); ok {
		t.Error("unknown token validated")
	}
}
