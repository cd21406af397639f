package cache

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewRedisClient_InvalidURL(t *testing.T) {
	_, err := NewRedisClient(context.Background(), "not-a-valid-url")
	if err == nil {
		t.Fatal("expected error for invalid URL, got nil")
	}
}

func TestNewRedisClient_UnreachableHost(t *testing.T) {
	_, err := NewRedisClient(context.Background(), "redis://localhost:19999")
	if err == nil {
		t.Fatal("expected error when Redis is unreachable, got nil")
	}
}

func TestItemCache_Key(t *testing.T) {
	org := uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")
	item := uuid.MustParse("123e4567-e89b-12d3-a456-426614174000")
	got := NewItemCache(nil).key(org, item)
	want := "item:550e8400-e29b-41d4-a716-446655440000:123e4567-e89b-12d3-a456-426614174000"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

// Integration tests: skipped unless REDIS_URL is set.
func TestRedisIntegration(t *testing.T) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		t.Skip("REDIS_URL not set; skipping integration tests")
	}

	rc, err := NewRedisClient(context.Background(), redisURL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer rc.Close() //nolint:errcheck

	t.Run("Ping_Success", func(t *testing.T) {
		if err := rc.Ping(context.Background()); err != nil {
			t.Fatalf("Ping failed: %v", err)
		}
	})

	t.Run("ItemCache_RoundTrip", func(t *testing.T) {
		ctx := context.Background()
		c := NewItemCache(rc)
		item := &CachedItem{
			ID:        uuid.New(),
			OrgID:     uuid.New(),
			Name:      "cached",
			CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
		}
		if err := c.Set(ctx, item); err != nil {
			t.Fatalf("Set: %v", err)
		}
		got, err := c.Get(ctx, item.OrgID, item.ID)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got.Name != item.Name || !got.CreatedAt.Equal(item.CreatedAt) {
			t.Fatalf("round trip mismatch: %+v", got)
		}
		if err := c.Delete(ctx, item.OrgID, item.ID); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if _, err := c.Get(ctx, item.OrgID, item.ID); !errors.Is(err, ErrMiss) {
			t.Fatalf("expected ErrMiss after delete, got %v", err)
		}
	})
}
