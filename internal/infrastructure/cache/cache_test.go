package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"howtoplatform/internal/domain"
)

func TestNewClient_EmptyAddrDisablesRedis(t *testing.T) {
	rdb, err := NewClient(context.Background(), "")
	if err != nil || rdb != nil {
		t.Fatalf("expected nil client and nil error, got %v %v", rdb, err)
	}
}

func TestCaches_WithoutRedis(t *testing.T) {
	ctx := context.Background()

	lessons := NewLessonCache(nil, time.Minute)
	if gen := lessons.Generation(ctx, 1); gen != -1 {
		t.Fatalf("disabled cache generation = %d", gen)
	}
	lessons.Set(ctx, &domain.Lesson{ID: 1, IsPublished: true}, 0)
	if got := lessons.Get(ctx, 1); got != nil {
		t.Fatalf("disabled cache returned %+v", got)
	}
	lessons.Invalidate(ctx, 1)

	tokens := NewTokenCache(nil)
	if err := tokens.SaveRefresh(ctx, 1, "jti"); err != nil {
		t.Fatalf("SaveRefresh: %v", err)
	}
	if err := tokens.CheckRefresh(ctx, 1, "jti"); err != nil {
		t.Fatalf("disabled token store must accept tokens, got %v", err)
	}
	if err := tokens.DeleteRefresh(ctx, "jti"); err != nil {
		t.Fatalf("DeleteRefresh: %v", err)
	}
}

func TestLessonCache_UnreachableRedisIsAMiss(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = rdb.Close() })

	c := NewLessonCache(rdb, time.Minute)
	ctx := context.Background()

	gen := c.Generation(ctx, 3)
	if gen != -1 {
		t.Fatalf("unreachable redis generation = %d, want -1", gen)
	}
	c.Set(ctx, &domain.Lesson{ID: 3, IsPublished: true}, gen)
	c.Invalidate(ctx, 3)
	if got := c.Get(ctx, 3); got != nil {
		t.Fatalf("expected miss, got %+v", got)
	}
}

func TestLessonKey(t *testing.T) {
	if got := lessonKey(42); got != "lesson:detail:42" {
		t.Fatalf("lessonKey(42) = %q", got)
	}
	if got := generationKey(42); got != "lesson:gen:42" {
		t.Fatalf("generationKey(42) = %q", got)
	}
}
