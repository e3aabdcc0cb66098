package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"howtoplatform/internal/domain"
)

const (
	lessonKeyPrefix = "lesson:detail:"
	lessonGenPrefix = "lesson:gen:"
	// generations outlive any entry they guard
	genTTL = 24 * time.Hour
)

// LessonCache keeps published lesson aggregates for anonymous-safe reads.
// Drafts are never stored. Every lesson has a generation counter bumped by
// Invalidate; Set only writes when the generation read before the database
// load is still current, so a snapshot taken before a mutation is dropped.
type LessonCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewLessonCache(client *redis.Client, ttl time.Duration) *LessonCache {
	return &LessonCache{client: client, ttl: ttl}
}

func lessonKey(id uint) string {
	return lessonKeyPrefix + strconv.FormatUint(uint64(id), 10)
}

func generationKey(id uint) string {
	return lessonGenPrefix + strconv.FormatUint(uint64(id), 10)
}

// Get returns the cached lesson, or nil on a miss or when caching is off.
func (c *LessonCache) Get(ctx context.Context, id uint) *domain.Lesson {
	if c == nil || c.client == nil {
		return nil
	}

	val, err := c.client.Get(ctx, lessonKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.WarnContext(ctx, "lesson cache read failed", "lesson_id", id, "error", err)
		}
		return nil
	}

	var l domain.Lesson
	if err := json.Unmarshal(val, &l); err != nil {
		return nil
	}
	return &l
}

// Generation returns the current generation of the lesson entry, or -1 when
// it cannot be read, which makes the following Set a no-op.
func (c *LessonCache) Generation(ctx context.Context, id uint) int64 {
	if c == nil || c.client == nil {
		return -1
	}

	gen, err := c.client.Get(ctx, generationKey(id)).Int64()
	switch {
	case errors.Is(err, redis.Nil):
		return 0
	case err != nil:
		slog.WarnContext(ctx, "lesson cache generation read failed", "lesson_id", id, "error", err)
		return -1
	}
	return gen
}

// Set stores l when gen still matches the stored generation.
func (c *LessonCache) Set(ctx context.Context, l *domain.Lesson, gen int64) {
	if c == nil || c.client == nil || l == nil || !l.IsPublished || gen < 0 {
		return
	}

	data, err := json.Marshal(l)
	if err != nil {
		return
	}

	genKey := generationKey(l.ID)
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, lessonKey(l.ID), data, c.ttl)
			return nil
		})
		return err
	}, genKey)
	if err != nil && !errors.Is(err, redis.TxFailedErr) {
		slog.WarnContext(ctx, "lesson cache write failed", "lesson_id", l.ID, "error", err)
	}
}

// Invalidate drops the entry and bumps its generation.
func (c *LessonCache) Invalidate(ctx context.Context, id uint) {
	if c == nil || c.client == nil {
		return
	}

	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, generationKey(id))
		pipe.Expire(ctx, generationKey(id), genTTL)
		pipe.Del(ctx, lessonKey(id))
		return nil
	})
	if err != nil {
		slog.WarnContext(ctx, "lesson cache invalidate failed", "lesson_id", id, "error", err)
	}
}
