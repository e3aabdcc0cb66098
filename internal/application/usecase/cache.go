package usecase

import (
	"context"

	"howtoplatform/internal/domain"
)

type noCache struct{}

func (noCache) Get(context.Context, uint) *domain.Lesson   { return nil }
func (noCache) Generation(context.Context, uint) int64     { return -1 }
func (noCache) Set(context.Context, *domain.Lesson, int64) {}
func (noCache) Invalidate(context.Context, uint)           {}

func orNoCache(lc LessonCache) LessonCache {
	if lc == nil {
		return noCache{}
	}
	return lc
}

// lessonIDs lists every lesson matching f, drafts included.
func lessonIDs(ctx context.Context, ls LessonStore, f domain.LessonFilter) ([]uint, error) {
	f.PublishedOnly = false
	lessons, err := ls.List(ctx, f)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, len(lessons))
	for i, l := range lessons {
		ids[i] = l.ID
	}
	return ids, nil
}

func invalidateLessons(ctx context.Context, lc LessonCache, ids []uint) {
	for _, id := range ids {
		lc.Invalidate(ctx, id)
	}
}
