package usecase

import (
	"context"
	"errors"
	"log/slog"

	"howtoplatform/internal/authz"
	"howtoplatform/internal/domain"
	"howtoplatform/internal/validation"
)

// LessonUseCase runs every lesson mutation as validate, authorize, then apply.
// Nothing touches storage until the first two steps pass.
type LessonUseCase struct {
	lessons   LessonStore
	cache     LessonCache
	gate      *authz.Gate
	validator *validation.Validator
}

// NewLessonUseCase wires the use case; lc may be nil to run without a cache.
func NewLessonUseCase(ls LessonStore, lc LessonCache, g *authz.Gate, v *validation.Validator) *LessonUseCase {
	return &LessonUseCase{lessons: ls, cache: orNoCache(lc), gate: g, validator: v}
}

func (uc *LessonUseCase) Create(ctx context.Context, caller domain.Caller, p validation.LessonPayload) (*domain.Lesson, error) {
	if err := uc.validator.Struct(p); err != nil {
		return nil, err
	}
	if err := uc.gate.Authorize(authz.Request{
		Caller:    caller,
		Operation: authz.OpCreate,
		Resource:  authz.ResourceLesson,
	}); err != nil {
		return nil, err
	}

	draft := p.Draft(caller.ID)
	if err := uc.checkAuthorAssignment(caller, draft.UserID, caller.ID); err != nil {
		return nil, err
	}

	lesson, err := uc.lessons.Create(ctx, draft)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "lesson created", "lesson_id", lesson.ID, "user_id", caller.ID,
		"steps", len(lesson.Steps), "materials", len(lesson.Materials))
	return lesson, nil
}

func (uc *LessonUseCase) Replace(ctx context.Context, caller domain.Caller, id uint, p validation.LessonReplacePayload) (*domain.Lesson, error) {
	if err := uc.validator.Struct(p); err != nil {
		return nil, err
	}
	own, err := uc.authorize(ctx, caller, authz.OpUpdate, id)
	if err != nil {
		return nil, err
	}
	if p.UserID != nil {
		if err := uc.checkAuthorAssignment(caller, *p.UserID, own.UserID); err != nil {
			return nil, err
		}
	}

	lesson, err := uc.lessons.Replace(ctx, id, p.Replacement())
	if err != nil {
		return nil, err
	}
	uc.cache.Invalidate(ctx, id)

	slog.InfoContext(ctx, "lesson replaced", "lesson_id", id, "user_id", caller.ID,
		"materials_replaced", p.Materials != nil, "steps_replaced", p.Steps != nil)
	return lesson, nil
}

// SetPublished moves a lesson between draft and published. It is authorized
// like any other update.
func (uc *LessonUseCase) SetPublished(ctx context.Context, caller domain.Caller, id uint, p validation.PublishPayload) (*domain.Lesson, error) {
	if err := uc.validator.Struct(p); err != nil {
		return nil, err
	}
	if _, err := uc.authorize(ctx, caller, authz.OpUpdate, id); err != nil {
		return nil, err
	}

	lesson, err := uc.lessons.SetPublished(ctx, id, *p.IsPublished)
	if err != nil {
		return nil, err
	}
	uc.cache.Invalidate(ctx, id)

	slog.InfoContext(ctx, "lesson visibility changed", "lesson_id", id, "published", lesson.IsPublished)
	return lesson, nil
}

func (uc *LessonUseCase) Delete(ctx context.Context, caller domain.Caller, id uint) error {
	if _, err := uc.authorize(ctx, caller, authz.OpDelete, id); err != nil {
		return err
	}
	if err := uc.lessons.Delete(ctx, id); err != nil {
		return err
	}
	uc.cache.Invalidate(ctx, id)

	slog.InfoContext(ctx, "lesson deleted", "lesson_id", id, "user_id", caller.ID)
	return nil
}

// Get returns a lesson aggregate. Drafts exist only for their author and
// administrators; everyone else gets ErrLessonNotFound.
func (uc *LessonUseCase) Get(ctx context.Context, caller domain.Caller, id uint) (*domain.Lesson, error) {
	if cached := uc.cache.Get(ctx, id); cached != nil {
		return cached, nil
	}

	gen := uc.cache.Generation(ctx, id)
	lesson, err := uc.lessons.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !lesson.IsPublished {
		dec := uc.gate.Evaluate(authz.Request{
			Caller:    caller,
			Operation: authz.OpRead,
			Resource:  authz.ResourceLesson,
			OwnerID:   authz.Owned(lesson.UserID),
		})
		if !dec.Allowed {
			return nil, domain.ErrLessonNotFound
		}
		return lesson, nil
	}

	uc.cache.Set(ctx, lesson, gen)
	return lesson, nil
}

// ListPublished is the public catalog.
func (uc *LessonUseCase) ListPublished(ctx context.Context) ([]domain.Lesson, error) {
	return uc.lessons.List(ctx, domain.LessonFilter{PublishedOnly: true})
}

// ListByAuthor includes drafts when the caller is the author or an administrator.
func (uc *LessonUseCase) ListByAuthor(ctx context.Context, caller domain.Caller, authorID uint) ([]domain.Lesson, error) {
	dec := uc.gate.Evaluate(authz.Request{
		Caller:    caller,
		Operation: authz.OpRead,
		Resource:  authz.ResourceLesson,
		OwnerID:   authz.Owned(authorID),
	})
	return uc.lessons.List(ctx, domain.LessonFilter{UserID: authorID, PublishedOnly: !dec.Allowed})
}

// authorize reads ownership fresh from storage and asks the gate.
func (uc *LessonUseCase) authorize(ctx context.Context, caller domain.Caller, op authz.Operation, id uint) (*domain.LessonOwnership, error) {
	req := authz.Request{Caller: caller, Operation: op, Resource: authz.ResourceLesson}

	own, err := uc.lessons.Ownership(ctx, id)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		req.Missing = true
	case err != nil:
		return nil, err
	default:
		req.OwnerID = authz.Owned(own.UserID)
	}

	if err := uc.gate.Authorize(req); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrLessonNotFound
		}
		slog.WarnContext(ctx, "lesson access denied", "lesson_id", id, "user_id", caller.ID,
			"operation", op, "error", err)
		return nil, err
	}
	return own, nil
}

// checkAuthorAssignment keeps non-administrators from writing a lesson
// under someone else's name.
func (uc *LessonUseCase) checkAuthorAssignment(caller domain.Caller, requested, current uint) error {
	if caller.IsAdmin() || requested == current {
		return nil
	}
	return authz.Decision{Reason: authz.ReasonOwnership}.Err()
}
