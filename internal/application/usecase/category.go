package usecase

import (
	"context"
	"errors"
	"log/slog"

	"howtoplatform/internal/authz"
	"howtoplatform/internal/domain"
	"howtoplatform/internal/validation"
)

type CategoryUseCase struct {
	categories CategoryStore
	lessons    LessonStore
	cache      LessonCache
	gate       *authz.Gate
	validator  *validation.Validator
}

// NewCategoryUseCase wires the use case; lc may be nil. Cached lessons embed
// their category, so category writes invalidate them.
func NewCategoryUseCase(cs CategoryStore, ls LessonStore, lc LessonCache, g *authz.Gate, v *validation.Validator) *CategoryUseCase {
	return &CategoryUseCase{categories: cs, lessons: ls, cache: orNoCache(lc), gate: g, validator: v}
}

func (uc *CategoryUseCase) List(ctx context.Context) ([]domain.Category, error) {
	return uc.categories.List(ctx)
}

func (uc *CategoryUseCase) Get(ctx context.Context, id uint) (*domain.Category, error) {
	return uc.categories.GetByID(ctx, id)
}

// Lessons lists the published lessons of a category.
func (uc *CategoryUseCase) Lessons(ctx context.Context, id uint) ([]domain.Lesson, error) {
	if _, err := uc.categories.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return uc.lessons.List(ctx, domain.LessonFilter{CategoryID: id, PublishedOnly: true})
}

// Create records the caller as owner, except for administrators, whose
// categories are system categories without an owner.
func (uc *CategoryUseCase) Create(ctx context.Context, caller domain.Caller, p validation.CategoryPayload) (*domain.Category, error) {
	if err := uc.validator.Struct(p); err != nil {
		return nil, err
	}
	if err := uc.gate.Authorize(authz.Request{
		Caller:    caller,
		Operation: authz.OpCreate,
		Resource:  authz.ResourceCategory,
	}); err != nil {
		return nil, err
	}

	c := &domain.Category{Name: p.Name, Description: p.Description}
	if !caller.IsAdmin() {
		c.UserID = authz.Owned(caller.ID)
	}
	if err := uc.categories.Create(ctx, c); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "category created", "category_id", c.ID, "user_id", caller.ID)
	return c, nil
}

func (uc *CategoryUseCase) Update(ctx context.Context, caller domain.Caller, id uint, p validation.CategoryPatchPayload) (*domain.Category, error) {
	if err := uc.validator.Struct(p); err != nil {
		return nil, err
	}
	if err := uc.authorize(ctx, caller, authz.OpUpdate, id); err != nil {
		return nil, err
	}
	ids, err := lessonIDs(ctx, uc.lessons, domain.LessonFilter{CategoryID: id})
	if err != nil {
		return nil, err
	}

	c, err := uc.categories.Update(ctx, id, p.Patch())
	if err != nil {
		return nil, err
	}
	invalidateLessons(ctx, uc.cache, ids)
	return c, nil
}

// Delete removes the category and, through the store, every lesson in it.
func (uc *CategoryUseCase) Delete(ctx context.Context, caller domain.Caller, id uint) error {
	if err := uc.authorize(ctx, caller, authz.OpDelete, id); err != nil {
		return err
	}
	ids, err := lessonIDs(ctx, uc.lessons, domain.LessonFilter{CategoryID: id})
	if err != nil {
		return err
	}

	if err := uc.categories.Delete(ctx, id); err != nil {
		return err
	}
	invalidateLessons(ctx, uc.cache, ids)

	slog.InfoContext(ctx, "category deleted", "category_id", id, "user_id", caller.ID, "lessons", len(ids))
	return nil
}

// authorize passes a nil owner for system categories so only administrators
// get through.
func (uc *CategoryUseCase) authorize(ctx context.Context, caller domain.Caller, op authz.Operation, id uint) error {
	req := authz.Request{Caller: caller, Operation: op, Resource: authz.ResourceCategory}

	c, err := uc.categories.GetByID(ctx, id)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		req.Missing = true
	case err != nil:
		return err
	default:
		req.OwnerID = c.UserID
	}

	if err := uc.gate.Authorize(req); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrCategoryNotFound
		}
		return err
	}
	return nil
}
