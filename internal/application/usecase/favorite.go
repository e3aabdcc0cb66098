package usecase

import (
	"context"
	"errors"
	"log/slog"

	"howtoplatform/internal/authz"
	"howtoplatform/internal/domain"
)

type FavoriteUseCase struct {
	favorites FavoriteStore
	lessons   LessonStore
	gate      *authz.Gate
}

func NewFavoriteUseCase(fs FavoriteStore, ls LessonStore, g *authz.Gate) *FavoriteUseCase {
	return &FavoriteUseCase{favorites: fs, lessons: ls, gate: g}
}

// Add favorites a lesson the caller can see. A repeated add surfaces
// domain.ErrAlreadyExists; the stored relation keeps exactly one pair.
func (uc *FavoriteUseCase) Add(ctx context.Context, caller domain.Caller, lessonID uint) error {
	if err := uc.authorize(caller, authz.OpCreate); err != nil {
		return err
	}
	if err := uc.visible(ctx, caller, lessonID); err != nil {
		return err
	}

	if err := uc.favorites.Add(ctx, caller.ID, lessonID); err != nil {
		return err
	}
	slog.InfoContext(ctx, "favorite added", "user_id", caller.ID, "lesson_id", lessonID)
	return nil
}

// Remove deletes the pair. An absent pair is not an error for the caller:
// removed reports whether anything was deleted.
func (uc *FavoriteUseCase) Remove(ctx context.Context, caller domain.Caller, lessonID uint) (removed bool, err error) {
	if err := uc.authorize(caller, authz.OpDelete); err != nil {
		return false, err
	}

	err = uc.favorites.Remove(ctx, caller.ID, lessonID)
	switch {
	case errors.Is(err, domain.ErrFavoriteNotFound):
		return false, nil
	case err != nil:
		return false, err
	}
	slog.InfoContext(ctx, "favorite removed", "user_id", caller.ID, "lesson_id", lessonID)
	return true, nil
}

func (uc *FavoriteUseCase) List(ctx context.Context, caller domain.Caller) ([]domain.Lesson, error) {
	if err := uc.authorize(caller, authz.OpRead); err != nil {
		return nil, err
	}
	return uc.favorites.ListByUser(ctx, caller.ID)
}

func (uc *FavoriteUseCase) IsFavorite(ctx context.Context, caller domain.Caller, lessonID uint) (bool, error) {
	if err := uc.authorize(caller, authz.OpRead); err != nil {
		return false, err
	}
	n, err := uc.favorites.Count(ctx, caller.ID, lessonID)
	return n > 0, err
}

func (uc *FavoriteUseCase) authorize(caller domain.Caller, op authz.Operation) error {
	return uc.gate.Authorize(authz.Request{Caller: caller, Operation: op, Resource: authz.ResourceFavorite})
}

// visible hides other authors' drafts behind ErrLessonNotFound.
func (uc *FavoriteUseCase) visible(ctx context.Context, caller domain.Caller, lessonID uint) error {
	own, err := uc.lessons.Ownership(ctx, lessonID)
	if err != nil {
		return err
	}
	if own.IsPublished {
		return nil
	}
	dec := uc.gate.Evaluate(authz.Request{
		Caller:    caller,
		Operation: authz.OpRead,
		Resource:  authz.ResourceLesson,
		OwnerID:   authz.Owned(own.UserID),
	})
	if !dec.Allowed {
		return domain.ErrLessonNotFound
	}
	return nil
}
