package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/samber/lo"

	"howtoplatform/internal/authz"
	"howtoplatform/internal/domain"
	"howtoplatform/internal/validation"
)

type AccountUseCase struct {
	users     UserStore
	roles     RoleStore
	lessons   LessonStore
	cache     LessonCache
	hasher    PasswordHasher
	gate      *authz.Gate
	validator *validation.Validator
}

// NewAccountUseCase wires the use case; lc may be nil. Cached lessons embed
// their author, so username changes and account deletes invalidate them.
func NewAccountUseCase(us UserStore, rs RoleStore, ls LessonStore, lc LessonCache, h PasswordHasher, g *authz.Gate, v *validation.Validator) *AccountUseCase {
	return &AccountUseCase{users: us, roles: rs, lessons: ls, cache: orNoCache(lc), hasher: h, gate: g, validator: v}
}

func (uc *AccountUseCase) Roles(ctx context.Context) ([]domain.Role, error) {
	return uc.roles.List(ctx)
}

// List is administrator-only.
func (uc *AccountUseCase) List(ctx context.Context, caller domain.Caller) ([]domain.User, error) {
	if err := uc.gate.Authorize(authz.Request{
		Caller:    caller,
		Operation: authz.OpRead,
		Resource:  authz.ResourceAccount,
	}); err != nil {
		return nil, err
	}
	return uc.users.List(ctx)
}

func (uc *AccountUseCase) Get(ctx context.Context, caller domain.Caller, id uint) (*domain.User, error) {
	user, err := uc.authorize(ctx, caller, authz.OpRead, id)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Update changes the caller's own account, or any account for an administrator.
func (uc *AccountUseCase) Update(ctx context.Context, caller domain.Caller, id uint, p validation.AccountPayload) (*domain.User, error) {
	if err := uc.validator.Struct(p); err != nil {
		return nil, err
	}
	if _, err := uc.authorize(ctx, caller, authz.OpUpdate, id); err != nil {
		return nil, err
	}

	patch := domain.AccountPatch{Username: p.Username, Email: p.Email}
	if p.Password != nil {
		hash, err := uc.hasher.Hash(*p.Password)
		if err != nil {
			return nil, err
		}
		patch.PasswordHash = &hash
	}

	var ids []uint
	if p.Username != nil {
		authored, err := lessonIDs(ctx, uc.lessons, domain.LessonFilter{UserID: id})
		if err != nil {
			return nil, err
		}
		ids = authored
	}

	user, err := uc.users.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	invalidateLessons(ctx, uc.cache, ids)
	slog.InfoContext(ctx, "account updated", "user_id", id, "by", caller.ID)
	return user, nil
}

func (uc *AccountUseCase) ChangeRole(ctx context.Context, caller domain.Caller, id uint, p validation.RolePayload) (*domain.User, error) {
	if err := uc.validator.Struct(p); err != nil {
		return nil, err
	}
	if _, err := uc.authorize(ctx, caller, authz.OpChangeRole, id); err != nil {
		return nil, err
	}

	user, err := uc.users.UpdateRole(ctx, id, domain.RoleID(p.RoleID))
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "role changed", "user_id", id, "role", user.RoleID.String(), "by", caller.ID)
	return user, nil
}

func (uc *AccountUseCase) Delete(ctx context.Context, caller domain.Caller, id uint) error {
	if _, err := uc.authorize(ctx, caller, authz.OpDelete, id); err != nil {
		return err
	}
	// The delete cascades to authored lessons and to every lesson filed
	// under a category the user owns.
	authored, err := lessonIDs(ctx, uc.lessons, domain.LessonFilter{UserID: id})
	if err != nil {
		return err
	}
	filed, err := lessonIDs(ctx, uc.lessons, domain.LessonFilter{CategoryOwnerID: id})
	if err != nil {
		return err
	}
	ids := lo.Uniq(append(authored, filed...))

	if err := uc.users.Delete(ctx, id); err != nil {
		return err
	}
	invalidateLessons(ctx, uc.cache, ids)

	slog.InfoContext(ctx, "account deleted", "user_id", id, "by", caller.ID, "lessons", len(ids))
	return nil
}

func (uc *AccountUseCase) authorize(ctx context.Context, caller domain.Caller, op authz.Operation, id uint) (*domain.User, error) {
	req := authz.Request{Caller: caller, Operation: op, Resource: authz.ResourceAccount}

	user, err := uc.users.GetByID(ctx, id)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		req.Missing = true
	case err != nil:
		return nil, err
	default:
		req.OwnerID = authz.Owned(user.ID)
	}

	if err := uc.gate.Authorize(req); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
