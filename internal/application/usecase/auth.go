package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"howtoplatform/internal/domain"
	"howtoplatform/internal/infrastructure/security"
	"howtoplatform/internal/validation"
)

// AuthUseCase issues and revokes identity tokens. New accounts always start
// with the User role.
type AuthUseCase struct {
	users        UserStore
	hasher       PasswordHasher
	tokenManager TokenIssuer
	tokenCache   RefreshStore
	validator    *validation.Validator
}

func NewAuthUseCase(us UserStore, h PasswordHasher, tm TokenIssuer, tc RefreshStore, v *validation.Validator) *AuthUseCase {
	return &AuthUseCase{users: us, hasher: h, tokenManager: tm, tokenCache: tc, validator: v}
}

func (uc *AuthUseCase) Register(ctx context.Context, p validation.RegisterPayload) (*domain.User, error) {
	if err := uc.validator.Struct(p); err != nil {
		return nil, err
	}

	hash, err := uc.hasher.Hash(p.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     p.Username,
		Email:        p.Email,
		PasswordHash: hash,
		RoleID:       domain.RoleUser,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

func (uc *AuthUseCase) Login(ctx context.Context, p validation.LoginPayload) (security.TokenPair, error) {
	if err := uc.validator.Struct(p); err != nil {
		return security.TokenPair{}, err
	}

	user, err := uc.users.GetByEmail(ctx, p.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return security.TokenPair{}, domain.ErrInvalidCredentials
		}
		return security.TokenPair{}, err
	}
	if err := uc.hasher.Compare(user.PasswordHash, p.Password); err != nil {
		return security.TokenPair{}, domain.ErrInvalidCredentials
	}

	return uc.issue(ctx, user)
}

// Refresh rotates a refresh token: the old one is revoked and a new pair
// reflects the account's current role.
func (uc *AuthUseCase) Refresh(ctx context.Context, p validation.RefreshPayload) (security.TokenPair, error) {
	if err := uc.validator.Struct(p); err != nil {
		return security.TokenPair{}, err
	}

	userID, jti, err := uc.tokenManager.ValidateRefreshToken(p.RefreshToken)
	if err != nil {
		return security.TokenPair{}, fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}
	if err := uc.tokenCache.CheckRefresh(ctx, userID, jti); err != nil {
		return security.TokenPair{}, fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}
	_ = uc.tokenCache.DeleteRefresh(ctx, jti)

	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return security.TokenPair{}, domain.ErrUnauthorized
		}
		return security.TokenPair{}, err
	}
	return uc.issue(ctx, user)
}

// Logout revokes the refresh token. Unknown or invalid tokens are ignored.
func (uc *AuthUseCase) Logout(ctx context.Context, p validation.RefreshPayload) error {
	_, jti, err := uc.tokenManager.ValidateRefreshToken(p.RefreshToken)
	if err != nil {
		return nil
	}
	return uc.tokenCache.DeleteRefresh(ctx, jti)
}

// Authenticate resolves a bearer access token to a caller.
func (uc *AuthUseCase) Authenticate(token string) (domain.Caller, error) {
	caller, err := uc.tokenManager.ValidateAccessToken(token)
	if err != nil {
		return domain.Caller{}, fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}
	return caller, nil
}

func (uc *AuthUseCase) issue(ctx context.Context, user *domain.User) (security.TokenPair, error) {
	pair, err := uc.tokenManager.Generate(user.ID, user.RoleID)
	if err != nil {
		return security.TokenPair{}, err
	}
	if err := uc.tokenCache.SaveRefresh(ctx, user.ID, pair.RefreshID); err != nil {
		return security.TokenPair{}, err
	}
	return pair, nil
}
