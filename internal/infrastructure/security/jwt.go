package security

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"howtoplatform/internal/domain"
)

const (
	accessTTL  = 15 * time.Minute
	refreshTTL = 7 * 24 * time.Hour

	typeAccess  = "access"
	typeRefresh = "refresh"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	Role domain.RoleID `json:"role"`
	Type string        `json:"type"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	// RefreshID is the jti of RefreshToken, used to revoke it.
	RefreshID string `json:"-"`
}

type TokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
	now           func() time.Time
}

func NewTokenManager(accessSecret, refreshSecret string) *TokenManager {
	return &TokenManager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		now:           time.Now,
	}
}

// Generate issues a short-lived access token carrying the role and a
// long-lived refresh token with a unique id.
func (m *TokenManager) Generate(userID uint, role domain.RoleID) (TokenPair, error) {
	now := m.now()
	sub := strconv.FormatUint(uint64(userID), 10)

	access, err := m.sign(m.accessSecret, Claims{
		Role: role,
		Type: typeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(accessTTL)),
		},
	})
	if err != nil {
		return TokenPair{}, err
	}

	jti := uuid.NewString()
	refresh, err := m.sign(m.refreshSecret, Claims{
		Role: role,
		Type: typeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   sub,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(refreshTTL)),
		},
	})
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{AccessToken: access, RefreshToken: refresh, RefreshID: jti}, nil
}

// ValidateAccessToken resolves a bearer token to the caller it was issued for.
func (m *TokenManager) ValidateAccessToken(tokenStr string) (domain.Caller, error) {
	claims, err := m.parse(tokenStr, m.accessSecret, typeAccess)
	if err != nil {
		return domain.Caller{}, err
	}
	id, err := subject(claims)
	if err != nil {
		return domain.Caller{}, err
	}
	return domain.Caller{ID: id, Role: claims.Role}, nil
}

// ValidateRefreshToken returns the user id and jti of a refresh token.
func (m *TokenManager) ValidateRefreshToken(tokenStr string) (uint, string, error) {
	claims, err := m.parse(tokenStr, m.refreshSecret, typeRefresh)
	if err != nil {
		return 0, "", err
	}
	id, err := subject(claims)
	if err != nil {
		return 0, "", err
	}
	return id, claims.ID, nil
}

func (m *TokenManager) sign(secret []byte, claims Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func (m *TokenManager) parse(tokenStr string, secret []byte, typ string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if claims.Type != typ {
		return nil, fmt.Errorf("%w: expected %s token", ErrInvalidToken, typ)
	}
	return claims, nil
}

func subject(c *Claims) (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	return uint(id), nil
}
