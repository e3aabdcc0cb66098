package cache

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const refreshTTL = 7 * 24 * time.Hour

var ErrTokenRevoked = errors.New("refresh token revoked")

// TokenCache tracks live refresh tokens by their jti. With no redis client it
// accepts every token, leaving expiry to the signature check.
type TokenCache struct {
	client *redis.Client
}

func NewTokenCache(client *redis.Client) *TokenCache {
	return &TokenCache{client: client}
}

func refreshKey(jti string) string {
	return "refresh_token:" + jti
}

func (c *TokenCache) SaveRefresh(ctx context.Context, userID uint, jti string) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Set(ctx, refreshKey(jti), strconv.FormatUint(uint64(userID), 10), refreshTTL).Err()
}

// CheckRefresh fails with ErrTokenRevoked unless jti was saved for userID.
func (c *TokenCache) CheckRefresh(ctx context.Context, userID uint, jti string) error {
	if c == nil || c.client == nil {
		return nil
	}

	val, err := c.client.Get(ctx, refreshKey(jti)).Result()
	if errors.Is(err, redis.Nil) {
		return ErrTokenRevoked
	}
	if err != nil {
		return err
	}
	if val != strconv.FormatUint(uint64(userID), 10) {
		return ErrTokenRevoked
	}
	return nil
}

func (c *TokenCache) DeleteRefresh(ctx context.Context, jti string) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, refreshKey(jti)).Err()
}
