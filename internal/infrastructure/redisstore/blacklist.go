// Package redisstore keeps short-lived session state in Redis.
package redisstore

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/signal-subscription/pkg/helpers"
)

// TokenBlacklist records revoked session tokens until they would have expired
// anyway. Keys hold the token digest, never the token.
type TokenBlacklist struct {
	rdb    redis.Cmdable
	prefix string
}

func NewTokenBlacklist(rdb redis.Cmdable) *TokenBlacklist {
	return &TokenBlacklist{rdb: rdb, prefix: "session:revoked:"}
}

func (b *TokenBlacklist) key(token string) string {
	return b.prefix + helpers.Digest(token)
}

// Add is idempotent; a non-positive ttl is a no-op because the token is already dead.
func (b *TokenBlacklist) Add(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return b.rdb.Set(ctx, b.key(token), "1", ttl).Err()
}

func (b *TokenBlacklist) Contains(ctx context.Context, token string) (bool, error) {
	n, err := b.rdb.Exists(ctx, b.key(token)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
