package service

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// TokenDenylist 记录已注销的 JWT（按 jti），到期自动失效
type TokenDenylist interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

const revokedTokenPrefix = "lms:jwt:revoked:"

type RedisTokenDenylist struct {
	Client *redis.Client
}

func NewRedisTokenDenylist(client *redis.Client) *RedisTokenDenylist {
	return &RedisTokenDenylist{Client: client}
}

func (d *RedisTokenDenylist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	return d.Client.Set(ctx, revokedTokenPrefix+jti, 1, ttl).Err()
}

func (d *RedisTokenDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := d.Client.Exists(ctx, revokedTokenPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
