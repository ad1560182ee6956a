// Package cache envuelve el cliente Redis usado para la denylist de tokens.
package cache

import (
	"context"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// New crea y valida un cliente go-redis. Devuelve nil cuando no hay URL
// configurada: toda la funcionalidad que depende de Redis es opcional.
func New(redisURL string) (*redis.Client, error) {
	if redisURL == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "REDIS_URL inválida")
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, pkgerrors.Wrap(err, "no se pudo conectar a Redis")
	}
	return rdb, nil
}

// TokenDenylist registra JTIs de tokens revocados (logout) hasta su expiración.
type TokenDenylist struct {
	rdb *redis.Client
}

func NewTokenDenylist(rdb *redis.Client) *TokenDenylist {
	return &TokenDenylist{rdb: rdb}
}

func (d *TokenDenylist) key(jti string) string { return "denylist:" + jti }

// Revocar marca un token como inválido hasta que venza solo.
func (d *TokenDenylist) Revocar(ctx context.Context, jti string, ttl time.Duration) error {
	if d == nil || d.rdb == nil || jti == "" {
		return nil
	}
	if ttl <= 0 {
		return nil
	}
	return d.rdb.Set(ctx, d.key(jti), "1", ttl).Err()
}

// EstaRevocado consulta la denylist; sin Redis configurado siempre es false.
func (d *TokenDenylist) EstaRevocado(ctx context.Context, jti string) bool {
	if d == nil || d.rdb == nil || jti == "" {
		return false
	}
	n, err := d.rdb.Exists(ctx, d.key(jti)).Result()
	return err == nil && n > 0
}
