package vault

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const defaultRedisKey = "gg:tokens:v1"

// RedisVault persists the token pair as one record under one fixed, versioned
// key. A single SET/GET/DEL per operation keeps the pair atomic; there is no
// state in which only one token is written.
//
// Intended for device-agent or server-companion deployments where the app
// process delegates token custody to a local Redis.
type RedisVault struct {
	redis *redis.Client
	key   string
}

// NewRedisVault creates a RedisVault. An empty key selects the default
// versioned key name.
func NewRedisVault(client *redis.Client, key string) (*RedisVault, error) {
	if client == nil {
		return nil, errors.New("vault: redis client required")
	}
	if key == "" {
		key = defaultRedisKey
	}

	return &RedisVault{redis: client, key: key}, nil
}

// Store describes the store operation and its observable behavior.
//
// Store may return an error when input validation or dependency calls fail.
func (v *RedisVault) Store(ctx context.Context, pair Pair) error {
	encoded, err := encodeRecord(pair)
	if err != nil {
		return err
	}

	if err := v.redis.Set(ctx, v.key, encoded, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Load describes the load operation and its observable behavior.
//
// Load may return an error when input validation or dependency calls fail.
func (v *RedisVault) Load(ctx context.Context) (Pair, bool, error) {
	data, err := v.redis.Get(ctx, v.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Pair{}, false, nil
		}
		return Pair{}, false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	pair, err := decodeRecord(data)
	if err != nil {
		return Pair{}, false, err
	}
	return pair, true, nil
}

// Clear describes the clear operation and its observable behavior.
//
// Clear may return an error when input validation or dependency calls fail.
func (v *RedisVault) Clear(ctx context.Context) error {
	if err := v.redis.Del(ctx, v.key).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}
