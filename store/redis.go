package store

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Compile-time interface check.
var _ Store = (*RedisStore)(nil)

// RedisStore is a Store backed by Redis. Scalar keys map to Redis strings
// and list keys to Redis lists, so every operation is a single native
// command with Redis's usual atomicity. Counter keys already carry the
// RedisCounter namespace prefix; the store adds none of its own, which
// keeps the data layout identical to existing RedisCounter deployments.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a new Redis-backed store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Get returns the string stored at key.
func (r *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("tally/store: redis get: %w", err)
	}
	return v, true, nil
}

// Set stores a string at key.
func (r *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("tally/store: redis set: %w", err)
	}
	return nil
}

// SetNX stores value at key only if the key does not exist.
func (r *RedisStore) SetNX(ctx context.Context, key, value string) (bool, error) {
	set, err := r.client.SetNX(ctx, key, value, 0).Result()
	if err != nil {
		return false, fmt.Errorf("tally/store: redis setnx: %w", err)
	}
	return set, nil
}

// Incr atomically increments the integer stored at key by one.
func (r *RedisStore) Incr(ctx context.Context, key string) (int64, error) {
	n, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("tally/store: redis incr: %w", err)
	}
	return n, nil
}

// Exists reports whether key exists.
func (r *RedisStore) Exists(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("tally/store: redis exists: %w", err)
	}
	return n > 0, nil
}

// Append pushes value onto the tail of the list at key.
func (r *RedisStore) Append(ctx context.Context, key, value string) error {
	if err := r.client.RPush(ctx, key, value).Err(); err != nil {
		return fmt.Errorf("tally/store: redis rpush: %w", err)
	}
	return nil
}

// PopFront removes and returns the head of the list at key.
func (r *RedisStore) PopFront(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.LPop(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("tally/store: redis lpop: %w", err)
	}
	return v, true, nil
}

// PushFront prepends value to the list at key.
func (r *RedisStore) PushFront(ctx context.Context, key, value string) error {
	if err := r.client.LPush(ctx, key, value).Err(); err != nil {
		return fmt.Errorf("tally/store: redis lpush: %w", err)
	}
	return nil
}

// Last returns the tail element of the list at key without removing it.
func (r *RedisStore) Last(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.LIndex(ctx, key, -1).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("tally/store: redis lindex: %w", err)
	}
	return v, true, nil
}

// Len returns the length of the list at key.
func (r *RedisStore) Len(ctx context.Context, key string) (int64, error) {
	n, err := r.client.LLen(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("tally/store: redis llen: %w", err)
	}
	return n, nil
}

// Delete removes the given keys.
func (r *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("tally/store: redis del: %w", err)
	}
	return nil
}

// Close closes the underlying Redis client.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
