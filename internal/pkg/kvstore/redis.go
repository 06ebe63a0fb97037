package kvstore

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type redisStore struct {
	client    *redis.Client
	namespace string
}

// NewRedis returns a Store backed by Redis. Keys are namespaced so several
// dashboards can share one instance.
func NewRedis(addr, namespace string) Store {
	return &redisStore{
		client:    redis.NewClient(&redis.Options{Addr: addr}),
		namespace: namespace,
	}
}

func (r *redisStore) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, r.GenerateKey(key)).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("kvstore: redis get %q: %w", key, err)
	}
	return val, nil
}

// Set stores the value without expiry; sessions live until logout.
func (r *redisStore) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.GenerateKey(key), value, 0).Err(); err != nil {
		return fmt.Errorf("kvstore: redis set %q: %w", key, err)
	}
	return nil
}

func (r *redisStore) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.GenerateKey(key)).Err(); err != nil {
		return fmt.Errorf("kvstore: redis delete %q: %w", key, err)
	}
	return nil
}

func (r *redisStore) Close() error {
	return r.client.Close()
}

func (r *redisStore) GenerateKey(key string) string {
	return fmt.Sprintf("%s:kv:%s", r.namespace, key)
}
