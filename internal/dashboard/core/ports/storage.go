package ports

import "context"

// KeyValueStore is durable client storage that survives process restarts.
// Get returns kvstore.ErrNotFound for a missing key.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
