package kv

import "context"

// Store is a string key/value store shared by every view of the console.
// Values are whole documents: callers read, modify and write them back.
type Store interface {
	// Get returns the value under key; ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	Set(ctx context.Context, key, value string) error

	// SetMany writes all pairs together. Implementations apply them
	// atomically where the backend allows it.
	SetMany(ctx context.Context, values map[string]string) error

	// Delete removes keys; missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
}
