package ports

import "context"

// KeyValue defines the interface for the local persistence primitive: a
// flat string-keyed store with atomic per-key operations.
type KeyValue interface {
	// Get returns the value for key. Absent keys yield ok=false, not an error.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set writes the value for key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys returns every key beginning with prefix, in unspecified order.
	Keys(ctx context.Context, prefix string) ([]string, error)

	// Close releases any resources held by the store.
	Close() error
}
