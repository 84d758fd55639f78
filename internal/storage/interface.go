package storage

import (
	"context"
)

// Store is a string-keyed, string-valued persistent map shared by every
// browsing context. There are no transactions: a read-modify-write on a key can
// lose a concurrent update from another context.
type Store interface {
	// Get returns model.ErrKeyNotFound when the key is absent
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	// Remove is a no-op when the key is absent
	Remove(ctx context.Context, key string) error

	// Subscribe delivers changes made through other handles on the same
	// backing store. A handle never observes its own writes. The channel is
	// closed when ctx is done or the handle is closed.
	Subscribe(ctx context.Context) (<-chan Change, error)

	Close() error
}

// Change describes a write made by another browsing context
type Change struct {
	Key     string `json:"key"`
	Removed bool   `json:"removed"`
}
