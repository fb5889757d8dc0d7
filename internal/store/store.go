// Package store implements the credential store: a durable, string-keyed
// key-value area holding the registered-users list, the active user, and
// the session token.
package store

import "context"

// Keys under which the credential store persists its three logical entries.
// Values are JSON-serialized by callers.
const (
	KeyUser  = "user"
	KeyToken = "auth_token"
	KeyUsers = "users"
)

// Store is the durable key-value area owned exclusively by this package.
//
// Get returns nil (with a nil error) when the key is absent. Operations are
// individually atomic but not transactional across keys; Update is the one
// escape hatch for callers that need a read-modify-write cycle over a single
// consistent view.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error

	// Update runs fn against a view of the store whose reads and writes are
	// applied as one atomic unit. fn must not retain the view after it
	// returns.
	Update(ctx context.Context, fn func(ctx context.Context, s Store) error) error
}
