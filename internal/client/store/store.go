// Package store persists the client's session material in a local SQLite
// database: a small key/value table holding the bearer token and the cached
// user object.
package store

import "context"

// Keys under which the session material lives. SessionStore implementations
// replace or remove both keys atomically so a crash can never leave a token
// without its user or vice versa.
const (
	KeyAuthToken = "auth_token"
	KeyAuthUser  = "auth_user"
)

// Repository is a generic key/value store over the local database.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}

// SessionStore is the narrow surface the session manager needs.
type SessionStore interface {
	// Load returns the stored token and user blob. Missing values come
	// back nil without an error.
	Load(ctx context.Context) (token, user []byte, err error)

	// Save replaces both session keys in a single transaction.
	Save(ctx context.Context, token, user []byte) error

	// Clear removes both session keys in a single transaction.
	Clear(ctx context.Context) error
}
