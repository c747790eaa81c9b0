// Package storage is the client's persistent key/value capability: the place
// the session token, its persistence mode and the cached user record live
// between runs.
//
// Implementations:
//   - SQLiteStorage: a goose-migrated "kv" table in a local SQLite file.
//   - MemoryStorage: process-local map, for tests and throwaway sessions.
//
// Storage operations may fail. Session code never calls a Storage directly;
// it goes through Safe, which reports failures as log lines and optional
// results instead of errors.
package storage

import "context"

// Well-known keys. All three share one scope and are cleared together on logout.
const (
	KeyAccessToken     = "access_token"
	KeyAccessTokenMode = "access_token_storage_mode"
	KeyCachedUser      = "cached_user"
)

// Storage is a byte-oriented key/value store.
//
// Get returns (nil, nil) when the key is absent. Delete of a missing key is
// not an error.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
}
