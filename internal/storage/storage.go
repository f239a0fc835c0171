// Package storage provides the flat key-value store behind the session
// repository, with bbolt (local file), Redis and in-memory backends.
package storage

import (
	"context"
	"errors"
)

// Store keys for the two persisted blobs.
const (
	KeySessions = "sessions"
	KeySubjects = "subjects"
)

// ErrNotFound indicates the requested key holds no value.
var ErrNotFound = errors.New("key not found")

// KeyValueStore is an opaque get/set of string blobs by key.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}
