// Package storage provides the key-value persistence the record store is
// built on. Each key holds one whole collection serialized as a JSON array;
// there are no partial writes.
package storage

import (
	"context"
	"errors"
)

// ErrConflict is returned by CompareAndSet when the key changed since it
// was read.
var ErrConflict = errors.New("storage: version conflict")

// KV is a string-keyed store of string values. Every write bumps the key's
// version, which lets several processes share one backend safely.
type KV interface {
	// Get returns the value under key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// GetVersion is Get plus the key's current version. Absent keys are at
	// version 0.
	GetVersion(ctx context.Context, key string) (value string, version int64, ok bool, err error)
	// Set replaces the value under key unconditionally.
	Set(ctx context.Context, key, value string) error
	// CompareAndSet replaces the value under key only if its version is
	// still version. Version 0 requires the key to be absent.
	CompareAndSet(ctx context.Context, key, value string, version int64) error
	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error
	Close() error
}
