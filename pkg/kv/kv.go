// Package kv defines the string key-value storage collaborator every
// persisted collection runs through, plus the available drivers.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when a key has never been written or has
// been removed. First-run reads are expected to hit it.
var ErrNotFound = errors.New("kv: key not found")

// Store is the storage surface: string keys to serialized text values.
// Implementations may fail on any call; callers treat read failures as
// missing data and write failures as skipped persistence.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}
