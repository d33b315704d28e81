package store

import (
	"context"
	"errors"
)

// Error kinds surfaced by store adapters. Callers match with errors.Is and
// translate to their own domain errors; nothing below this package retries.
var (
	ErrDuplicateKey = errors.New("store: duplicate key")
	ErrNotFound     = errors.New("store: item not found")
	ErrUnavailable  = errors.New("store: backend unavailable")
)

// Key identifies a single item by its partition key attribute.
type Key struct {
	Name  string
	Value string
}

// Store is the record store contract shared by every service. One table per
// entity kind, string partition keys, and no index requirement: queries that
// cannot be answered by key are full scans filtered in memory by the caller.
type Store interface {
	// Put inserts or overwrites the item under key.
	Put(ctx context.Context, table string, key Key, item any) error
	// PutIfAbsent inserts the item only if no item exists under key,
	// failing with ErrDuplicateKey otherwise. This is the uniqueness
	// guard for employee creation and daily attendance creation.
	PutIfAbsent(ctx context.Context, table string, key Key, item any) error
	// Get loads the item under key into out, failing with ErrNotFound
	// if the key is absent.
	Get(ctx context.Context, table string, key Key, out any) error
	// Update applies a partial field merge to the item under key,
	// failing with ErrNotFound if the key is absent.
	Update(ctx context.Context, table string, key Key, sets map[string]any) error
	// Scan loads every item in the table into out (a pointer to a slice).
	Scan(ctx context.Context, table string, out any) error
}
