// Package kvstorage defines the key-value storage interface used to persist
// tracker snapshots. Backends (filesystem, sqlite) store opaque byte values
// under string keys grouped into named tables.
package kvstorage

import (
	"context"
	"fmt"
	"strings"
)

// KVStore persists opaque values under string keys within one table.
// The tracker keeps its snapshot under a single key; backups and exports
// use further keys in the same table.
type KVStore interface {
	// Set writes value under key, replacing any previous value unless
	// opts.FailIfExists is set, in which case ErrAlreadyExists is returned.
	Set(ctx context.Context, key string, value []byte, opts SetOptions) error

	// Get returns the stored value or ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Update overwrites an existing key; ErrKeyNotFound otherwise.
	Update(ctx context.Context, key string, value []byte) error

	// Delete removes key; ErrKeyNotFound if it was never written.
	Delete(ctx context.Context, key string) error

	// List returns the table's keys in ascending order.
	List(ctx context.Context) ([]string, error)

	Close() error
}

// SetOptions tunes a single Set call.
type SetOptions struct {
	FailIfExists bool
}

// ReservedTableNames are file names the tracker keeps in its data
// directory. They cannot be used as table names.
var ReservedTableNames = []string{"config.yaml", "tracker.db"}

// ValidateTableName checks that a table name is non-empty, not reserved and
// usable as a single path element.
func ValidateTableName(name string) error {
	if name == "" {
		return fmt.Errorf("table name cannot be empty")
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("table name %q is not a valid path element", name)
	}
	for _, reserved := range ReservedTableNames {
		if name == reserved {
			return fmt.Errorf("table name %q is reserved: %w", name, ErrReservedTable)
		}
	}
	return nil
}

// ValidateKey rejects empty keys and keys that would escape the table
// directory.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}
	if strings.ContainsAny(key, `/\`) {
		return fmt.Errorf("key %q contains path separator", key)
	}
	return nil
}
