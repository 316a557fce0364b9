// Package snapshot persists tracker state as a single JSON document in a
// kvstorage table.
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"issuetracker/internal/domain"
	"issuetracker/internal/kvstorage"
)

// Table is the kvstorage table snapshots live in.
const Table = "snapshots"

// Key is the key of the current state.
const Key = "state"

// Repository loads and saves domain.Snapshot values.
type Repository struct {
	kv  kvstorage.KVStore
	log *slog.Logger
}

// New creates a Repository over kv. A nil logger discards output.
func New(kv kvstorage.KVStore, log *slog.Logger) *Repository {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Repository{kv: kv, log: log}
}

// Load returns the stored snapshot, or an empty one if nothing has been
// saved yet.
func (r *Repository) Load(ctx context.Context) (domain.Snapshot, error) {
	data, err := r.kv.Get(ctx, Key)
	if errors.Is(err, kvstorage.ErrKeyNotFound) {
		r.log.Debug("no stored snapshot, starting empty")
		return domain.Snapshot{Version: domain.SnapshotVersion}, nil
	}
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("reading snapshot: %w", err)
	}
	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return domain.Snapshot{}, fmt.Errorf("decoding snapshot: %w", err)
	}
	if snap.Version == 0 {
		snap.Version = domain.SnapshotVersion
	}
	r.log.Debug("snapshot loaded", "bytes", len(data), "issues", len(snap.Issues))
	return snap, nil
}

// Save replaces the stored snapshot.
func (r *Repository) Save(ctx context.Context, snap domain.Snapshot) error {
	snap.Version = domain.SnapshotVersion
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	data = append(data, '\n')
	if err := r.kv.Set(ctx, Key, data, kvstorage.SetOptions{}); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	r.log.Debug("snapshot saved", "bytes", len(data), "issues", len(snap.Issues))
	return nil
}

// Close closes the underlying store.
func (r *Repository) Close() error {
	return r.kv.Close()
}
