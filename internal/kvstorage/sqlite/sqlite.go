// Package sqlite implements kvstorage.KVStore on a SQLite database using the
// pure-Go modernc.org/sqlite driver. All tables share one kv relation keyed
// by (tbl, key).
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"issuetracker/internal/kvstorage"
)

// FileName is the database file created in the tracker data directory.
const FileName = "tracker.db"

// Store implements kvstorage.KVStore for one table of a SQLite database.
type Store struct {
	db    *sql.DB
	table string
}

var _ kvstorage.KVStore = (*Store)(nil)

// Open opens (creating if needed) the database at path and returns a
// store for table.
func Open(ctx context.Context, path, table string) (*Store, error) {
	if err := kvstorage.ValidateTableName(table); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	s := &Store{db: db, table: table}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS kv (
		tbl TEXT NOT NULL,
		key TEXT NOT NULL,
		value BLOB NOT NULL,
		updated_at DATETIME NOT NULL,
		PRIMARY KEY (tbl, key)
	)`)
	return err
}

func (s *Store) Set(ctx context.Context, key string, value []byte, opts kvstorage.SetOptions) error {
	if err := kvstorage.ValidateKey(key); err != nil {
		return err
	}
	now := time.Now().UTC()
	if opts.FailIfExists {
		res, err := s.db.ExecContext(ctx,
			`INSERT INTO kv (tbl, key, value, updated_at) VALUES (?, ?, ?, ?) ON CONFLICT (tbl, key) DO NOTHING`,
			s.table, key, value, now)
		if err != nil {
			return fmt.Errorf("set %q: %w", key, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("key %q: %w", key, kvstorage.ErrAlreadyExists)
		}
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (tbl, key, value, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (tbl, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		s.table, key, value, now)
	if err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := kvstorage.ValidateKey(key); err != nil {
		return nil, err
	}
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE tbl = ? AND key = ?`, s.table, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("key %q: %w", key, kvstorage.ErrKeyNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) Update(ctx context.Context, key string, value []byte) error {
	if err := kvstorage.ValidateKey(key); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `UPDATE kv SET value = ?, updated_at = ? WHERE tbl = ? AND key = ?`,
		value, time.Now().UTC(), s.table, key)
	if err != nil {
		return fmt.Errorf("update %q: %w", key, err)
	}
	return requireRow(res, key)
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := kvstorage.ValidateKey(key); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE tbl = ? AND key = ?`, s.table, key)
	if err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return requireRow(res, key)
}

func (s *Store) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM kv WHERE tbl = ? ORDER BY key`, s.table)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func requireRow(res sql.Result, key string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("key %q: %w", key, kvstorage.ErrKeyNotFound)
	}
	return nil
}
