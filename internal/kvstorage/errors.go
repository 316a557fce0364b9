package kvstorage

import "errors"

// Errors returned by every backend. Callers match them with errors.Is;
// the snapshot repository treats ErrKeyNotFound as an empty tracker.
var (
	ErrKeyNotFound   = errors.New("key not found")
	ErrAlreadyExists = errors.New("key already exists")

	// ErrReservedTable rejects table names that would collide with the
	// config file or the sqlite database in the data directory.
	ErrReservedTable = errors.New("table name is reserved")
)
