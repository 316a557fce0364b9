// Package config handles tracker configuration: a flat key-value store
// persisted as .tracker/config.yaml, its defaults, environment overrides,
// validation and data-directory discovery.
package config

// Store provides key-value access to tracker configuration.
// Keys are flat strings (dotted keys like "log.level" are literal
// strings, not nested paths).
type Store interface {
	// Get returns the value for key and whether it was found.
	Get(key string) (string, bool)

	// Set writes key=value to the store and persists to disk.
	Set(key, value string) error

	// SetInMemory writes key=value without persisting. Use this for
	// runtime overrides (env vars, flags) that should not be written back
	// to the config file.
	SetInMemory(key, value string)

	// Unset removes key from the store and persists to disk.
	Unset(key string) error

	// All returns a copy of all key-value pairs.
	All() map[string]string
}

// Config keys.
const (
	KeyActor           = "actor"
	KeyStorageBackend  = "storage.backend"
	KeyLogLevel        = "log.level"
	KeyLogFormat       = "log.format"
	KeyDefaultPriority = "defaults.priority"
	KeyDefaultStatus   = "defaults.status"
)

// Storage backends.
const (
	BackendFilesystem = "filesystem"
	BackendSQLite     = "sqlite"
)
