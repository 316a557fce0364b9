package config

import "os"

// Environment variable names.
const (
	EnvDir      = "TR_DIR"       // Path to the .tracker directory
	EnvActor    = "TR_ACTOR"     // Override actor
	EnvLogLevel = "TR_LOG_LEVEL" // Override log.level
	EnvStorage  = "TR_STORAGE"   // Override storage.backend
	EnvJSON     = "TR_JSON"      // Enable JSON output ("1" or "true")
)

// ApplyEnvOverrides copies TR_ACTOR, TR_LOG_LEVEL and TR_STORAGE into s
// as in-memory overrides. They are never persisted.
func ApplyEnvOverrides(s Store) {
	overrides := []struct{ env, key string }{
		{EnvActor, KeyActor},
		{EnvLogLevel, KeyLogLevel},
		{EnvStorage, KeyStorageBackend},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.env); v != "" {
			s.SetInMemory(o.key, v)
		}
	}
}
