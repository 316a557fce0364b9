package config

import (
	"os"

	"issuetracker/internal/domain"
)

// Settings is the typed view of a Store, defaults filled in.
type Settings struct {
	Actor           string
	Backend         string
	LogLevel        string
	LogFormat       string
	DefaultPriority domain.Priority
	DefaultStatus   domain.Status
}

// Load reads Settings from s. Missing keys take their default, and
// environment references in the actor (e.g. "${USER}") are expanded.
func Load(s Store) (Settings, error) {
	if err := Validate(s); err != nil {
		return Settings{}, err
	}
	defaults := DefaultValues()
	get := func(key string) string {
		if v, ok := s.Get(key); ok && v != "" {
			return v
		}
		return defaults[key]
	}
	actor := os.ExpandEnv(get(KeyActor))
	if actor == "" {
		actor = "unknown"
	}
	return Settings{
		Actor:           actor,
		Backend:         get(KeyStorageBackend),
		LogLevel:        get(KeyLogLevel),
		LogFormat:       get(KeyLogFormat),
		DefaultPriority: domain.Priority(get(KeyDefaultPriority)),
		DefaultStatus:   domain.Status(get(KeyDefaultStatus)),
	}, nil
}
