package config

// DefaultValues returns the default config map for the core keys.
func DefaultValues() map[string]string {
	return map[string]string{
		KeyActor:           "${USER}",
		KeyStorageBackend:  BackendFilesystem,
		KeyLogLevel:        "warn",
		KeyLogFormat:       "text",
		KeyDefaultPriority: "none",
		KeyDefaultStatus:   "todo",
	}
}

// ApplyDefaults fills any missing core keys in s with their default values.
func ApplyDefaults(s Store) error {
	all := s.All()
	for k, v := range DefaultValues() {
		if _, exists := all[k]; !exists {
			if err := s.Set(k, v); err != nil {
				return err
			}
		}
	}
	return nil
}
