package config

import (
	"fmt"
	"slices"
	"strings"

	"issuetracker/internal/domain"
)

// validValues maps known keys to their allowed values.
// An empty slice means any non-empty string is accepted.
var validValues = map[string][]string{
	KeyActor:           {},
	KeyStorageBackend:  {BackendFilesystem, BackendSQLite},
	KeyLogLevel:        {"debug", "info", "warn", "error"},
	KeyLogFormat:       {"text", "json"},
	KeyDefaultPriority: enumStrings(domain.Priorities),
	KeyDefaultStatus:   enumStrings(domain.Statuses),
}

func enumStrings[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

// ValidateKey checks one value against the rules for key. Unknown keys
// are accepted.
func ValidateKey(key, val string) error {
	allowed, known := validValues[key]
	if !known {
		return nil
	}
	if len(allowed) == 0 {
		if strings.TrimSpace(val) == "" {
			return fmt.Errorf("%s: must not be empty", key)
		}
		return nil
	}
	if !slices.Contains(allowed, val) {
		return fmt.Errorf("%s: invalid value %q (allowed: %s)", key, val, strings.Join(allowed, ", "))
	}
	return nil
}

// Validate checks all values in s for known keys. It returns an error
// describing every invalid value found, or nil if all values are valid.
func Validate(s Store) error {
	all := s.All()
	var errs []string

	keys := make([]string, 0, len(validValues))
	for k := range validValues {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, key := range keys {
		val, ok := all[key]
		if !ok {
			continue
		}
		if err := ValidateKey(key, val); err != nil {
			errs = append(errs, err.Error())
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
}
