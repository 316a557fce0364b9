package config

import (
	"maps"
	"strings"
	"testing"
)

func TestDefaultValues(t *testing.T) {
	defaults := DefaultValues()

	expected := map[string]string{
		"actor":             "${USER}",
		"storage.backend":   "filesystem",
		"log.level":         "warn",
		"log.format":        "text",
		"defaults.priority": "none",
		"defaults.status":   "todo",
	}

	if len(defaults) != len(expected) {
		t.Fatalf("DefaultValues() has %d entries, want %d", len(defaults), len(expected))
	}

	for k, want := range expected {
		got, ok := defaults[k]
		if !ok {
			t.Errorf("DefaultValues() missing key %q", k)
			continue
		}
		if got != want {
			t.Errorf("DefaultValues()[%q] = %q, want %q", k, got, want)
		}
	}
}

func TestDefaultValuesAreValid(t *testing.T) {
	if err := Validate(&memStore{data: DefaultValues()}); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestApplyDefaults(t *testing.T) {
	s := &memStore{data: map[string]string{
		"actor": "alice",
	}}

	if err := ApplyDefaults(s); err != nil {
		t.Fatalf("ApplyDefaults: %v", err)
	}

	// Pre-existing key should not be overwritten
	if v, _ := s.Get("actor"); v != "alice" {
		t.Errorf("actor = %q, want %q (should not be overwritten)", v, "alice")
	}

	// Missing keys should be filled from defaults
	if v, ok := s.Get("defaults.priority"); !ok || v != "none" {
		t.Errorf("defaults.priority = %q, %v; want %q, true", v, ok, "none")
	}
	if v, ok := s.Get("storage.backend"); !ok || v != "filesystem" {
		t.Errorf("storage.backend = %q, %v; want %q, true", v, ok, "filesystem")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		data    map[string]string
		wantErr string
	}{
		{"valid", map[string]string{"storage.backend": "sqlite", "defaults.status": "in_progress"}, ""},
		{"unknown keys ignored", map[string]string{"custom.key": "anything"}, ""},
		{"bad backend", map[string]string{"storage.backend": "postgres"}, "storage.backend"},
		{"bad priority", map[string]string{"defaults.priority": "critical"}, "defaults.priority"},
		{"bad status", map[string]string{"defaults.status": "open"}, "defaults.status"},
		{"bad log level", map[string]string{"log.level": "trace"}, "log.level"},
		{"empty actor", map[string]string{"actor": "  "}, "actor"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&memStore{data: tt.data})
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error mentioning %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateKey(t *testing.T) {
	tests := []struct {
		key, val string
		ok       bool
	}{
		{"log.format", "json", true},
		{"log.format", "yaml", false},
		{"defaults.priority", "urgent", true},
		{"actor", "", false},
		{"custom.anything", "", true},
	}
	for _, tt := range tests {
		err := ValidateKey(tt.key, tt.val)
		if (err == nil) != tt.ok {
			t.Errorf("ValidateKey(%q, %q) = %v, want ok=%v", tt.key, tt.val, err, tt.ok)
		}
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("USER", "grace")

	s := &memStore{data: map[string]string{"log.level": "debug"}}
	got, err := Load(s)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Actor != "grace" {
		t.Errorf("Actor = %q, want %q (expanded from ${USER})", got.Actor, "grace")
	}
	if got.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", got.LogLevel)
	}
	if got.Backend != BackendFilesystem || got.DefaultStatus != "todo" || got.DefaultPriority != "none" {
		t.Errorf("defaults not applied: %+v", got)
	}

	if _, err := Load(&memStore{data: map[string]string{"log.format": "xml"}}); err == nil {
		t.Error("Load should fail validation for log.format=xml")
	}
}

// memStore is a simple in-memory Store for testing.
type memStore struct {
	data map[string]string
}

func (m *memStore) Get(key string) (string, bool) {
	v, ok := m.data[key]
	return v, ok
}

func (m *memStore) Set(key, value string) error {
	m.data[key] = value
	return nil
}

func (m *memStore) SetInMemory(key, value string) {
	m.data[key] = value
}

func (m *memStore) Unset(key string) error {
	delete(m.data, key)
	return nil
}

func (m *memStore) All() map[string]string {
	return maps.Clone(m.data)
}
