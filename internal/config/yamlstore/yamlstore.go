// Package yamlstore implements config.Store backed by a flat YAML file.
//
// The file holds flat key-value pairs where dotted keys (e.g.
// "log.level") are literal strings, not nested paths. yaml.Marshal on
// map[string]string sorts keys, so the file stays diff-friendly.
package yamlstore

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"sync"
	"syscall"

	"gopkg.in/yaml.v3"

	"issuetracker/internal/config"
)

// YAMLStore implements config.Store using a YAML file on disk.
// Values set with SetInMemory shadow the file and are never written.
type YAMLStore struct {
	mu        sync.Mutex
	path      string
	data      map[string]string
	overrides map[string]string
}

var _ config.Store = (*YAMLStore)(nil)

// New creates a YAMLStore that reads from and writes to path.
// A missing file is an empty store; it is created on the first Set.
func New(path string) (*YAMLStore, error) {
	s := &YAMLStore{
		path:      path,
		overrides: make(map[string]string),
	}
	if err := s.readFromDisk(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the config file location.
func (s *YAMLStore) Path() string {
	return s.path
}

func (s *YAMLStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.overrides[key]; ok {
		return v, true
	}
	v, ok := s.data[key]
	return v, ok
}

// Set writes key=value and persists to disk.
func (s *YAMLStore) Set(key, value string) error {
	return s.withLock(func() {
		s.data[key] = value
	})
}

func (s *YAMLStore) SetInMemory(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[key] = value
}

// Unset removes key and persists to disk. In-memory overrides for key are
// dropped as well.
func (s *YAMLStore) Unset(key string) error {
	return s.withLock(func() {
		delete(s.data, key)
		delete(s.overrides, key)
	})
}

// All returns a copy of all key-value pairs, overrides applied.
func (s *YAMLStore) All() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := maps.Clone(s.data)
	maps.Copy(out, s.overrides)
	return out
}

func (s *YAMLStore) lockPath() string {
	return s.path + ".lock"
}

// withLock takes an exclusive flock, re-reads the file to pick up writes
// from other processes, applies fn and writes the result back atomically.
func (s *YAMLStore) withLock(fn func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	f, err := os.OpenFile(s.lockPath(), os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf("opening config lock: %w", err)
	}
	defer f.Close()

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX); err != nil {
		return fmt.Errorf("acquiring config lock: %w", err)
	}
	defer syscall.Flock(int(f.Fd()), syscall.LOCK_UN)

	if err := s.readFromDisk(); err != nil {
		return err
	}

	fn()

	raw, err := yaml.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return replaceFile(s.path, raw)
}

// readFromDisk replaces s.data with the file contents.
func (s *YAMLStore) readFromDisk() error {
	fresh := make(map[string]string)
	raw, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return fmt.Errorf("reading config file: %w", err)
	case len(raw) > 0:
		if err := yaml.Unmarshal(raw, &fresh); err != nil {
			return fmt.Errorf("parsing config file: %w", err)
		}
		if fresh == nil {
			fresh = make(map[string]string)
		}
	}
	s.data = fresh
	return nil
}

// replaceFile writes data next to path and renames it into place.
func replaceFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("creating temp config: %w", err)
	}
	_, werr := tmp.Write(data)
	cerr := tmp.Close()
	if err := errors.Join(werr, cerr); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing config: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing config: %w", err)
	}
	return nil
}
