package filesystem

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"issuetracker/internal/kvstorage"
)

func openTable(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir(), "snapshots")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return s
}

func TestNewTableNames(t *testing.T) {
	tests := []struct {
		table    string
		wantErr  bool
		reserved bool
	}{
		{"snapshots", false, false},
		{"", true, false},
		{"a/b", true, false},
		{"..", true, false},
		{"config.yaml", true, true},
		{"tracker.db", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.table, func(t *testing.T) {
			_, err := New(t.TempDir(), tt.table)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New(%q) error = %v, wantErr %v", tt.table, err, tt.wantErr)
			}
			if tt.reserved && !errors.Is(err, kvstorage.ErrReservedTable) {
				t.Errorf("New(%q) error = %v, want ErrReservedTable", tt.table, err)
			}
		})
	}
}

func TestInitCreatesTableDir(t *testing.T) {
	root := t.TempDir()
	s, err := New(root, "snapshots")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(s.Dir()); !os.IsNotExist(err) {
		t.Fatalf("table dir exists before Init: %v", err)
	}
	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if info, err := os.Stat(filepath.Join(root, "snapshots")); err != nil || !info.IsDir() {
		t.Fatalf("table dir after Init: %v", err)
	}
}

func TestSnapshotLifecycle(t *testing.T) {
	s := openTable(t)
	ctx := context.Background()
	v1 := []byte(`{"version":1,"issues":[]}`)
	v2 := []byte(`{"version":1,"issues":[{"number":1}]}`)

	if err := s.Set(ctx, "tracker", v1, kvstorage.SetOptions{FailIfExists: true}); err != nil {
		t.Fatalf("first Set: %v", err)
	}
	err := s.Set(ctx, "tracker", v2, kvstorage.SetOptions{FailIfExists: true})
	if !errors.Is(err, kvstorage.ErrAlreadyExists) {
		t.Fatalf("second exclusive Set error = %v, want ErrAlreadyExists", err)
	}
	if got, _ := s.Get(ctx, "tracker"); string(got) != string(v1) {
		t.Errorf("exclusive Set clobbered value: %s", got)
	}

	if err := s.Update(ctx, "tracker", v2); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got, _ := s.Get(ctx, "tracker"); string(got) != string(v2) {
		t.Errorf("Get after Update = %s", got)
	}

	if err := s.Set(ctx, "tracker", v1, kvstorage.SetOptions{}); err != nil {
		t.Fatalf("overwrite Set: %v", err)
	}
	if got, _ := s.Get(ctx, "tracker"); string(got) != string(v1) {
		t.Errorf("Get after overwrite = %s", got)
	}

	if err := s.Delete(ctx, "tracker"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, "tracker"); !errors.Is(err, kvstorage.ErrKeyNotFound) {
		t.Errorf("Get after Delete error = %v", err)
	}
}

func TestMissingKeys(t *testing.T) {
	s := openTable(t)
	ctx := context.Background()

	ops := map[string]func() error{
		"get":    func() error { _, err := s.Get(ctx, "ghost"); return err },
		"update": func() error { return s.Update(ctx, "ghost", []byte("{}")) },
		"delete": func() error { return s.Delete(ctx, "ghost") },
	}
	for name, op := range ops {
		if err := op(); !errors.Is(err, kvstorage.ErrKeyNotFound) {
			t.Errorf("%s: error = %v, want ErrKeyNotFound", name, err)
		}
	}
}

func TestInvalidKeys(t *testing.T) {
	s := openTable(t)
	for _, key := range []string{"", "a/b", `a\b`} {
		if err := s.Set(context.Background(), key, []byte("{}"), kvstorage.SetOptions{}); err == nil {
			t.Errorf("Set(%q) succeeded", key)
		}
	}
}

func TestWritesHonorCanceledContext(t *testing.T) {
	s := openTable(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.Set(ctx, "k", []byte("{}"), kvstorage.SetOptions{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Set error = %v, want context.Canceled", err)
	}
	if err := s.Update(ctx, "k", []byte("{}")); !errors.Is(err, context.Canceled) {
		t.Errorf("Update error = %v, want context.Canceled", err)
	}
}

func TestListKeys(t *testing.T) {
	s := openTable(t)
	ctx := context.Background()

	keys, err := s.List(ctx)
	if err != nil || len(keys) != 0 {
		t.Fatalf("List on empty table = %v, %v", keys, err)
	}

	for _, k := range []string{"tracker", "backup", "archive"} {
		if err := s.Set(ctx, k, []byte("{}"), kvstorage.SetOptions{}); err != nil {
			t.Fatal(err)
		}
	}
	// Stray files and directories are not keys.
	if err := os.WriteFile(filepath.Join(s.Dir(), "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(s.Dir(), "old.json"), 0o755); err != nil {
		t.Fatal(err)
	}

	keys, err = s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if want := []string{"archive", "backup", "tracker"}; !slices.Equal(keys, want) {
		t.Errorf("List = %v, want %v", keys, want)
	}
}

func TestListWithoutInit(t *testing.T) {
	s, err := New(t.TempDir(), "snapshots")
	if err != nil {
		t.Fatal(err)
	}
	keys, err := s.List(context.Background())
	if err != nil || len(keys) != 0 {
		t.Errorf("List = %v, %v; want empty, nil", keys, err)
	}
}

func TestNoTempFilesLeft(t *testing.T) {
	s := openTable(t)
	ctx := context.Background()
	for range 3 {
		if err := s.Set(ctx, "tracker", []byte("{}"), kvstorage.SetOptions{}); err != nil {
			t.Fatal(err)
		}
	}
	entries, err := os.ReadDir(s.Dir())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "tracker.json" {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("table dir = %v, want [tracker.json]", names)
	}
}
