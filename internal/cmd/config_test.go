package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"issuetracker/internal/config"
	"issuetracker/internal/config/yamlstore"
)

func setupConfigApp(t *testing.T) (*App, string) {
	t.Helper()
	app := setupTestApp(t)
	path := filepath.Join(t.TempDir(), config.FileName)
	store, err := yamlstore.New(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := config.ApplyDefaults(store); err != nil {
		t.Fatal(err)
	}
	app.ConfigStore = store
	return app, path
}

func TestConfigSetGetUnset(t *testing.T) {
	app, path := setupConfigApp(t)

	out := mustRun(t, app, newConfigCmd, "set", "defaults.priority", "high")
	if !strings.Contains(out, "Set defaults.priority = high") {
		t.Errorf("set output = %q", out)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), "defaults.priority: high") {
		t.Errorf("config file not updated:\n%s", raw)
	}

	out = mustRun(t, app, newConfigCmd, "get", "defaults.priority")
	if strings.TrimSpace(out) != "high" {
		t.Errorf("get output = %q", out)
	}

	mustRun(t, app, newConfigCmd, "set", "team.name", "payments")
	mustRun(t, app, newConfigCmd, "unset", "team.name")
	out = mustRun(t, app, newConfigCmd, "get", "team.name")
	if !strings.Contains(out, "team.name (not set)") {
		t.Errorf("get after unset = %q", out)
	}
}

func TestConfigSetRejectsInvalid(t *testing.T) {
	app, _ := setupConfigApp(t)

	for _, args := range [][]string{
		{"set", "storage.backend", "postgres"},
		{"set", "log.level", "trace"},
		{"set", "defaults.status", "open"},
	} {
		if _, err := runCmd(t, app, newConfigCmd, args...); err == nil {
			t.Errorf("config %v: expected error", args)
		}
	}
	if v, _ := app.ConfigStore.Get(config.KeyStorageBackend); v != config.BackendFilesystem {
		t.Errorf("storage.backend changed to %q", v)
	}
}

func TestConfigListAndValidate(t *testing.T) {
	app, _ := setupConfigApp(t)
	app.ConfigStore.SetInMemory(config.KeyActor, "ada")

	out := mustRun(t, app, newConfigCmd, "list")
	for _, want := range []string{"Configuration:", "actor = ada", "storage.backend = filesystem"} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q:\n%s", want, out)
		}
	}

	out = mustRun(t, app, newConfigCmd, "validate")
	if !strings.Contains(out, "Configuration is valid.") {
		t.Errorf("validate output = %q", out)
	}

	// Hand-edited bad value.
	app.ConfigStore.SetInMemory(config.KeyLogFormat, "xml")
	app.JSON = true
	out, err := runCmd(t, app, newConfigCmd, "validate")
	if err == nil {
		t.Fatal("expected validation error")
	}
	var result struct {
		Valid bool   `json:"valid"`
		Error string `json:"error"`
	}
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if result.Valid || !strings.Contains(result.Error, "log.format") {
		t.Errorf("result = %+v", result)
	}
}

func TestConfigWithoutStore(t *testing.T) {
	app := setupTestApp(t)
	if _, err := runCmd(t, app, newConfigCmd, "list"); err == nil {
		t.Error("expected error without a config store")
	}
}
