package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	// DirName is the data directory created by `tr init`.
	DirName = ".tracker"
	// FileName is the config file inside DirName.
	FileName = "config.yaml"
)

// ErrNotInitialized is returned when no tracker directory can be found.
var ErrNotInitialized = errors.New("tracker not initialized (run `tr init`)")

// Paths captures resolved locations for config and data.
type Paths struct {
	Dir        string // path to the .tracker directory
	ConfigFile string // path to .tracker/config.yaml
}

// PathsFor returns the Paths rooted at base. A base that is not itself a
// .tracker directory gets one appended.
func PathsFor(base string) (Paths, error) {
	abs, err := filepath.Abs(base)
	if err != nil {
		return Paths{}, fmt.Errorf("resolving path: %w", err)
	}
	if filepath.Base(abs) != DirName {
		abs = filepath.Join(abs, DirName)
	}
	return Paths{Dir: abs, ConfigFile: filepath.Join(abs, FileName)}, nil
}

// ResolvePaths locates an initialized tracker directory.
// Discovery order: explicit base > TR_DIR > walk up from the working
// directory, stopping at the git root.
func ResolvePaths(base string) (Paths, error) {
	if base == "" {
		base = os.Getenv(EnvDir)
	}
	if base != "" {
		p, err := PathsFor(base)
		if err != nil {
			return Paths{}, err
		}
		if _, err := os.Stat(p.ConfigFile); err != nil {
			return Paths{}, fmt.Errorf("%s: %w", p.ConfigFile, ErrNotInitialized)
		}
		return p, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return Paths{}, fmt.Errorf("cannot get current directory: %w", err)
	}
	return findUpward(cwd)
}

// findUpward walks from start toward the filesystem root looking for
// .tracker/config.yaml. It does not leave the enclosing git repository.
func findUpward(start string) (Paths, error) {
	gitRoot := FindGitRoot(start)
	dir := start
	for {
		p := Paths{Dir: filepath.Join(dir, DirName), ConfigFile: filepath.Join(dir, DirName, FileName)}
		info, err := os.Stat(p.ConfigFile)
		if err == nil && !info.IsDir() {
			return p, nil
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Paths{}, fmt.Errorf("checking config: %w", err)
		}

		if gitRoot != "" && dir == gitRoot {
			return Paths{}, ErrNotInitialized
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return Paths{}, ErrNotInitialized
		}
		dir = parent
	}
}

// FindGitRoot returns the git repository root containing startDir, or ""
// outside a repository. .git may be a directory or a worktree file.
func FindGitRoot(startDir string) string {
	dir := startDir
	for {
		if info, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			if info.IsDir() || info.Mode().IsRegular() {
				return dir
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
