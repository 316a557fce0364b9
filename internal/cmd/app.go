// Package cmd implements the tr command-line interface.
package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"issuetracker/internal/config"
	"issuetracker/internal/snapshot"
	"issuetracker/internal/tracker"

	"golang.org/x/term"
)

// App holds application state shared across commands.
type App struct {
	Tracker     *tracker.Store
	Repo        *snapshot.Repository // nil in tests that never persist
	ConfigStore config.Store
	Settings    config.Settings
	Dir         string // path to .tracker directory
	Log         *slog.Logger
	Out         io.Writer
	Err         io.Writer
	JSON        bool // output in JSON format
}

// Save writes the tracker state back to the snapshot repository.
// Mutating commands call it once after their operations succeed.
func (a *App) Save(ctx context.Context) error {
	if a.Repo == nil {
		return nil
	}
	return a.Repo.Save(ctx, a.Tracker.Snapshot())
}

// Close releases the snapshot backend.
func (a *App) Close() error {
	if a.Repo == nil {
		return nil
	}
	return a.Repo.Close()
}

// SuccessColor returns the string wrapped in green ANSI codes if stdout is a terminal,
// otherwise returns the string unchanged.
func (a *App) SuccessColor(s string) string {
	if f, ok := a.Out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return "\033[32m" + s + "\033[0m"
	}
	return s
}

// WarnColor returns the string wrapped in orange ANSI codes if stdout is a terminal,
// otherwise returns the string unchanged.
func (a *App) WarnColor(s string) string {
	if f, ok := a.Out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return "\033[38;5;214m" + s + "\033[0m"
	}
	return s
}

// logger returns a.Log or a discard logger.
func (a *App) logger() *slog.Logger {
	if a.Log == nil {
		return slog.New(slog.DiscardHandler)
	}
	return a.Log
}
