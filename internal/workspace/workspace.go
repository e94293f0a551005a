package workspace

import (
	"fmt"
	"log/slog"
	"os"

	"git.home.luguber.info/inful/dulynoted/internal/logfields"
)

// Manager owns the parse directory of one run.
type Manager struct {
	dir  string
	keep bool
}

// NewManager returns a manager for dir. When keep is true Cleanup leaves the
// directory in place so the parse cache can be inspected or reused by a later
// generate.
func NewManager(dir string, keep bool) *Manager {
	return &Manager{dir: dir, keep: keep}
}

// Create ensures the parse directory exists.
func (m *Manager) Create() error {
	if m.dir == "" {
		return fmt.Errorf("parse directory not configured")
	}
	if err := os.MkdirAll(m.dir, 0o750); err != nil {
		return fmt.Errorf("failed to create parse directory: %w", err)
	}
	slog.Debug("Using parse directory", logfields.Path(m.dir))
	return nil
}

// GetPath returns the parse directory.
func (m *Manager) GetPath() string {
	return m.dir
}

// Keep reports whether Cleanup preserves the directory.
func (m *Manager) Keep() bool {
	return m.keep
}

// Cleanup removes the parse directory unless the manager keeps it. It reports
// whether anything was removed.
func (m *Manager) Cleanup() (bool, error) {
	if m.dir == "" {
		return false, nil
	}
	if m.keep {
		slog.Debug("Keeping parse directory", logfields.Path(m.dir))
		return false, nil
	}
	if _, err := os.Stat(m.dir); os.IsNotExist(err) {
		return false, nil
	}
	if err := os.RemoveAll(m.dir); err != nil {
		return false, fmt.Errorf("failed to remove parse directory: %w", err)
	}
	slog.Info("Removed parse directory", logfields.Path(m.dir))
	return true, nil
}
