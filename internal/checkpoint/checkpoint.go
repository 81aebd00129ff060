// Package checkpoint persists how many records a conversion has durably
// written, so an interrupted run can resume.
package checkpoint

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// DefaultPath is the checkpoint file used when none is configured.
const DefaultPath = ".conversion_checkpoint"

// Manager reads and writes a single checkpoint file. The file holds one
// decimal integer followed by a newline.
type Manager struct {
	path string
}

func New(path string) *Manager {
	if path == "" {
		path = DefaultPath
	}
	return &Manager{path: path}
}

func (m *Manager) Path() string { return m.path }

// Save replaces the checkpoint with n. The value is written to a temporary
// file, synced and renamed over the old one.
func (m *Manager) Save(n int64) error {
	dir := filepath.Dir(m.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(m.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("save checkpoint: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if tmpName != "" {
			_ = os.Remove(tmpName)
		}
	}()
	if _, err := fmt.Fprintf(tmp, "%d\n", n); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("save checkpoint: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("save checkpoint: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save checkpoint: %w", err)
	}
	if err := os.Rename(tmpName, m.path); err != nil {
		return fmt.Errorf("save checkpoint: %w", err)
	}
	tmpName = ""
	return nil
}

// ErrCorrupt is returned by Load when the file does not hold a non-negative
// integer. The returned count is 0 in that case.
var ErrCorrupt = errors.New("corrupt checkpoint")

// Load returns the saved count, or 0 when no checkpoint exists.
func (m *Manager) Load() (int64, error) {
	b, err := os.ReadFile(m.path)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("load checkpoint: %w", err)
	}
	n, err := strconv.ParseInt(strings.TrimSpace(string(b)), 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s: %q", ErrCorrupt, m.path, strings.TrimSpace(string(b)))
	}
	return n, nil
}

// Remove deletes the checkpoint. A missing file is not an error.
func (m *Manager) Remove() error {
	if err := os.Remove(m.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove checkpoint: %w", err)
	}
	return nil
}
