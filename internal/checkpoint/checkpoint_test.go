package checkpoint

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestManager_SaveLoadRemove(t *testing.T) {
	m := New(filepath.Join(t.TempDir(), ".ckpt"))

	n, err := m.Load()
	if err != nil || n != 0 {
		t.Fatalf("missing checkpoint: n=%d err=%v", n, err)
	}
	if err := m.Save(5000); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := m.Save(10000); err != nil {
		t.Fatalf("save: %v", err)
	}
	b, err := os.ReadFile(m.Path())
	if err != nil || string(b) != "10000\n" {
		t.Fatalf("file content %q err=%v", b, err)
	}
	n, err = m.Load()
	if err != nil || n != 10000 {
		t.Fatalf("load: n=%d err=%v", n, err)
	}
	if err := m.Remove(); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := m.Remove(); err != nil {
		t.Fatalf("second remove: %v", err)
	}
	if _, err := os.Stat(m.Path()); !os.IsNotExist(err) {
		t.Fatalf("checkpoint still present: %v", err)
	}
}

func TestManager_SaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	m := New(filepath.Join(dir, ".ckpt"))
	if err := m.Save(1); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the checkpoint, found %d entries", len(entries))
	}
}

func TestManager_LoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".ckpt")
	if err := os.WriteFile(path, []byte("abc\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	n, err := New(path).Load()
	if !errors.Is(err, ErrCorrupt) || n != 0 {
		t.Fatalf("n=%d err=%v", n, err)
	}
}

func TestNew_DefaultPath(t *testing.T) {
	if New("").Path() != DefaultPath {
		t.Fatalf("default path not applied")
	}
}
