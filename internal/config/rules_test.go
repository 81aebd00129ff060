package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/flarebyte/csv2bin/internal/validate"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadRules_Empty(t *testing.T) {
	r, warns, err := LoadRules("")
	if err != nil || len(warns) != 0 || r != validate.DefaultRules() {
		t.Fatalf("got %+v %v %v", r, warns, err)
	}
}

func TestLoadRules_KeyValue(t *testing.T) {
	path := writeFile(t, "rules.txt", strings.Join([]string{
		"# comment",
		"; another",
		"strict_mode=no",
		"allow_empty_fields = yes",
		"validate_phone=0",
		"validate_zip=TRUE",
		"no equals sign",
		"bogus=1",
	}, "\n"))

	r, warns, err := LoadRules(path)
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	if r.StrictMode || !r.AllowEmptyFields || r.ValidatePhone || !r.ValidateZip || !r.ValidateEmail {
		t.Fatalf("unexpected rules: %+v", r)
	}
	if len(warns) != 1 || !strings.Contains(warns[0], `"bogus"`) || !strings.Contains(warns[0], "line 8") {
		t.Fatalf("warnings = %q", warns)
	}
}

func TestLoadRules_Truthy(t *testing.T) {
	for value, want := range map[string]bool{
		"1": true, "true": true, "TRUE": true, "yes": true, "YES": true,
		"True": false, "on": false, "0": false, "": false,
	} {
		if got := truthy(value); got != want {
			t.Errorf("truthy(%q)=%v, want %v", value, got, want)
		}
	}
}

func TestLoadRules_MissingFileKeepsDefaults(t *testing.T) {
	r, warns, err := LoadRules(filepath.Join(t.TempDir(), "absent.conf"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r != validate.DefaultRules() || len(warns) != 1 {
		t.Fatalf("got %+v %q", r, warns)
	}
}

func TestLoadRules_CUE(t *testing.T) {
	path := writeFile(t, "rules.cue", "strict_mode: false\nvalidate_email: false\nextra: 3\n")
	r, warns, err := LoadRules(path)
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	if r.StrictMode || r.ValidateEmail || !r.ValidateDate {
		t.Fatalf("unexpected rules: %+v", r)
	}
	if len(warns) != 1 || !strings.Contains(warns[0], "extra") {
		t.Fatalf("warnings = %q", warns)
	}
}

func TestLoadRules_CUEWrongType(t *testing.T) {
	path := writeFile(t, "rules.cue", `strict_mode: "yes"`+"\n")
	_, _, err := LoadRules(path)
	if err == nil || !strings.Contains(err.Error(), "strict_mode") {
		t.Fatalf("expected type error, got %v", err)
	}
}

func TestLoadRules_CUESyntaxError(t *testing.T) {
	path := writeFile(t, "rules.cue", "strict_mode: {\n")
	if _, _, err := LoadRules(path); err == nil {
		t.Fatalf("expected compile error")
	}
}
