package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/flarebyte/csv2bin/internal/validate"
)

// LoadRules returns the validation rules for path, starting from
// validate.DefaultRules. An empty path yields the defaults.
//
// Files ending in .cue are evaluated with CUE; anything else is read as
// key=value lines. A file that cannot be opened is not fatal: the defaults
// are returned with a warning. Warnings are meant for the log and never
// change the outcome.
func LoadRules(path string) (validate.Rules, []string, error) {
	rules := validate.DefaultRules()
	if path == "" {
		return rules, nil, nil
	}
	if filepath.Ext(path) == ".cue" {
		return loadCUERules(path, rules)
	}
	f, err := os.Open(path)
	if err != nil {
		return rules, []string{fmt.Sprintf("could not open validation rules file %s, using defaults", path)}, nil
	}
	defer f.Close()
	return parseRules(f, rules)
}

// parseRules reads key=value lines. Lines starting with # or ; are comments
// and lines without '=' are ignored.
func parseRules(r io.Reader, rules validate.Rules) (validate.Rules, []string, error) {
	var warnings []string
	sc := bufio.NewScanner(r)
	lineNum := 0
	for sc.Scan() {
		lineNum++
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' || line[0] == ';' {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if !rules.Set(key, truthy(strings.TrimSpace(value))) {
			warnings = append(warnings, fmt.Sprintf("unknown validation rule %q at line %d", key, lineNum))
		}
	}
	if err := sc.Err(); err != nil {
		return rules, warnings, fmt.Errorf("failed to read rules: %w", err)
	}
	return rules, warnings, nil
}

func truthy(v string) bool {
	switch v {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	}
	return false
}

func loadCUERules(path string, rules validate.Rules) (validate.Rules, []string, error) {
	v, err := compileCUE(path)
	if err != nil {
		var pe *os.PathError
		if errors.As(err, &pe) {
			return rules, []string{fmt.Sprintf("could not open validation rules file %s, using defaults", path)}, nil
		}
		return rules, nil, err
	}

	var warnings []string
	known := map[string]bool{}
	for _, t := range rules.Toggles() {
		known[t.Key] = true
		b, ok, err := optionalBoolField(v, t.Key)
		if err != nil {
			return rules, nil, err
		}
		if ok {
			*t.Value = b
		}
	}

	it, err := v.Fields()
	if err != nil {
		return rules, nil, fmt.Errorf("invalid config: %v", err)
	}
	for it.Next() {
		name := it.Selector().String()
		if !known[name] {
			warnings = append(warnings, fmt.Sprintf("unknown validation rule %q", name))
		}
	}
	return rules, warnings, nil
}

// compileCUE loads and compiles a CUE file at the given path.
func compileCUE(path string) (cue.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cue.Value{}, fmt.Errorf("failed to read config: %w", err)
	}
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("invalid config: %v", err)
	}
	return v, nil
}

func optionalBoolField(v cue.Value, name string) (bool, bool, error) {
	f := v.LookupPath(cue.ParsePath(name))
	if !f.Exists() {
		return false, false, nil
	}
	if f.Kind() != cue.BoolKind {
		return false, false, fmt.Errorf("invalid type for field: %s (expected bool)", name)
	}
	b, err := f.Bool()
	if err != nil {
		return false, false, fmt.Errorf("invalid value for field: %s: %v", name, err)
	}
	return b, true, nil
}
