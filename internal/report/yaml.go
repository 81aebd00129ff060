package report

import (
	"bytes"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

// MarshalYAML returns the summary as YAML with keys sorted at every level,
// so identical runs produce identical bytes apart from timing fields.
func MarshalYAML(s Summary) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(canonicalNode(summaryMap(s))); err != nil {
		_ = enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	out := bytes.TrimRight(buf.Bytes(), "\n")
	out = append(out, '\n')
	return out, nil
}

// WriteYAML writes MarshalYAML(s) to path, creating parent directories.
func WriteYAML(path string, s Summary) error {
	b, err := MarshalYAML(s)
	if err != nil {
		return err
	}
	return writeFile(path, b)
}

func summaryMap(s Summary) map[string]any {
	res := s.Result
	st := res.Stats
	rules := map[string]any{}
	for _, t := range res.Rules.Toggles() {
		rules[t.Key] = *t.Value
	}
	m := map[string]any{
		"run_id":    res.RunID,
		"input":     res.InputPath,
		"output":    res.OutputPath,
		"status":    s.Status(),
		"exit_code": res.ExitCode,
		"state":     res.State.String(),
		"rules":     rules,
		"stats": map[string]any{
			"total_lines":         st.TotalLines,
			"processed":           st.Processed,
			"succeeded":           st.Succeeded,
			"failed":              st.Failed,
			"skipped":             st.Skipped,
			"filtered":            st.Filtered,
			"validation_errors":   st.ValidationErrors,
			"validation_warnings": st.ValidationWarnings,
			"bytes_written":       st.BytesWritten,
		},
		"timing": map[string]any{
			"started_at":      st.StartedAt.UTC().Format(time.RFC3339),
			"finished_at":     st.FinishedAt.UTC().Format(time.RFC3339),
			"elapsed_seconds": st.Elapsed().Seconds(),
		},
	}
	if res.ResumedFrom > 0 {
		m["resumed_from"] = res.ResumedFrom
	}
	if res.Err != nil {
		m["error"] = res.Err.Error()
	}
	if s.Version != "" {
		m["version"] = s.Version
	}
	if p := s.Provenance; p != nil {
		m["provenance"] = map[string]any{
			"repository":  p.Root,
			"head":        p.Head,
			"path":        p.Path,
			"last_commit": p.Commit,
			"author":      p.Author,
			"committed":   p.When.UTC().Format(time.RFC3339),
		}
	}
	return m
}

func scalarNode(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}

func scalarFrom(v any) *yaml.Node {
	n := &yaml.Node{}
	_ = n.Encode(v)
	return n
}

func canonicalNode(v any) *yaml.Node {
	switch x := v.(type) {
	case nil:
		return &yaml.Node{Kind: yaml.MappingNode}
	case map[string]any:
		return canonicalMapNode(x)
	case []any:
		n := &yaml.Node{Kind: yaml.SequenceNode}
		for _, it := range x {
			n.Content = append(n.Content, canonicalNode(it))
		}
		return n
	default:
		return scalarFrom(x)
	}
}

func canonicalMapNode(m map[string]any) *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		n.Content = append(n.Content, scalarNode(k), canonicalNode(m[k]))
	}
	return n
}
