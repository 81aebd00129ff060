package generate

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/flarebyte/csv2bin/internal/synth"
)

func TestGenerate_FileMatchesStdout(t *testing.T) {
	opts := synth.Options{Count: 10, Seed: 1, StartID: 5}
	var stdout bytes.Buffer
	if _, err := generate("", &stdout, opts); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "data_full", "customers.csv")
	st, err := generate(path, nil, opts)
	if err != nil {
		t.Fatal(err)
	}
	if st.Rows != 10 {
		t.Fatalf("rows: %d", st.Rows)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, stdout.Bytes()) {
		t.Fatalf("file and stdout differ")
	}
}
