package convert

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/flarebyte/csv2bin/internal/pipeline"
)

// Resume modes for --resume.
const (
	ResumeAsk = "ask"
	ResumeYes = "yes"
	ResumeNo  = "no"
)

// confirmer maps a --resume mode to the pipeline's resume decision.
func confirmer(mode string, in io.Reader, out io.Writer) (pipeline.Confirmer, error) {
	switch strings.ToLower(mode) {
	case ResumeYes:
		return pipeline.Always(true), nil
	case ResumeNo:
		return pipeline.Always(false), nil
	case ResumeAsk, "":
		return promptConfirmer(in, out), nil
	default:
		return nil, fmt.Errorf("invalid --resume %q: want ask, yes or no", mode)
	}
}

// promptConfirmer asks on out and accepts an answer starting with y or Y.
func promptConfirmer(in io.Reader, out io.Writer) pipeline.Confirmer {
	r := bufio.NewReader(in)
	return pipeline.ConfirmFunc(func(prompt string) (bool, error) {
		_, _ = io.WriteString(out, prompt)
		answer, err := r.ReadString('\n')
		if err != nil && answer == "" {
			return false, err
		}
		answer = strings.TrimSpace(answer)
		return strings.HasPrefix(answer, "y") || strings.HasPrefix(answer, "Y"), nil
	})
}
