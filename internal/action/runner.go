package action

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
)

// Output is one named task output.
type Output struct {
	Name  string
	Value string
}

// Outputs records task outputs. SetOutputs writes all of them or none.
type Outputs interface {
	SetOutputs(outs ...Output) error
}

// Runner talks to the Actions runner: outputs go to the GITHUB_OUTPUT file when
// it is set, workflow commands go to Stdout.
type Runner struct {
	Stdout     io.Writer
	OutputFile string
	newDelim   func() string
}

// NewRunner builds a Runner from the process environment.
func NewRunner(stdout io.Writer) *Runner {
	return &Runner{Stdout: stdout, OutputFile: os.Getenv("GITHUB_OUTPUT")}
}

// SetOutput records a single output.
func (r *Runner) SetOutput(name, value string) error {
	return r.SetOutputs(Output{Name: name, Value: value})
}

// SetOutputs renders every output first and then emits them with one write:
// heredoc entries appended to the output file, or set-output commands for
// runners without the file.
func (r *Runner) SetOutputs(outs ...Output) error {
	var b strings.Builder
	if r.OutputFile == "" {
		for _, o := range outs {
			fmt.Fprintf(&b, "::set-output name=%s::%s\n", escapeProperty(o.Name), escapeData(o.Value))
		}
		_, err := io.WriteString(r.Stdout, b.String())
		return err
	}
	for _, o := range outs {
		delim := r.delimiter()
		if strings.Contains(o.Name, delim) || strings.Contains(o.Value, delim) {
			return fmt.Errorf("output %s: value contains delimiter %s", o.Name, delim)
		}
		fmt.Fprintf(&b, "%s<<%s\n%s\n%s\n", o.Name, delim, o.Value, delim)
	}
	f, err := os.OpenFile(r.OutputFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open GITHUB_OUTPUT: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(b.String()); err != nil {
		return fmt.Errorf("write GITHUB_OUTPUT: %w", err)
	}
	return nil
}

// Fail emits the error annotation that marks the step as failed. The caller
// sets the non-zero exit code.
func (r *Runner) Fail(err error) {
	fmt.Fprintf(r.Stdout, "::error::%s\n", escapeData(err.Error()))
}

func (r *Runner) delimiter() string {
	if r.newDelim != nil {
		return r.newDelim()
	}
	return "ghadelimiter_" + uuid.NewString()
}

func escapeData(s string) string {
	return strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A").Replace(s)
}

func escapeProperty(s string) string {
	return strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A", ":", "%3A", ",", "%2C").Replace(s)
}
