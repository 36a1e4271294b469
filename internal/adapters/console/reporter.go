// Package console implements the Reporter port for terminal output.
package console

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/example/renewbot/internal/ports/secondary"
)

// Reporter writes run progress to a terminal.
type Reporter struct {
	out io.Writer
}

// NewReporter creates a reporter writing to out. A nil out means stdout.
func NewReporter(out io.Writer) *Reporter {
	if out == nil {
		out = os.Stdout
	}
	return &Reporter{out: out}
}

// Step announces the beginning of a run step.
func (r *Reporter) Step(format string, args ...any) {
	fmt.Fprintf(r.out, "%s %s\n", color.New(color.FgCyan).Sprint("→"), fmt.Sprintf(format, args...))
}

// Success reports a completed step.
func (r *Reporter) Success(format string, args ...any) {
	fmt.Fprintf(r.out, "%s %s\n", color.New(color.FgGreen).Sprint("✓"), fmt.Sprintf(format, args...))
}

// Warn reports a condition that needs attention but does not stop the
// run.
func (r *Reporter) Warn(format string, args ...any) {
	fmt.Fprintf(r.out, "%s %s\n", color.New(color.FgYellow).Sprint("⚠"), fmt.Sprintf(format, args...))
}

// Info reports neutral progress detail.
func (r *Reporter) Info(format string, args ...any) {
	fmt.Fprintf(r.out, "  %s\n", fmt.Sprintf(format, args...))
}

// Ensure Reporter implements the interface
var _ secondary.Reporter = (*Reporter)(nil)
