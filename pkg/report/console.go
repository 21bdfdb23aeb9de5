// Package report renders per-file progress lines and the closing
// summary of a pack run for terminal users. Log output stays on zap;
// this package is the human-facing surface.
package report

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"promptpack/pkg/pack"
)

// Console prints outcomes as they complete and a closing summary. Its
// methods serialize internally, so the pipeline may call Outcome from
// its streaming callback.
type Console struct {
	mu  sync.Mutex
	out io.Writer

	ok    *color.Color
	fail  *color.Color
	label *color.Color
}

// NewConsole builds a reporter writing to out. Colors are enabled only
// when out is an interactive terminal and noColor is false.
func NewConsole(out io.Writer, noColor bool) *Console {
	c := &Console{
		out:   out,
		ok:    color.New(color.FgGreen),
		fail:  color.New(color.FgRed),
		label: color.New(color.FgCyan),
	}
	if noColor || !isTerminal(out) {
		c.ok.DisableColor()
		c.fail.DisableColor()
		c.label.DisableColor()
	}
	return c
}

// isTerminal reports whether out is an interactive terminal.
func isTerminal(out io.Writer) bool {
	file, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}

// Outcome prints one line for a finished file.
func (c *Console) Outcome(o pack.Outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if o.OK {
		fmt.Fprintf(c.out, "%s  %s (%s)\n", c.ok.Sprint("  ok"), o.RelPath, o.Duration.Round(time.Millisecond))
		return
	}
	fmt.Fprintf(c.out, "%s  %s: %v\n", c.fail.Sprint("fail"), o.RelPath, o.Err)
}

// Summary prints the closing lines for a finished run.
func (c *Console) Summary(s *pack.Summary) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if s.Selected == 0 {
		fmt.Fprintln(c.out, "no files to pack")
		return
	}

	fmt.Fprintf(c.out, "\n%s %d/%d files in %s\n",
		c.label.Sprint("packed"), s.Processed, s.Selected, s.Duration.Round(time.Millisecond))
	if s.Failed > 0 {
		fmt.Fprintf(c.out, "%s %d files:\n", c.fail.Sprint("failed"), s.Failed)
		for _, o := range s.Failures {
			fmt.Fprintf(c.out, "  - %s: %v\n", o.RelPath, o.Err)
		}
	}
	fmt.Fprintf(c.out, "%s %s\n", c.label.Sprint("artifact"), s.ArtifactPath)
	if s.TreePath != "" {
		fmt.Fprintf(c.out, "%s %s\n", c.label.Sprint("tree"), s.TreePath)
	}
}
