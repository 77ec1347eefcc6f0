package progress

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// OutputMode controls how much a ConsoleReporter prints.
type OutputMode int

const (
	OutputNormal OutputMode = iota
	OutputVerbose
	OutputQuiet
)

var (
	stageStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true)
	nodeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	interrupted = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// ConsoleReporter renders events as single lines to an io.Writer, styled
// with lipgloss (adapted from its use in a full TUI layout elsewhere in
// the corpus to plain line-oriented output here).
type ConsoleReporter struct {
	out   io.Writer
	mode  OutputMode
	start time.Time
}

// ConsoleOption configures a ConsoleReporter.
type ConsoleOption func(*ConsoleReporter)

// WithOutput sets the destination writer (default os.Stdout).
func WithOutput(w io.Writer) ConsoleOption {
	return func(c *ConsoleReporter) { c.out = w }
}

// WithMode sets the verbosity.
func WithMode(mode OutputMode) ConsoleOption {
	return func(c *ConsoleReporter) { c.mode = mode }
}

// NewConsoleReporter builds a ConsoleReporter with the given options.
func NewConsoleReporter(opts ...ConsoleOption) *ConsoleReporter {
	c := &ConsoleReporter{out: os.Stdout, mode: OutputNormal, start: time.Now()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *ConsoleReporter) Event(e Event) {
	if c.mode == OutputQuiet {
		return
	}
	switch ev := e.(type) {
	case StageChangeEvent:
		fmt.Fprintf(c.out, "%s %s -> %s\n", stageStyle.Render("[stage]"), ev.From, ev.To)
	case NodeStartEvent:
		if c.mode == OutputVerbose {
			fmt.Fprintf(c.out, "%s %s\n", nodeStyle.Render("[node]"), ev.Node)
		}
	case NodeCompleteEvent:
		if ev.Success {
			fmt.Fprintf(c.out, "%s %s\n", okStyle.Render("[done]"), ev.Node)
		} else {
			fmt.Fprintf(c.out, "%s %s: %v\n", failStyle.Render("[fail]"), ev.Node, ev.Err)
		}
	case InterruptEvent:
		fmt.Fprintf(c.out, "%s before %s (resume with: continue %s)\n", interrupted.Render("[interrupt]"), ev.BeforeNode, ev.SessionID)
	case WorkerStartEvent:
		if c.mode == OutputVerbose {
			fmt.Fprintf(c.out, "%s task %s\n", dimStyle.Render("[worker]"), ev.TaskID)
		}
	case WorkerCompleteEvent:
		if ev.Success {
			fmt.Fprintf(c.out, "%s task %s completed (%s)\n", okStyle.Render("[worker]"), ev.TaskID, ev.Elapsed.Round(time.Millisecond))
		} else {
			fmt.Fprintf(c.out, "%s task %s blocked: %s\n", failStyle.Render("[worker]"), ev.TaskID, ev.Reason)
		}
	case IterationEvent:
		if c.mode == OutputVerbose {
			fmt.Fprintf(c.out, "%s %d/%d\n", dimStyle.Render("[iteration]"), ev.Count, ev.Max)
		}
	case ErrorEvent:
		fmt.Fprintf(c.out, "%s %s: %v\n", failStyle.Render("[error]"), ev.Kind, ev.Err)
	}
}

func (c *ConsoleReporter) Close() {
	if c.mode == OutputQuiet {
		return
	}
	fmt.Fprintf(c.out, "%s total %s\n", dimStyle.Render("[done]"), time.Since(c.start).Round(time.Millisecond))
}
