package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/grovetools/vigil/theme"
	"github.com/grovetools/vigil/watch"
)

// ConsoleReporter renders the watch status stream for a terminal. Output
// lines from concurrent group runs are serialized so they never interleave
// mid-line.
type ConsoleReporter struct {
	mu  sync.Mutex
	out io.Writer
	t   *theme.Theme
}

// NewConsoleReporter writes to stdout with the default theme.
func NewConsoleReporter() *ConsoleReporter {
	return &ConsoleReporter{out: os.Stdout, t: theme.DefaultTheme}
}

// NewConsoleReporterWithWriter writes to the given writer, for tests.
func NewConsoleReporterWithWriter(w io.Writer) *ConsoleReporter {
	return &ConsoleReporter{out: w, t: theme.DefaultTheme}
}

// StartupSummary prints every group with its command and tracked files,
// marking files that do not exist yet, followed by any warnings.
func (r *ConsoleReporter) StartupSummary(groups []watch.GroupSummary, warnings []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Fprintln(r.out, r.t.Bold.Render("Watching file groups:"))
	for _, group := range groups {
		name := r.t.Accent.Render(group.Name)
		if group.Disabled {
			name += " " + r.t.Error.Render("(disabled)")
		}
		fmt.Fprintf(r.out, "  %s → %s\n", name, group.Command)
		for _, file := range group.Files {
			if file.Exists {
				fmt.Fprintf(r.out, "    %s %s\n", r.t.Success.Render("✓"), file.Path)
			} else {
				fmt.Fprintf(r.out, "    %s %s %s\n", r.t.Warning.Render("✗"), file.Path,
					r.t.Muted.Render("(not found)"))
			}
		}
	}

	for _, warning := range warnings {
		fmt.Fprintf(r.out, "%s %s\n", r.t.Warning.Render("warning:"), warning)
	}

	active := 0
	for _, group := range groups {
		if !group.Disabled {
			active++
		}
	}
	fmt.Fprintf(r.out, "Watching %d group(s). %s\n", active, r.t.Muted.Render("Press Ctrl+C to stop."))
}

// Warning prints a runtime warning for a group.
func (r *ConsoleReporter) Warning(group, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, "%s [%s] %s\n", r.t.Warning.Render("warning:"), group, msg)
}

// ChangeDetected prints the change that woke a group's debounce gate.
func (r *ConsoleReporter) ChangeDetected(group, path string, kind watch.ChangeKind, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, "%s [%s] %s %s\n",
		r.t.Muted.Render(at.Format("15:04:05")),
		r.t.Accent.Render(group),
		kind, filepath.Base(path))
}

// RunStarted announces a build run.
func (r *ConsoleReporter) RunStarted(group string, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, "%s [%s] %s\n",
		r.t.Muted.Render(at.Format("15:04:05")),
		r.t.Accent.Render(group),
		r.t.Bold.Render("running build command"))
}

// RunOutput relays one line of command output, prefixed with the group name.
func (r *ConsoleReporter) RunOutput(group, line string, stderr bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	prefix := r.t.Muted.Render(fmt.Sprintf("[%s]", group))
	if stderr {
		fmt.Fprintf(r.out, "%s %s\n", prefix, r.t.Warning.Render(line))
	} else {
		fmt.Fprintf(r.out, "%s %s\n", prefix, line)
	}
}

// RunFinished prints the run outcome: ✓ on success, ✗ with the exit code or
// spawn error otherwise.
func (r *ConsoleReporter) RunFinished(group string, exitCode int, err error, duration time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := r.t.Accent.Render(group)
	elapsed := r.t.Muted.Render(fmt.Sprintf("(%s)", duration.Round(time.Millisecond)))
	switch {
	case err != nil:
		fmt.Fprintf(r.out, "%s [%s] %v\n", r.t.Error.Render("✗"), name, err)
	case exitCode != 0:
		fmt.Fprintf(r.out, "%s [%s] build failed with exit code %d %s\n",
			r.t.Error.Render("✗"), name, exitCode, elapsed)
	default:
		fmt.Fprintf(r.out, "%s [%s] build succeeded %s\n", r.t.Success.Render("✓"), name, elapsed)
	}
}
