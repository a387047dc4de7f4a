package watch

import "time"

// FileStatus is a tracked file and whether it existed at startup.
type FileStatus struct {
	Path   string
	Exists bool
}

// GroupSummary describes one group for the startup summary.
type GroupSummary struct {
	Name     string
	Command  string
	Files    []FileStatus
	Disabled bool
}

// Reporter is the presentation boundary: the engine publishes status
// through it and never writes to the console itself. Implementations must
// not block for long; they are called from the dispatch loop and from
// runner goroutines.
type Reporter interface {
	// StartupSummary is published once, before watching begins.
	StartupSummary(groups []GroupSummary, warnings []string)

	// Warning reports a non-fatal condition for a group ("" for process-wide).
	Warning(group, message string)

	// ChangeDetected reports a normalized signal delivered to a group's gate.
	ChangeDetected(group, path string, kind ChangeKind, at time.Time)

	// RunStarted reports that a group's command began executing.
	RunStarted(group string, at time.Time)

	// RunOutput streams one line of command output as it is produced.
	RunOutput(group, line string, stderr bool)

	// RunFinished reports a completed run. err is non-nil only for
	// spawn/infrastructure failures; command failures surface as a
	// non-zero exitCode.
	RunFinished(group string, exitCode int, err error, duration time.Duration)
}

// NopReporter discards all status events.
type NopReporter struct{}

func (NopReporter) StartupSummary([]GroupSummary, []string)            {}
func (NopReporter) Warning(string, string)                             {}
func (NopReporter) ChangeDetected(string, string, ChangeKind, time.Time) {}
func (NopReporter) RunStarted(string, time.Time)                       {}
func (NopReporter) RunOutput(string, string, bool)                     {}
func (NopReporter) RunFinished(string, int, error, time.Duration)      {}
