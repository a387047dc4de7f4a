// Package watch implements the event-debounce-dispatch engine: it routes
// filesystem notifications to file groups, coalesces bursts per group, and
// serializes build command execution per group.
package watch

import (
	"time"

	"github.com/grovetools/vigil/config"
)

// Group is an immutable named set of tracked files sharing one build
// command. Groups are built once from configuration and owned by the
// Dispatcher for the process lifetime.
type Group struct {
	Name    string
	Command config.CommandSpec

	// Paths holds the normalized tracked paths (see pathutil.NormalizeForLookup).
	Paths []string

	// RawPaths holds the paths as configured, index-aligned with Paths,
	// for display purposes.
	RawPaths []string
}

// ChangeKind classifies a normalized change signal.
type ChangeKind int

const (
	KindModified ChangeKind = iota
	KindCreated
	KindRemoved
	KindRenamed
)

func (k ChangeKind) String() string {
	switch k {
	case KindCreated:
		return "created"
	case KindRemoved:
		return "removed"
	case KindRenamed:
		return "renamed"
	default:
		return "modified"
	}
}

// Signal is a normalized "this tracked file changed for this group" event.
// A raw event touching a file owned by two groups produces two signals.
type Signal struct {
	Group *Group
	Path  string
	Kind  ChangeKind
	Time  time.Time
}

// RunState tracks a group's command execution state. Never more than one
// running command per group.
type RunState int

const (
	StateIdle RunState = iota
	StateRunning
)

func (s RunState) String() string {
	if s == StateRunning {
		return "running"
	}
	return "idle"
}
