package config

import (
	"strings"
	"time"
)

// DefaultDebounceSeconds is used when debounce_seconds is absent from the
// configuration. An explicit zero is honored and means "fire immediately".
const DefaultDebounceSeconds = 2.0

// DefaultShutdownGraceSeconds bounds how long shutdown waits for in-flight
// command runs before giving up on them.
const DefaultShutdownGraceSeconds = 30.0

// Config is the root of a vigil configuration file.
type Config struct {
	// Groups lists the watched file groups. At least one is required.
	Groups []Group `yaml:"groups" json:"groups"`

	// DebounceSeconds is the process-wide quiet interval applied to every
	// group. Fractional values are accepted; zero disables coalescing.
	DebounceSeconds *float64 `yaml:"debounce_seconds" json:"debounce_seconds,omitempty"`

	// Settings holds optional behavior tweaks.
	Settings Settings `yaml:"settings" json:"settings,omitempty"`

	// Extensions retains unknown top-level sections so other layers
	// (e.g. logging) can decode their own configuration from the same file.
	Extensions map[string]interface{} `yaml:"-" json:"-"`

	// Path is the file the configuration was loaded from, when known.
	Path string `yaml:"-" json:"-"`
}

// Group describes one named set of tracked files sharing a build command.
type Group struct {
	// Name identifies the group. Must be unique and non-empty.
	Name string `yaml:"name" json:"name"`

	// Command is the executable to run when the group triggers. Accepts
	// either a bare program path or a program-plus-arguments list.
	Command CommandSpec `yaml:"command" json:"command"`

	// Files lists absolute paths of the files to track.
	Files []string `yaml:"files" json:"files"`
}

// CommandSpec is a program path with optional arguments.
type CommandSpec struct {
	Program string
	Args    []string
}

// String renders the spec the way a shell invocation would look.
func (s CommandSpec) String() string {
	if len(s.Args) == 0 {
		return s.Program
	}
	return s.Program + " " + strings.Join(s.Args, " ")
}

// IsZero reports whether no command was configured.
func (s CommandSpec) IsZero() bool {
	return s.Program == ""
}

// Settings holds optional process-wide behavior flags.
type Settings struct {
	// CaseFold controls whether tracked paths are matched
	// case-insensitively. Defaults to true.
	CaseFold *bool `yaml:"case_fold" json:"case_fold,omitempty"`

	// Ignore adds glob patterns (Docker .dockerignore syntax) for raw
	// events to drop before group resolution, on top of the built-in
	// editor temp-file patterns.
	Ignore []string `yaml:"ignore" json:"ignore,omitempty"`

	// ShutdownGraceSeconds bounds how long shutdown waits for running
	// commands. Defaults to 30.
	ShutdownGraceSeconds *float64 `yaml:"shutdown_grace_seconds" json:"shutdown_grace_seconds,omitempty"`
}

// Debounce returns the configured quiet interval as a duration.
func (c *Config) Debounce() time.Duration {
	seconds := DefaultDebounceSeconds
	if c.DebounceSeconds != nil {
		seconds = *c.DebounceSeconds
	}
	return time.Duration(seconds * float64(time.Second))
}

// Fold reports the case folding policy, defaulting to fold.
func (s Settings) Fold() bool {
	if s.CaseFold == nil {
		return true
	}
	return *s.CaseFold
}

// ShutdownGrace returns the bounded shutdown wait as a duration.
func (s Settings) ShutdownGrace() time.Duration {
	seconds := DefaultShutdownGraceSeconds
	if s.ShutdownGraceSeconds != nil {
		seconds = *s.ShutdownGraceSeconds
	}
	return time.Duration(seconds * float64(time.Second))
}
