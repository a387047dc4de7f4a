package errors

import (
	"fmt"
	"os/exec"
)

// ConfigNotFound creates a configuration not found error
func ConfigNotFound(path string) *VigilError {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("configuration file not found: %s", path)).
		WithDetail("path", path)
}

// ConfigInvalid creates an invalid configuration error
func ConfigInvalid(reason string) *VigilError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", reason))
}

// WatchSetup creates a watch setup error for a single group
func WatchSetup(group, dir string, err error) *VigilError {
	return Wrap(err, ErrCodeWatchSetup,
		fmt.Sprintf("cannot watch directory %s for group '%s'", dir, group)).
		WithDetail("group", group).
		WithDetail("directory", dir)
}

// CommandFailed creates a command execution failure error
func CommandFailed(cmd string, err error) *VigilError {
	vigilErr := Wrap(err, ErrCodeCommandFailed, fmt.Sprintf("command failed: %s", cmd)).
		WithDetail("command", cmd)

	// Extract exit code if available
	if exitErr, ok := err.(*exec.ExitError); ok {
		vigilErr = vigilErr.WithDetail("exitCode", exitErr.ExitCode())
	}

	return vigilErr
}

// CommandNotFound creates a missing executable error
func CommandNotFound(cmd string) *VigilError {
	return New(ErrCodeCommandNotFound, fmt.Sprintf("executable not found: %s", cmd)).
		WithDetail("command", cmd)
}

// CommandSpawn creates a spawn failure error
func CommandSpawn(cmd string, err error) *VigilError {
	return Wrap(err, ErrCodeCommandSpawn, fmt.Sprintf("failed to start command: %s", cmd)).
		WithDetail("command", cmd)
}
