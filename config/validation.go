package config

import (
	"fmt"
	"strings"

	"github.com/grovetools/vigil/errors"
)

// Validate checks the structural invariants that must hold before any
// watching starts. Violations are fatal; missing files on disk are not
// checked here (those are startup warnings, not errors).
func (c *Config) Validate() error {
	if len(c.Groups) == 0 {
		return errors.New(errors.ErrCodeConfigValidation, "configuration must define at least one group")
	}

	seen := make(map[string]bool, len(c.Groups))
	for i, group := range c.Groups {
		if strings.TrimSpace(group.Name) == "" {
			return errors.New(errors.ErrCodeConfigValidation,
				fmt.Sprintf("group at index %d has an empty name", i)).
				WithDetail("index", i)
		}
		if seen[group.Name] {
			return errors.New(errors.ErrCodeConfigValidation,
				fmt.Sprintf("duplicate group name '%s'", group.Name)).
				WithDetail("group", group.Name)
		}
		seen[group.Name] = true

		if group.Command.IsZero() {
			return errors.New(errors.ErrCodeConfigValidation,
				fmt.Sprintf("group '%s' has no command", group.Name)).
				WithDetail("group", group.Name)
		}

		if len(group.Files) == 0 {
			return errors.New(errors.ErrCodeConfigValidation,
				fmt.Sprintf("group '%s' has no files to watch", group.Name)).
				WithDetail("group", group.Name)
		}
		for _, file := range group.Files {
			if strings.TrimSpace(file) == "" {
				return errors.New(errors.ErrCodeConfigValidation,
					fmt.Sprintf("group '%s' has an empty file entry", group.Name)).
					WithDetail("group", group.Name)
			}
		}
	}

	if c.DebounceSeconds != nil && *c.DebounceSeconds < 0 {
		return errors.New(errors.ErrCodeConfigValidation,
			fmt.Sprintf("debounce_seconds must be non-negative, got %v", *c.DebounceSeconds))
	}

	if c.Settings.ShutdownGraceSeconds != nil && *c.Settings.ShutdownGraceSeconds < 0 {
		return errors.New(errors.ErrCodeConfigValidation,
			fmt.Sprintf("settings.shutdown_grace_seconds must be non-negative, got %v", *c.Settings.ShutdownGraceSeconds))
	}

	return nil
}
