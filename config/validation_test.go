package config

import (
	"testing"

	"github.com/grovetools/vigil/errors"
	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		Groups: []Group{
			{
				Name:    "docs",
				Command: CommandSpec{Program: "/srv/build-docs.sh"},
				Files:   []string{"/srv/docs/index.md"},
			},
		},
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidateRejections(t *testing.T) {
	negative := -1.0

	testCases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no groups", func(c *Config) { c.Groups = nil }},
		{"empty group name", func(c *Config) { c.Groups[0].Name = "  " }},
		{"duplicate group name", func(c *Config) {
			c.Groups = append(c.Groups, c.Groups[0])
		}},
		{"missing command", func(c *Config) { c.Groups[0].Command = CommandSpec{} }},
		{"empty file list", func(c *Config) { c.Groups[0].Files = nil }},
		{"blank file entry", func(c *Config) { c.Groups[0].Files = []string{""} }},
		{"negative debounce", func(c *Config) { c.DebounceSeconds = &negative }},
		{"negative shutdown grace", func(c *Config) {
			c.Settings.ShutdownGraceSeconds = &negative
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			assert.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeConfigValidation))
		})
	}
}

func TestValidateAllowsZeroDebounce(t *testing.T) {
	zero := 0.0
	cfg := validConfig()
	cfg.DebounceSeconds = &zero
	assert.NoError(t, cfg.Validate())
}
