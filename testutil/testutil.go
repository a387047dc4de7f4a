// Package testutil provides helpers for building watch fixtures in tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteConfigFile writes a configuration file into dir and returns its path.
func WriteConfigFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write config %s: %v", name, err)
	}
	return path
}

// WriteScript writes an executable shell script and returns its path.
func WriteScript(t *testing.T, dir, name, body string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755); err != nil {
		t.Fatalf("Failed to write script %s: %v", name, err)
	}
	return path
}

// WriteTrackedFile creates a file to be watched, creating parent
// directories as needed.
func WriteTrackedFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create parent dirs for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write tracked file %s: %v", path, err)
	}
}
