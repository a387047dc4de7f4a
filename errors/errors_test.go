package errors

import (
	"fmt"
	"testing"
)

func TestVigilError(t *testing.T) {
	// Test basic error creation
	err := New(ErrCodeConfigNotFound, "config not found")
	if err.Code != ErrCodeConfigNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeConfigNotFound, err.Code)
	}

	// Test error wrapping
	cause := fmt.Errorf("underlying error")
	wrapped := Wrap(cause, ErrCodeCommandFailed, "command failed")

	if wrapped.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}

	// Test Is function
	if !Is(wrapped, ErrCodeCommandFailed) {
		t.Error("Is should return true for matching code")
	}

	if Is(wrapped, ErrCodeConfigNotFound) {
		t.Error("Is should return false for non-matching code")
	}

	// Test WithDetail
	detailed := err.WithDetail("group", "docs").WithDetail("files", 3)
	if detailed.Details["group"] != "docs" {
		t.Error("WithDetail should add details")
	}
}

func TestErrorConstructors(t *testing.T) {
	// Test WatchSetup
	err := WatchSetup("docs", "/srv/docs", fmt.Errorf("permission denied"))
	if err.Code != ErrCodeWatchSetup {
		t.Errorf("expected code %s, got %s", ErrCodeWatchSetup, err.Code)
	}
	if err.Details["group"] != "docs" {
		t.Error("WatchSetup should include group detail")
	}

	// Test CommandNotFound
	err = CommandNotFound("./build.sh")
	if err.Code != ErrCodeCommandNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeCommandNotFound, err.Code)
	}
	if err.Details["command"] != "./build.sh" {
		t.Error("CommandNotFound should include command detail")
	}
}
