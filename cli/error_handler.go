package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/grovetools/vigil/errors"
)

// ErrorHandler provides user-friendly error messages
type ErrorHandler struct {
	Verbose bool

	// out defaults to stderr; tests substitute a buffer.
	out io.Writer
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(verbose bool) *ErrorHandler {
	return &ErrorHandler{
		Verbose: verbose,
	}
}

func (h *ErrorHandler) writer() io.Writer {
	if h.out != nil {
		return h.out
	}
	return os.Stderr
}

// Handle provides user-friendly error messages based on error type
func (h *ErrorHandler) Handle(err error) error {
	out := h.writer()

	switch errors.GetCode(err) {
	case errors.ErrCodeConfigNotFound:
		fmt.Fprintf(out, "❌ No vigil configuration found. Create a vigil.yml with your groups.\n")
		return err

	case errors.ErrCodeConfigValidation:
		fmt.Fprintf(out, "❌ Invalid configuration: %v\n", err)
		fmt.Fprintf(out, "Run 'vigil validate' for the full report.\n")
		return err

	case errors.ErrCodeWatchSetup:
		vigilErr, ok := err.(*errors.VigilError)
		if ok && vigilErr.Details["directory"] != nil {
			fmt.Fprintf(out, "❌ Cannot watch directory %s for group '%s'\n",
				vigilErr.Details["directory"], vigilErr.Details["group"])
			fmt.Fprintf(out, "Check that the directory exists and is readable.\n")
		} else {
			// Process-wide setup failures carry no directory detail.
			fmt.Fprintf(out, "❌ %v\n", err)
		}
		return err

	case errors.ErrCodeCommandNotFound:
		if vigilErr, ok := err.(*errors.VigilError); ok {
			fmt.Fprintf(out, "❌ Command not found: %s\n", vigilErr.Details["command"])
			fmt.Fprintf(out, "Check the command path in your vigil.yml.\n")
		}
		return err

	default:
		fmt.Fprintf(out, "❌ Error: %v\n", err)

		// If verbose mode, show full error details
		if h.Verbose {
			if vigilErr, ok := err.(*errors.VigilError); ok {
				fmt.Fprintf(out, "\nError details:\n%s\n", vigilErr.ToJSON())
			}
		}
		return err
	}
}
