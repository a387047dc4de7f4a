package errors

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific error condition
type ErrorCode string

const (
	// Configuration errors (fatal at startup)
	ErrCodeConfigNotFound   ErrorCode = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid    ErrorCode = "CONFIG_INVALID"
	ErrCodeConfigValidation ErrorCode = "CONFIG_VALIDATION"

	// Watch setup errors (fatal for a single group, not the process)
	ErrCodeWatchSetup ErrorCode = "WATCH_SETUP"

	// Command execution errors (reported per run, never fatal)
	ErrCodeCommandFailed   ErrorCode = "COMMAND_FAILED"
	ErrCodeCommandNotFound ErrorCode = "COMMAND_NOT_FOUND"
	ErrCodeCommandSpawn    ErrorCode = "COMMAND_SPAWN"

	// General errors
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// VigilError represents a structured error with context
type VigilError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

// Error implements the error interface
func (e *VigilError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *VigilError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error
func (e *VigilError) WithDetail(key string, value interface{}) *VigilError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// ToJSON converts the error to JSON
func (e *VigilError) ToJSON() string {
	data, _ := json.MarshalIndent(e, "", "  ")
	return string(data)
}

// New creates a new VigilError
func New(code ErrorCode, message string) *VigilError {
	return &VigilError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a VigilError
func Wrap(err error, code ErrorCode, message string) *VigilError {
	return &VigilError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Is checks if an error is a specific VigilError code
func Is(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}

	vigilErr, ok := err.(*VigilError)
	if !ok {
		// Try to unwrap
		if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
			return Is(unwrapper.Unwrap(), code)
		}
		return false
	}

	return vigilErr.Code == code
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	if err == nil {
		return ""
	}

	vigilErr, ok := err.(*VigilError)
	if !ok {
		// Try to unwrap
		if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
			return GetCode(unwrapper.Unwrap())
		}
		return ""
	}

	return vigilErr.Code
}
