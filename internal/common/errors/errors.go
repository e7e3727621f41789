// Package errors provides the standardized error taxonomy for the voice bot.
//
// Validation rejections and retry exhaustion are deliberately NOT errors: they
// are ordinary control-flow outcomes handled by the flow engine. Only genuine
// collaborator or infrastructure failures travel as error values.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Collaborator failures
	ErrCodeSTTUnavailable     ErrorCode = "STT_UNAVAILABLE"
	ErrCodeSTTNoSpeech        ErrorCode = "STT_NO_SPEECH"
	ErrCodeTTSSynthesisFailed ErrorCode = "TTS_SYNTHESIS_FAILED"
	ErrCodeLLMUnavailable     ErrorCode = "LLM_UNAVAILABLE"
	ErrCodeMemoryUnavailable  ErrorCode = "MEMORY_UNAVAILABLE"

	// Internal invariant violations
	ErrCodeUnknownState ErrorCode = "UNKNOWN_STATE"

	// Downstream side effects after a completed application
	ErrCodeApplicationSaveFailed  ErrorCode = "APPLICATION_SAVE_FAILED"
	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"

	// Configuration
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error { return e.cause }

// New creates a StandardError with the given code and message.
func New(code ErrorCode, message string) *StandardError {
	return &StandardError{Code: code, Message: message, Timestamp: time.Now()}
}

// Wrap creates a StandardError that wraps an underlying cause.
func Wrap(code ErrorCode, message string, cause error) *StandardError {
	e := New(code, message)
	e.cause = cause
	if cause != nil {
		e.Details = cause.Error()
	}
	return e
}

// Retryable marks the error as transient.
func (e *StandardError) WithRetryable() *StandardError {
	e.Retryable = true
	return e
}

// WithMetadata attaches context visible in logs.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// CodeOf extracts the ErrorCode from err, or empty when err is not a
// StandardError.
func CodeOf(err error) ErrorCode {
	var se *StandardError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

// Is reports whether err carries the given code.
func Is(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}
