// Package errors provides structured error types and exit codes for simregress.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Exit codes returned by the CLI.
const (
	ExitSuccess          = 0 // Success
	ExitRuntimeError     = 1 // Runtime error or failed comparison
	ExitConfigError      = 2 // Configuration error (invalid config, bad flags)
	ExitEnvironmentError = 3 // Environment error (R runtime or git not available)
)

// ErrorKind represents the type of error.
type ErrorKind int

const (
	KindRuntime ErrorKind = iota
	KindConfig
	KindValidation
	KindEnvironment
	KindMissingInput       // source file or baseline artifact absent
	KindEmptyOutput        // intermediate text file written with zero bytes
	KindArtifactWrite      // serialized artifact did not materialize
	KindMissingCounterpart // baseline key has no candidate artifact
	KindValueMismatch      // ordered sequence or count divergence
)

var kindNames = map[ErrorKind]string{
	KindRuntime:            "runtime",
	KindConfig:             "config",
	KindValidation:         "validation",
	KindEnvironment:        "environment",
	KindMissingInput:       "missing-input",
	KindEmptyOutput:        "empty-output",
	KindArtifactWrite:      "artifact-write",
	KindMissingCounterpart: "missing-counterpart",
	KindValueMismatch:      "value-mismatch",
}

// String returns the kind's short name, as stored in run history.
func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is the base error type for simregress.
type Error struct {
	Kind    ErrorKind
	Message string
	Path    string // File path if applicable
	Cause   error  // Underlying error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// ExitCode returns the appropriate exit code for this error.
func (e *Error) ExitCode() int {
	switch e.Kind {
	case KindConfig, KindValidation:
		return ExitConfigError
	case KindEnvironment:
		return ExitEnvironmentError
	default:
		return ExitRuntimeError
	}
}

// New creates a new runtime error.
func New(message string) *Error {
	return &Error{
		Kind:    KindRuntime,
		Message: message,
	}
}

// Newf creates a new runtime error with formatting.
func Newf(format string, args ...interface{}) *Error {
	return New(fmt.Sprintf(format, args...))
}

// Config creates a new configuration error.
func Config(message string) *Error {
	return &Error{
		Kind:    KindConfig,
		Message: message,
	}
}

// Configf creates a new configuration error with formatting.
func Configf(format string, args ...interface{}) *Error {
	return Config(fmt.Sprintf(format, args...))
}

// Environment creates a new environment error.
func Environment(message string, cause error) *Error {
	return &Error{
		Kind:    KindEnvironment,
		Message: message,
		Cause:   cause,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) *Error {
	return &Error{
		Kind:    KindRuntime,
		Message: message,
		Cause:   err,
	}
}

// MissingInput reports a source file or artifact that does not exist.
func MissingInput(path, message string) *Error {
	return &Error{
		Kind:    KindMissingInput,
		Path:    path,
		Message: message,
	}
}

// EmptyOutput reports an intermediate file that was written empty.
func EmptyOutput(path string) *Error {
	return &Error{
		Kind:    KindEmptyOutput,
		Path:    path,
		Message: "empty output",
	}
}

// ArtifactWrite reports an artifact that was not written.
func ArtifactWrite(path string, cause error) *Error {
	return &Error{
		Kind:    KindArtifactWrite,
		Path:    path,
		Message: "artifact was not written",
		Cause:   cause,
	}
}

// Mismatch creates a value-mismatch error.
func Mismatch(message string) *Error {
	return &Error{
		Kind:    KindValueMismatch,
		Message: message,
	}
}

// KindOf returns the kind of the first *Error in err's chain, or KindRuntime.
func KindOf(err error) ErrorKind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return KindRuntime
}

// Is reports whether err carries the given kind.
func Is(err error, kind ErrorKind) bool {
	var e *Error
	return stderrors.As(err, &e) && e.Kind == kind
}

// GetExitCode returns the exit code for an error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var e *Error
	if stderrors.As(err, &e) {
		return e.ExitCode()
	}
	return ExitRuntimeError
}
