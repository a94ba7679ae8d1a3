package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "message only",
			err:      &Error{Message: "something failed"},
			expected: "something failed",
		},
		{
			name:     "with path",
			err:      &Error{Path: "/data/1-totals.qs", Message: "does not exist"},
			expected: "/data/1-totals.qs: does not exist",
		},
		{
			name:     "with cause",
			err:      &Error{Message: "read failed", Cause: errors.New("eof")},
			expected: "read failed: eof",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := &Error{
		Message: "wrapper",
		Cause:   cause,
	}

	if got := err.Unwrap(); got != cause {
		t.Errorf("Unwrap() = %v, want %v", got, cause)
	}

	errNoCause := &Error{Message: "no cause"}
	if got := errNoCause.Unwrap(); got != nil {
		t.Errorf("Unwrap() = %v, want nil", got)
	}
}

func TestError_ExitCode(t *testing.T) {
	tests := []struct {
		name     string
		kind     ErrorKind
		expected int
	}{
		{"runtime", KindRuntime, ExitRuntimeError},
		{"config", KindConfig, ExitConfigError},
		{"validation", KindValidation, ExitConfigError},
		{"environment", KindEnvironment, ExitEnvironmentError},
		{"missing input", KindMissingInput, ExitRuntimeError},
		{"empty output", KindEmptyOutput, ExitRuntimeError},
		{"value mismatch", KindValueMismatch, ExitRuntimeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &Error{Kind: tt.kind}
			if got := err.ExitCode(); got != tt.expected {
				t.Errorf("ExitCode() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		kind ErrorKind
	}{
		{"New", New("x"), KindRuntime},
		{"Newf", Newf("x %d", 1), KindRuntime},
		{"Config", Config("x"), KindConfig},
		{"Configf", Configf("x %q", "y"), KindConfig},
		{"Environment", Environment("x", nil), KindEnvironment},
		{"MissingInput", MissingInput("/a", "x"), KindMissingInput},
		{"EmptyOutput", EmptyOutput("/a.csv"), KindEmptyOutput},
		{"ArtifactWrite", ArtifactWrite("/a.arrow", nil), KindArtifactWrite},
		{"Mismatch", Mismatch("x"), KindValueMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", tt.err.Kind, tt.kind)
			}
		})
	}
}

func TestEmptyOutput_Message(t *testing.T) {
	err := EmptyOutput("/tmp/1-totals.csv")
	expected := "/tmp/1-totals.csv: empty output"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("original error")
	err := Wrap(cause, "wrapped message")

	if err.Kind != KindRuntime {
		t.Errorf("Kind = %v, want %v", err.Kind, KindRuntime)
	}
	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should find original cause")
	}
}

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("convert: %w", EmptyOutput("/a.csv"))
	if got := KindOf(wrapped); got != KindEmptyOutput {
		t.Errorf("KindOf() = %v, want %v", got, KindEmptyOutput)
	}
	if got := KindOf(errors.New("plain")); got != KindRuntime {
		t.Errorf("KindOf(plain) = %v, want %v", got, KindRuntime)
	}
	if !Is(wrapped, KindEmptyOutput) {
		t.Error("Is() should match wrapped kind")
	}
	if Is(wrapped, KindArtifactWrite) {
		t.Error("Is() should not match a different kind")
	}
}

func TestErrorKind_String(t *testing.T) {
	if got := KindMissingCounterpart.String(); got != "missing-counterpart" {
		t.Errorf("String() = %q, want %q", got, "missing-counterpart")
	}
	if got := ErrorKind(99).String(); got != "kind(99)" {
		t.Errorf("String() = %q, want %q", got, "kind(99)")
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil error", nil, ExitSuccess},
		{"runtime", New("runtime"), ExitRuntimeError},
		{"config", Config("config"), ExitConfigError},
		{"validation", &Error{Kind: KindValidation}, ExitConfigError},
		{"wrapped environment", fmt.Errorf("ctx: %w", Environment("no Rscript", nil)), ExitEnvironmentError},
		{"generic error", errors.New("generic"), ExitRuntimeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetExitCode(tt.err); got != tt.expected {
				t.Errorf("GetExitCode() = %d, want %d", got, tt.expected)
			}
		})
	}
}
