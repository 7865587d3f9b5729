package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidInput, "test message: %s", "value")

	if err.Code != ErrCodeInvalidInput {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidInput)
	}

	if err.Message != "test message: value" {
		t.Errorf("Message = %v, want %v", err.Message, "test message: value")
	}

	expected := "INVALID_INPUT: test message: value"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeHostFailure, cause, "refresh view")

	if err.Code != ErrCodeHostFailure {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeHostFailure)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeInvalidInput, "test"),
			code:     ErrCodeInvalidInput,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeInvalidInput, "test"),
			code:     ErrCodeHostFailure,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeHostFailure, New(ErrCodeInvalidInput, "inner"), "outer"),
			code:     ErrCodeHostFailure,
			expected: true,
		},
		{
			name:     "inner code of wrapped error",
			err:      Wrap(ErrCodeHostFailure, New(ErrCodeInvalidInput, "inner"), "outer"),
			code:     ErrCodeInvalidInput,
			expected: true,
		},
		{
			name:     "typed error",
			err:      &EmptyBatchError{Layer: "parcels"},
			code:     ErrCodeEmptyBatch,
			expected: true,
		},
		{
			name:     "typed error behind fmt wrap",
			err:      fmt.Errorf("run: %w", &UnsupportedFormatError{Format: "TIFF"}),
			code:     ErrCodeUnsupported,
			expected: true,
		},
		{
			name:     "joined errors",
			err:      errors.Join(&DuplicateLabelError{Values: []string{"a"}}, &DuplicateFilenameError{Values: []string{"b"}}),
			code:     ErrCodeDuplicateFilename,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeLayerNotFound, "test"),
			expected: ErrCodeLayerNotFound,
		},
		{
			name:     "typed error",
			err:      &DuplicateLabelError{Values: []string{"x"}},
			expected: ErrCodeDuplicateLabel,
		},
		{
			name:     "first of joined",
			err:      errors.Join(&DuplicateLabelError{}, &DuplicateFilenameError{}),
			expected: ErrCodeDuplicateLabel,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			expected: "",
		},
		{
			name:     "nil",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidInput, "friendly message"),
			expected: "friendly message",
		},
		{
			name:     "plain error",
			err:      errors.New("plain error"),
			expected: "plain error",
		},
		{
			name:     "typed error",
			err:      &DuplicateLabelError{Values: []string{"Paris", "Lyon"}},
			expected: `feature values are not unique: "Paris", "Lyon"`,
		},
		{
			name:     "wrapped keeps cause without codes",
			err:      Wrap(ErrCodeHostFailure, New(ErrCodeFrameNotFound, "frame %q", "Inset"), "set extent"),
			expected: `set extent: frame "Inset"`,
		},
		{
			name: "joined errors one per line",
			err: errors.Join(
				New(ErrCodeHostFailure, "export failed"),
				New(ErrCodeHostFailure, "restore filter"),
			),
			expected: "export failed\nrestore filter",
		},
		{
			name:     "nil",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestTypedErrors(t *testing.T) {
	t.Run("empty batch with layer", func(t *testing.T) {
		err := &EmptyBatchError{Layer: "parcels"}
		expected := `layer "parcels" yielded no features: common scale is undefined`
		if err.Error() != expected {
			t.Errorf("Error() = %v, want %v", err.Error(), expected)
		}
	})

	t.Run("empty batch without layer", func(t *testing.T) {
		err := &EmptyBatchError{}
		if err.Error() != "no features: common scale is undefined" {
			t.Errorf("Error() = %v", err.Error())
		}
	})

	t.Run("unsupported format", func(t *testing.T) {
		err := &UnsupportedFormatError{Format: "GIF"}
		if err.Code() != ErrCodeUnsupported {
			t.Errorf("Code() = %v, want %v", err.Code(), ErrCodeUnsupported)
		}
	})

	t.Run("errors.As through join", func(t *testing.T) {
		joined := errors.Join(
			&DuplicateLabelError{Values: []string{"A"}},
			&DuplicateFilenameError{Values: []string{"A.B"}},
		)
		var dl *DuplicateLabelError
		if !errors.As(joined, &dl) || dl.Values[0] != "A" {
			t.Errorf("errors.As DuplicateLabelError failed: %v", joined)
		}
		var df *DuplicateFilenameError
		if !errors.As(joined, &df) || df.Values[0] != "A.B" {
			t.Errorf("errors.As DuplicateFilenameError failed: %v", joined)
		}
	})
}
