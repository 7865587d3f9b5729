// Package errors provides structured error types for featexport.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the batch runner
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - DUPLICATE_*: Uniqueness violations in the feature catalog
//   - *_NOT_FOUND: Missing layers, fields or frames
//   - HOST_FAILURE: Anything the map host or rasterizer reported
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "invalid dpi: %d", dpi)
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // Handle validation error
//	}
//
//	// Wrap host failures
//	err := errors.Wrap(errors.ErrCodeHostFailure, origErr, "set extent for %q", label)
//
// The batch taxonomy ([DuplicateLabelError], [DuplicateFilenameError],
// [EmptyBatchError], [UnsupportedFormatError]) uses dedicated types so callers
// can inspect the offending values with errors.As.
package errors

import (
	"fmt"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidFilter Code = "INVALID_FILTER"

	// Batch taxonomy
	ErrCodeDuplicateLabel    Code = "DUPLICATE_LABEL"
	ErrCodeDuplicateFilename Code = "DUPLICATE_FILENAME"
	ErrCodeEmptyBatch        Code = "EMPTY_BATCH"
	ErrCodeUnsupported       Code = "UNSUPPORTED_FORMAT"

	// Resource not found errors
	ErrCodeNotFound      Code = "NOT_FOUND"
	ErrCodeLayerNotFound Code = "LAYER_NOT_FOUND"
	ErrCodeFieldNotFound Code = "FIELD_NOT_FOUND"
	ErrCodeFrameNotFound Code = "FRAME_NOT_FOUND"

	// Host errors
	ErrCodeHostFailure Code = "HOST_FAILURE"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// coded is implemented by every typed error in this package.
type coded interface {
	error
	Code() Code
}

// Is reports whether err carries the given error code.
// It walks the error chain (including joined errors) looking for an *Error
// or a typed error with a matching code.
func Is(err error, code Code) bool {
	if err == nil {
		return false
	}
	found := false
	walk(err, func(e error) bool {
		if c := codeOf(e); c == code {
			found = true
			return false
		}
		return true
	})
	return found
}

// GetCode extracts the first error code found in the chain.
// Returns empty string if no coded error is present.
func GetCode(err error) Code {
	var c Code
	walk(err, func(e error) bool {
		c = codeOf(e)
		return c == ""
	})
	return c
}

// UserMessage returns a user-friendly message for the error.
// Codes are dropped from every *Error in the chain while the causes are kept,
// and the branches of a joined error are listed one per line.
// Other errors return their error string as-is.
func UserMessage(err error) string {
	switch e := err.(type) {
	case nil:
		return ""
	case *Error:
		if e.Cause == nil {
			return e.Message
		}
		return e.Message + ": " + UserMessage(e.Cause)
	case interface{ Unwrap() []error }:
		var lines []string
		for _, inner := range e.Unwrap() {
			if inner != nil {
				lines = append(lines, UserMessage(inner))
			}
		}
		return strings.Join(lines, "\n")
	}
	return err.Error()
}

func codeOf(err error) Code {
	switch e := err.(type) {
	case *Error:
		return e.Code
	case coded:
		return e.Code()
	}
	return ""
}

// walk visits err and its unwrapped descendants depth-first until visit
// returns false.
func walk(err error, visit func(error) bool) bool {
	if err == nil {
		return true
	}
	if !visit(err) {
		return false
	}
	switch u := err.(type) {
	case interface{ Unwrap() []error }:
		for _, e := range u.Unwrap() {
			if !walk(e, visit) {
				return false
			}
		}
	case interface{ Unwrap() error }:
		return walk(u.Unwrap(), visit)
	}
	return true
}

// DuplicateLabelError reports feature labels that occur more than once.
type DuplicateLabelError struct {
	Values []string // each repeated label, once
}

// Error implements the error interface.
func (e *DuplicateLabelError) Error() string {
	return fmt.Sprintf("feature values are not unique: %s", quoteAll(e.Values))
}

// Code returns the error code for this error type.
func (e *DuplicateLabelError) Code() Code { return ErrCodeDuplicateLabel }

// DuplicateFilenameError reports sanitized filename stems that collide.
type DuplicateFilenameError struct {
	Values []string // each colliding stem, once
}

// Error implements the error interface.
func (e *DuplicateFilenameError) Error() string {
	return fmt.Sprintf("output filenames would not be unique: %s", quoteAll(e.Values))
}

// Code returns the error code for this error type.
func (e *DuplicateFilenameError) Code() Code { return ErrCodeDuplicateFilename }

// EmptyBatchError is returned when a common scale is requested over zero features.
type EmptyBatchError struct {
	Layer string
}

// Error implements the error interface.
func (e *EmptyBatchError) Error() string {
	if e.Layer != "" {
		return fmt.Sprintf("layer %q yielded no features: common scale is undefined", e.Layer)
	}
	return "no features: common scale is undefined"
}

// Code returns the error code for this error type.
func (e *EmptyBatchError) Code() Code { return ErrCodeEmptyBatch }

// UnsupportedFormatError is returned for image formats other than PNG and JPEG.
type UnsupportedFormatError struct {
	Format string
}

// Error implements the error interface.
func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("invalid image type for export: %q (must be PNG or JPEG)", e.Format)
}

// Code returns the error code for this error type.
func (e *UnsupportedFormatError) Code() Code { return ErrCodeUnsupported }

func quoteAll(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return strings.Join(quoted, ", ")
}
