package errors

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
)

// Error is the unified library error type.
type Error struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *Error) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new Error with automatic retryable detection.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:      code,
		Message:   message,
		Retryable: IsRetryableCode(code),
	}
}

// --- Common Error Constructors ---

// NotFound creates a new Error for a missing backing file or model.
func NotFound(path string, cause error) *Error {
	return &Error{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("%s does not exist", path),
		Details: map[string]any{"path": path}, Cause: cause,
	}
}

// PermissionDenied creates a new Error for a file that could not be opened.
func PermissionDenied(path string, cause error) *Error {
	return &Error{
		Code: ErrCodePermissionDenied, Message: fmt.Sprintf("%s is not accessible", path),
		Details: map[string]any{"path": path}, Cause: cause,
	}
}

// MalformedInput creates a new Error for corrupt input.
func MalformedInput(message string, cause error) *Error {
	return &Error{
		Code: ErrCodeMalformedInput, Message: message, Cause: cause,
	}
}

// ContractViolation creates a new Error for a caller bug. It is always fatal
// to the current operation.
func ContractViolation(message string) *Error {
	return &Error{
		Code: ErrCodeContractViolation, Message: message,
	}
}

// Upstream wraps a failure from a collaborator or an upstream stage with
// stage-identifying context. An already-coded error passes through unchanged
// so the original code stays visible to callers.
func Upstream(stage string, cause error) error {
	var e *Error
	if stderrors.As(cause, &e) {
		return cause
	}
	return &Error{
		Code: ErrCodeUpstream, Message: fmt.Sprintf("stage %s failed", stage),
		Retryable: true,
		Details:   map[string]any{"stage": stage}, Cause: cause,
	}
}

// Internal creates a new Error for an unexpected internal failure.
func Internal(cause error) *Error {
	return &Error{
		Code: ErrCodeInternal, Message: "an unexpected error occurred", Cause: cause,
	}
}

// FromFile maps an os-level file error to the taxonomy. Unknown errors are
// reported as malformed input since they surface while reading content.
func FromFile(path string, err error) *Error {
	switch {
	case stderrors.Is(err, fs.ErrNotExist), stderrors.Is(err, os.ErrNotExist):
		return NotFound(path, err)
	case stderrors.Is(err, fs.ErrPermission), stderrors.Is(err, os.ErrPermission):
		return PermissionDenied(path, err)
	default:
		return MalformedInput(fmt.Sprintf("cannot read %s", path), err)
	}
}

// CodeOf returns the error code carried by err, or ErrCodeInternal when err
// carries none.
func CodeOf(err error) ErrorCode {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return ErrCodeInternal
}

// HasCode reports whether err carries the given code anywhere in its chain.
func HasCode(err error, code ErrorCode) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// IsRetryable reports whether err is marked retryable.
func IsRetryable(err error) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Retryable
	}
	return false
}
