package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Environmental errors reported at construction or load time.
const (
	// ErrCodeNotFound indicates a backing file or model is missing.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodePermissionDenied indicates a backing file could not be opened.
	ErrCodePermissionDenied ErrorCode = "PERMISSION_DENIED"
	// ErrCodeMalformedInput indicates a corrupt model, tape, or checkpoint.
	ErrCodeMalformedInput ErrorCode = "MALFORMED_INPUT"
)

// Caller errors. Never retried, never swallowed.
const (
	// ErrCodeContractViolation indicates a misuse of the source lifecycle,
	// such as reloading a position on a source that has already advanced,
	// or reading past the end of a tape.
	ErrCodeContractViolation ErrorCode = "CONTRACT_VIOLATION"
)

// Propagated errors.
const (
	// ErrCodeUpstream indicates a failure propagated from a collaborator
	// or an upstream pipeline stage.
	ErrCodeUpstream ErrorCode = "UPSTREAM_FAILURE"
	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeUpstream: true,
}

// IsRetryableCode returns true if the error code indicates a condition that
// may clear on retry. Contract violations and corrupt input never do.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
