// Package errors provides unified error handling for the data-loading
// library. It implements structured error types with machine-readable codes
// so callers can branch on failure kind (missing file vs. permission vs.
// corrupt input vs. caller bug) instead of matching strings.
package errors
