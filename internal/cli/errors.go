// Package cli implements the docsectiond command-line interface.
package cli

// Error codes for structured error responses. These mirror
// internal/apperr.Kind but are stable CLI-facing strings an agent script
// can rely on independent of the Go error type.
const (
	ErrProjectRootNotFound = "PROJECT_ROOT_NOT_FOUND"
	ErrConfigInvalid       = "CONFIG_INVALID"
	ErrSectionNotFound     = "SECTION_NOT_FOUND"
	ErrInvalidInput        = "INVALID_INPUT"
	ErrMissingArgument     = "MISSING_ARGUMENT"
	ErrStaleEdit           = "STALE_EDIT"
	ErrIOError             = "IO_ERROR"
	ErrInternal            = "INTERNAL_ERROR"
)
