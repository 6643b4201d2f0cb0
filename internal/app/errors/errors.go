package errors

import (
	"fmt"
)

// Pipeline failure classes. Concrete errors wrap one of these so callers can
// branch with errors.Is regardless of which component produced them.
var (
	// ErrInputRejected marks client-side mistakes: no file, several files,
	// wrong MIME family or an oversized payload.
	ErrInputRejected = New("input rejected")

	// ErrUpstream marks a failed call to the speech-to-text provider.
	ErrUpstream = New("upstream transcription failed")

	// ErrPersistence marks a failed history write.
	ErrPersistence = New("history persistence failed")

	// ErrCleanup marks a failed transient blob removal.
	ErrCleanup = New("blob cleanup failed")
)

// Configuration errors
var (
	ErrMissingAPIKey = New("API key is required")
	ErrInvalidConfig = New("invalid configuration")
)

// Storage errors
var (
	ErrBlobNotFound  = New("blob not found")
	ErrStoreClosed   = New("store is closed")
	ErrUnknownScheme = New("unknown storage scheme")
)

// Error represents a standardized error. Sentinels match by identity, so a
// message that happens to equal a sentinel's text never classifies as it.
type Error struct {
	message string
	cause   error
}

// New creates a new error
func New(message string) *Error {
	return &Error{message: message}
}

// Newf creates a new formatted error
func Newf(format string, args ...interface{}) *Error {
	return &Error{message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		message: message,
		cause:   err,
	}
}

// Wrapf wraps an error with formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &Error{
		message: fmt.Sprintf(format, args...),
		cause:   err,
	}
}

// Rejected builds an input rejection with a client-facing reason.
func Rejected(reason string) error {
	return &Error{message: reason, cause: ErrInputRejected}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Reason returns the message without the wrapped cause.
func (e *Error) Reason() string {
	return e.message
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.cause
}
