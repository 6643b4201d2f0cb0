package api

import (
	"fmt"

	apperrors "voicescribe/internal/app/errors"
)

// ExternalServiceError is an error status returned by the provider.
type ExternalServiceError struct {
	// Provider is the name of the integration (e.g., "groq", "gemini").
	Provider string

	// StatusCode is the HTTP status code the provider returned.
	StatusCode int

	// Message is the provider's error message.
	Message string
}

// Error implements the error interface.
func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s API error (%d): %s", e.Provider, e.StatusCode, e.Message)
}

// Unwrap lets errors.Is match apperrors.ErrUpstream.
func (e *ExternalServiceError) Unwrap() error {
	return apperrors.ErrUpstream
}

// UpstreamError is a provider failure without a usable status, such as a
// transport error, a timeout or an undecodable response.
type UpstreamError struct {
	Provider string
	Err      error
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Provider, e.Err)
}

// Unwrap returns both the cause and apperrors.ErrUpstream.
func (e *UpstreamError) Unwrap() []error {
	return []error{e.Err, apperrors.ErrUpstream}
}
