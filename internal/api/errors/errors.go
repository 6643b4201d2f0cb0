package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"voicescribe/internal/app/api"
	apperrors "voicescribe/internal/app/errors"
)

// ErrorKind represents different types of API errors
type ErrorKind string

const (
	KindValidation         ErrorKind = "validation"
	KindBadRequest         ErrorKind = "bad_request"
	KindPayloadTooLarge    ErrorKind = "payload_too_large"
	KindNotFound           ErrorKind = "not_found"
	KindUpstream           ErrorKind = "upstream"
	KindInternal           ErrorKind = "internal"
	KindServiceUnavailable ErrorKind = "service_unavailable"
)

// APIError is the JSON body of every failed request. The message is
// serialized as "error" so clients written against {"error": "..."} keep
// working.
type APIError struct {
	Kind           ErrorKind         `json:"kind"`
	Message        string            `json:"error"`
	Details        map[string]string `json:"details,omitempty"`
	RequestID      string            `json:"request_id,omitempty"`
	Provider       string            `json:"provider,omitempty"`
	UpstreamStatus int               `json:"upstream_status,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// HTTPStatus returns the appropriate HTTP status code for the error kind
func (e *APIError) HTTPStatus() int {
	switch e.Kind {
	case KindValidation, KindBadRequest:
		return http.StatusBadRequest
	case KindPayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case KindNotFound:
		return http.StatusNotFound
	case KindUpstream:
		// Provider 5xx passes through; anything else is our gateway failing.
		if e.UpstreamStatus >= 500 && e.UpstreamStatus <= 599 {
			return e.UpstreamStatus
		}
		return http.StatusBadGateway
	case KindServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// NewValidationError creates a validation error with field details
func NewValidationError(message string, fields map[string]string) *APIError {
	return &APIError{
		Kind:    KindValidation,
		Message: message,
		Details: fields,
	}
}

// NewBadRequestError creates a bad request error
func NewBadRequestError(message string) *APIError {
	return &APIError{
		Kind:    KindBadRequest,
		Message: message,
	}
}

// NewPayloadTooLargeError reports an upload above the configured cap.
func NewPayloadTooLargeError(limit int64) *APIError {
	return &APIError{
		Kind:    KindPayloadTooLarge,
		Message: fmt.Sprintf("audio exceeds the %d byte upload limit", limit),
	}
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *APIError {
	return &APIError{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

// NewInternalError creates an internal server error
func NewInternalError(message string) *APIError {
	return &APIError{
		Kind:    KindInternal,
		Message: message,
	}
}

// NewServiceUnavailableError creates a service unavailable error
func NewServiceUnavailableError(message string) *APIError {
	return &APIError{
		Kind:    KindServiceUnavailable,
		Message: message,
	}
}

// UpstreamFailureMessage is sent when a provider call failed without a status
// of its own.
const UpstreamFailureMessage = "Transcription provider request failed"

// NewUpstreamError carries the provider's status and message to the client.
func NewUpstreamError(provider string, status int, message string) *APIError {
	return &APIError{
		Kind:           KindUpstream,
		Message:        message,
		Provider:       provider,
		UpstreamStatus: status,
	}
}

// FromError maps a domain error onto the API taxonomy. Unknown errors become
// a generic internal error so nothing internal leaks to clients; the bool
// result reports whether err was recognized.
func FromError(err error) (*APIError, bool) {
	if err == nil {
		return nil, true
	}

	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		return apiErr, true
	}

	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		return NewPayloadTooLargeError(tooLarge.Limit), true
	}

	if stderrors.Is(err, apperrors.ErrInputRejected) {
		message := err.Error()
		var reason *apperrors.Error
		if stderrors.As(err, &reason) {
			message = reason.Reason()
		}
		return NewBadRequestError(message), true
	}

	var ext *api.ExternalServiceError
	if stderrors.As(err, &ext) {
		return NewUpstreamError(ext.Provider, ext.StatusCode, ext.Message), true
	}

	// Without a provider status the cause is transport or storage detail,
	// which stays in the server log.
	var up *api.UpstreamError
	if stderrors.As(err, &up) {
		return NewUpstreamError(up.Provider, 0, UpstreamFailureMessage), true
	}

	if stderrors.Is(err, apperrors.ErrUpstream) {
		return NewUpstreamError("", 0, UpstreamFailureMessage), true
	}

	return NewInternalError("Internal server error"), false
}
