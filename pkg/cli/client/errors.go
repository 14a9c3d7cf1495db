package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ErrorType categorizes API failures
type ErrorType string

const (
	ErrorTypeNetwork         ErrorType = "network"
	ErrorTypeTimeout         ErrorType = "timeout"
	ErrorTypeCancelled       ErrorType = "cancelled"
	ErrorTypeHTTP            ErrorType = "http"
	ErrorTypeUnauthorized    ErrorType = "unauthorized"
	ErrorTypeNotFound        ErrorType = "not_found"
	ErrorTypeInvalidResponse ErrorType = "invalid_response"
)

// APIError represents a structured failure talking to the backend
type APIError struct {
	Type       ErrorType
	StatusCode int
	Detail     string // detail or error field of the JSON body, when present
	Message    string
	Cause      error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("API error (%d): %s", e.StatusCode, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error unwrapping
func (e *APIError) Unwrap() error {
	return e.Cause
}

// UserMessage returns a user-friendly error message
func (e *APIError) UserMessage() string {
	switch e.Type {
	case ErrorTypeNetwork:
		return "Could not reach the Scrapi API. Check base_url and your connection."
	case ErrorTypeTimeout:
		return "The request timed out. Please try again."
	case ErrorTypeCancelled:
		return "Request cancelled."
	case ErrorTypeUnauthorized:
		return "Not authorized. Set a valid token with: scrapi config set api.token=<token>"
	case ErrorTypeNotFound:
		if e.Detail != "" {
			return e.Detail
		}
		return "Not found."
	case ErrorTypeInvalidResponse:
		return "Received an invalid response from the API."
	default:
		if e.Detail != "" {
			return e.Detail
		}
		return e.Message
	}
}

// IsCancelled reports whether err comes from a cancelled request.
// Superseded and torn-down fetches are dropped silently on this basis.
func IsCancelled(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Type == ErrorTypeCancelled
	}
	return errors.Is(err, context.Canceled)
}

// UserMessage returns the friendly message for any error.
func UserMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.UserMessage()
	}
	return err.Error()
}

// classifyTransportError maps an http.Client error onto an APIError
func classifyTransportError(err error) *APIError {
	switch {
	case errors.Is(err, context.Canceled):
		return newCancelledError(err)
	case errors.Is(err, context.DeadlineExceeded):
		return newTimeoutError(err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return newTimeoutError(err)
	}
	return newNetworkError(err)
}

func newHTTPError(status int, detail string) *APIError {
	t := ErrorTypeHTTP
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		t = ErrorTypeUnauthorized
	case http.StatusNotFound:
		t = ErrorTypeNotFound
	}
	msg := detail
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &APIError{
		Type:       t,
		StatusCode: status,
		Detail:     detail,
		Message:    msg,
	}
}

func newTimeoutError(cause error) *APIError {
	return &APIError{
		Type:    ErrorTypeTimeout,
		Message: "Request timed out",
		Cause:   cause,
	}
}

func newNetworkError(cause error) *APIError {
	return &APIError{
		Type:    ErrorTypeNetwork,
		Message: "Network error",
		Cause:   cause,
	}
}

func newCancelledError(cause error) *APIError {
	return &APIError{
		Type:    ErrorTypeCancelled,
		Message: "Operation cancelled",
		Cause:   cause,
	}
}

func newInvalidResponseError(message string, cause error) *APIError {
	return &APIError{
		Type:    ErrorTypeInvalidResponse,
		Message: message,
		Cause:   cause,
	}
}
