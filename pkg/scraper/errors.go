package scraper

import "fmt"

// ErrorType categorizes different types of scraper errors
type ErrorType string

const (
	ErrorTypeTimeout    ErrorType = "timeout"
	ErrorTypeExtraction ErrorType = "extraction"
	ErrorTypeCancelled  ErrorType = "cancelled"
	ErrorTypeStore      ErrorType = "store"
)

// ScraperError represents a structured run failure
type ScraperError struct {
	Type    ErrorType
	Message string
	Cause   error
}

// Error implements the error interface
func (e *ScraperError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error unwrapping
func (e *ScraperError) Unwrap() error {
	return e.Cause
}

// IsRetryable returns true if the run is likely to succeed when started again
func (e *ScraperError) IsRetryable() bool {
	return e.Type == ErrorTypeTimeout
}

// UserMessage is what the run's error_message shows.
func (e *ScraperError) UserMessage() string {
	switch e.Type {
	case ErrorTypeTimeout:
		return "Run timed out before the scraper finished."
	case ErrorTypeExtraction:
		return fmt.Sprintf("Failed to extract results: %s", e.Message)
	case ErrorTypeCancelled:
		return "Run was aborted."
	default:
		return e.Message
	}
}

func newTimeoutError(cause error) *ScraperError {
	return &ScraperError{
		Type:    ErrorTypeTimeout,
		Message: "Run timed out",
		Cause:   cause,
	}
}

func newExtractionError(cause error) *ScraperError {
	return &ScraperError{
		Type:    ErrorTypeExtraction,
		Message: cause.Error(),
		Cause:   cause,
	}
}

func newCancelledError(cause error) *ScraperError {
	return &ScraperError{
		Type:    ErrorTypeCancelled,
		Message: "Operation cancelled",
		Cause:   cause,
	}
}

func newStoreError(cause error) *ScraperError {
	return &ScraperError{
		Type:    ErrorTypeStore,
		Message: "Run record unavailable",
		Cause:   cause,
	}
}
