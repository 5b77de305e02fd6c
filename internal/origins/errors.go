package origins

import (
	"errors"
	"fmt"
)

// ErrorCategory is the normalized failure taxonomy for origin calls.
type ErrorCategory string

const (
	ErrorTimeout        ErrorCategory = "timeout"
	ErrorCanceled       ErrorCategory = "canceled"
	ErrorBadData        ErrorCategory = "bad_data"
	ErrorAuthentication ErrorCategory = "authentication"
	ErrorOutage         ErrorCategory = "origin_outage"
	ErrorNotFound       ErrorCategory = "not_found"
	ErrorRateLimited    ErrorCategory = "rate_limited"
	ErrorRejected       ErrorCategory = "rejected"
	ErrorInternal       ErrorCategory = "internal"
)

// OriginError wraps an origin failure with its category and the message the
// origin reported, if any.
type OriginError struct {
	Category   ErrorCategory
	Origin     string
	StatusCode int
	Message    string
	Underlying error
}

func (e *OriginError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("origin %s [%s]: %s: %v", e.Origin, e.Category, e.Message, e.Underlying)
	}
	return fmt.Sprintf("origin %s [%s]: %s", e.Origin, e.Category, e.Message)
}

func (e *OriginError) Unwrap() error {
	return e.Underlying
}

// NewOriginError creates a categorized origin error.
func NewOriginError(category ErrorCategory, origin, message string, underlying error) *OriginError {
	return &OriginError{
		Category:   category,
		Origin:     origin,
		Message:    message,
		Underlying: underlying,
	}
}

// CategoryOf extracts the category from an error chain.
func CategoryOf(err error) ErrorCategory {
	var oe *OriginError
	if errors.As(err, &oe) {
		return oe.Category
	}
	return ErrorInternal
}

// MessageOf returns the origin-reported message, falling back to err.Error().
func MessageOf(err error) string {
	var oe *OriginError
	if errors.As(err, &oe) && oe.Message != "" {
		return oe.Message
	}
	return err.Error()
}

// countsAgainstHealth reports whether a failure says something about the
// origin's availability rather than about the request.
func countsAgainstHealth(category ErrorCategory) bool {
	switch category {
	case ErrorTimeout, ErrorOutage, ErrorRateLimited, ErrorBadData:
		return true
	}
	return false
}

// IsRetryable reports whether an operator could reasonably retry the call.
// Nothing in the directory retries automatically.
func (e *OriginError) IsRetryable() bool {
	switch e.Category {
	case ErrorTimeout, ErrorOutage, ErrorRateLimited:
		return true
	}
	return false
}

// IsRetryable reports whether err carries a retryable origin failure.
func IsRetryable(err error) bool {
	var oe *OriginError
	return errors.As(err, &oe) && oe.IsRetryable()
}
