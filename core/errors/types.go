// ABOUTME: Custom error types for the feed engine core
// ABOUTME: Separates network, parse and feed-shape failures so callers can branch on the kind

package errors

import (
	"errors"
	"fmt"
)

// Error kinds reported by Kind.
const (
	KindNetwork         = "network"
	KindParse           = "parse"
	KindValidation      = "validation"
	KindNotFound        = "not_found"
	KindInvalidArgument = "invalid_argument"
	KindUnknown         = "unknown"
)

// NetworkError represents an unreachable host, a timeout or a non-2xx response
type NetworkError struct {
	URL        string
	StatusCode int
	Err        error
}

// Error implements the error interface
func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("network error for %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("network error for %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying transport error
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ParseError represents a body that is not well-formed XML
type ParseError struct {
	URL string
	Err error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("malformed feed xml: %v", e.Err)
	}
	return fmt.Sprintf("malformed feed xml from %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying decoder error
func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError represents well-formed XML that is not a recognizable feed
type ValidationError struct {
	URL     string
	RootTag string
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("not a feed (%s, root <%s>): %s", e.URL, e.RootTag, e.Message)
}

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// InvalidArgumentError represents a rejected caller-supplied value
type InvalidArgumentError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument '%s': %s", e.Field, e.Message)
}

// IsNetwork checks if an error is a NetworkError
func IsNetwork(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// IsParse checks if an error is a ParseError
func IsParse(err error) bool {
	var parseErr *ParseError
	return errors.As(err, &parseErr)
}

// IsValidation checks if an error is a ValidationError
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// IsNotFound checks if an error is a NotFoundError
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr)
}

// IsInvalidArgument checks if an error is an InvalidArgumentError
func IsInvalidArgument(err error) bool {
	var argErr *InvalidArgumentError
	return errors.As(err, &argErr)
}

// Kind names the category of err for logs and failure records
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case IsNetwork(err):
		return KindNetwork
	case IsParse(err):
		return KindParse
	case IsValidation(err):
		return KindValidation
	case IsNotFound(err):
		return KindNotFound
	case IsInvalidArgument(err):
		return KindInvalidArgument
	default:
		return KindUnknown
	}
}

// WrapError wraps an error with additional context
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
