package client

import (
	"errors"
	"fmt"
)

// ErrMalformedResponse means the service answered with a body that is not a valid envelope.
var ErrMalformedResponse = errors.New("decode response")

// HTTPError represents a non-2xx HTTP response that did not carry a service envelope.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// APIError is a business failure reported by the service with status "error".
// Message is the server-supplied text meant for the player.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return "service error: " + e.Message
}

// IsStatus returns true if err (or any wrapped error) is an HTTPError with the given status code.
func IsStatus(err error, code int) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == code
	}
	return false
}

// IsBusiness reports whether err is a service-reported business failure.
func IsBusiness(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}
