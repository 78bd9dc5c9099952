package model

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig marks a missing or invalid required configuration value.
	ErrConfig = errors.New("configuration error")
	// ErrStateDecode marks a state document that could not be decoded.
	ErrStateDecode = errors.New("state decode error")
	// ErrRunNotFound is returned by run repositories for unknown run IDs.
	ErrRunNotFound = errors.New("run not found")
	ErrRunInvalid  = errors.New("run invalid")
)

// HTTPError reports a non-success response from a remote endpoint.
type HTTPError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string // Truncated response body
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: unexpected status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

// IsHTTPStatus reports whether err is an *HTTPError with the given status code.
func IsHTTPStatus(err error, code int) bool {
	var he *HTTPError
	return errors.As(err, &he) && he.StatusCode == code
}
