package backend

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError represents a failed call to the external backend
type APIError struct {
	Endpoint   string
	StatusCode int // 0 when no response was received
	Message    string
	Cause      error
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("backend error: %s", e.Endpoint)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(": status %d", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

// Temporary reports whether retrying the call later could succeed
func (e *APIError) Temporary() bool {
	return e.StatusCode == 0 || e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// IsClientError reports whether err is a 4xx response from the backend
func IsClientError(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode >= 400 && apiErr.StatusCode < 500
}
