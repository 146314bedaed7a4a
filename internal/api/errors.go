package api

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	errorBodyLimit = 200
	parseBodyLimit = 300
)

// APIError is returned for any non-2xx status and for a 2xx body that is not valid JSON
// (reported as 422). Transport failures are plain wrapped errors, never APIError.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API Error: %d", e.Status)
	}
	return e.Message
}

func (e *APIError) IsNotFound() bool {
	return e.Status == http.StatusNotFound
}

// AsAPIError unwraps err to an *APIError.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

func newHTTPError(status int, statusText string, body []byte) *APIError {
	msg := statusText
	if len(body) > 0 {
		msg = statusText + ": " + truncate(string(body), errorBodyLimit)
	}
	return &APIError{Status: status, Message: msg}
}

func newParseError(body []byte) *APIError {
	return &APIError{
		Status:  http.StatusUnprocessableEntity,
		Message: "Invalid JSON response from server. Response: " + truncate(string(body), parseBodyLimit),
	}
}

// truncate keeps the first n characters of s and marks the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
