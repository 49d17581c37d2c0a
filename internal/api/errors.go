package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedResponse marks a 2xx response whose body did not decode into
// the declared shape. Callers can match it with errors.Is.
var ErrMalformedResponse = errors.New("malformed response body")

// Error is the uniform failure the client raises for non-success statuses.
// Message carries the best-effort server explanation.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string { return e.Message }

// errorBody mirrors the service's error envelope. FastAPI-style services use
// "detail"; others use "message".
type errorBody struct {
	Detail  string `json:"detail"`
	Message string `json:"message"`
}

// newStatusError normalizes a non-2xx response into *Error. Precedence:
// detail, then message, then a generic status string.
func newStatusError(statusCode int, body []byte) *Error {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		if msg := strings.TrimSpace(eb.Detail); msg != "" {
			return &Error{StatusCode: statusCode, Message: msg}
		}
		if msg := strings.TrimSpace(eb.Message); msg != "" {
			return &Error{StatusCode: statusCode, Message: msg}
		}
	}
	return &Error{StatusCode: statusCode, Message: fmt.Sprintf("HTTP error! status: %d", statusCode)}
}

// IsStatus reports whether err is an *Error with the given status code.
func IsStatus(err error, statusCode int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == statusCode
}
