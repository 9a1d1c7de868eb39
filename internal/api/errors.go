package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrSessionExpired is returned when the refresh token itself is rejected
// by the panel. The session cannot be recovered without a new login.
var ErrSessionExpired = errors.New("session expired")

// FieldError is a single field-level validation failure reported by the
// panel. It is passed through to callers verbatim for presentation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError represents an error returned by the API
type APIError struct {
	StatusCode int
	Message    string
	Fields     []FieldError
}

func (e *APIError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Message)
	}

	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = fmt.Sprintf("%s: %s", f.Field, f.Message)
	}
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, strings.Join(parts, ", "))
}

// IsUnauthorized checks if the error is an unauthorized error
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// IsForbidden checks if the error is a forbidden error
func (e *APIError) IsForbidden() bool {
	return e.StatusCode == http.StatusForbidden
}

// IsNotFound checks if the error is a not found error
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsValidation reports whether the error carries field-level validation
// detail from the panel
func (e *APIError) IsValidation() bool {
	return len(e.Fields) > 0
}

// errorResponse is the panel's error envelope. Detail is either a plain
// message string or a list of field-level validation errors.
type errorResponse struct {
	Detail json.RawMessage `json:"detail"`
}

type validationDetail struct {
	Loc []json.RawMessage `json:"loc"`
	Msg string            `json:"msg"`
}

// parseAPIError builds an APIError from a non-2xx response body. It
// always returns a non-nil error, falling back to the status code when
// the body carries no usable detail.
func parseAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: statusCode,
		Message:    fmt.Sprintf("request failed with status %d", statusCode),
	}

	var envelope errorResponse
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return apiErr
	}

	var message string
	if err := json.Unmarshal(envelope.Detail, &message); err == nil && message != "" {
		apiErr.Message = message
		return apiErr
	}

	var details []validationDetail
	if err := json.Unmarshal(envelope.Detail, &details); err == nil && len(details) > 0 {
		apiErr.Message = "validation failed"
		for _, d := range details {
			apiErr.Fields = append(apiErr.Fields, FieldError{
				Field:   locPath(d.Loc),
				Message: d.Msg,
			})
		}
	}

	return apiErr
}

// locPath joins a validation error location into a dotted field path.
// Locations mix strings and array indices.
func locPath(loc []json.RawMessage) string {
	parts := make([]string, 0, len(loc))
	for _, raw := range loc {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			parts = append(parts, s)
			continue
		}
		var n int
		if err := json.Unmarshal(raw, &n); err == nil {
			parts = append(parts, fmt.Sprintf("%d", n))
		}
	}
	return strings.Join(parts, ".")
}
