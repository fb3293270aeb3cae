package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies an API failure.
type Kind int

const (
	KindUnknown Kind = iota
	KindUnauthenticated
	KindValidation
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not found"
	default:
		return "unknown"
	}
}

// HTTPError represents a non-2xx HTTP response from the API.
type HTTPError struct {
	StatusCode int
	Message    string
	Kind       Kind
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// IsStatus returns true if err (or any wrapped error) is an HTTPError with the given status code.
func IsStatus(err error, code int) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == code
	}
	return false
}

// IsKind returns true if err (or any wrapped error) is an HTTPError of kind k.
func IsKind(err error, k Kind) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Kind == k
	}
	return false
}

// Classifier maps a failed response to a Kind.
type Classifier func(status int, message string) Kind

// tokenFailureMarkers are the phrases the backend uses when the session
// cookie is missing or stale. The backend has no structured error code for
// this, so the match is on message text and breaks if the wording changes.
var tokenFailureMarkers = []string{"token not found", "token expired"}

// IsTokenFailure reports whether a backend error message says the auth
// token is missing or expired. Matching is case-insensitive.
func IsTokenFailure(message string) bool {
	lower := strings.ToLower(message)
	for _, m := range tokenFailureMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// Classify is the default Classifier. Only token failure messages produce
// KindUnauthenticated, whatever the status code.
func Classify(status int, message string) Kind {
	if IsTokenFailure(message) {
		return KindUnauthenticated
	}
	switch status {
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return KindValidation
	}
	return KindUnknown
}

// errorMessage extracts the human-readable message from an error body.
func errorMessage(body []byte) string {
	var apiErr struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &apiErr) == nil {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		if apiErr.Error != "" {
			return apiErr.Error
		}
	}
	return strings.TrimSpace(string(body))
}
