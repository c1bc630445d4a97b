package platform

import (
	"errors"
	"fmt"
	"net/http"
)

// Domain-specific errors returned by the Client.
var (
	// ErrRequestFailed is returned when the platform could not be reached or
	// answered with an unexpected status.
	ErrRequestFailed = errors.New("platform: request failed")

	// ErrUnauthorized is returned when the bearer token is missing, invalid
	// or expired.
	ErrUnauthorized = errors.New("platform: unauthorized")

	// ErrNotFound is returned by endpoints that address an entity by id
	// when that entity does not exist. Collection lookups never return it.
	ErrNotFound = errors.New("platform: not found")

	// ErrConflict is returned when a mutation collides with existing state,
	// such as deleting an assigned device without force.
	ErrConflict = errors.New("platform: conflict")

	// ErrNoEndpoint is returned when the client has no platform URL.
	ErrNoEndpoint = errors.New("platform: no endpoint configured")
)

// APIError is a non-2xx response from the platform.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, msg)
}

// Is maps the status onto the package sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrConflict:
		return e.StatusCode == http.StatusConflict
	case ErrRequestFailed:
		return true
	}
	return false
}
