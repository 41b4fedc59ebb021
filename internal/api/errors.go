package api

import (
	"errors"
	"fmt"
)

// Sentinel errors for the two failure classes callers branch on.
var (
	// ErrNetwork indicates the request never produced an HTTP response.
	ErrNetwork = errors.New("backend unreachable")
	// ErrAuth indicates the backend rejected the session (401/403). The
	// session collaborator is responsible for logout; this is never retried.
	ErrAuth = errors.New("session rejected")
)

// ServerError is any non-2xx response other than an auth rejection.
type ServerError struct {
	Body   string
	Status int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Body)
}

// MalformedResponseError indicates a list response that matched neither a
// bare array nor any of the known wrapper keys.
type MalformedResponseError struct {
	Endpoint string
	Tried    []string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response from %s: expected a JSON array or one of %v", e.Endpoint, e.Tried)
}
