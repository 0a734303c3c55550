package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is the explicit error-kind value that crosses the Admin Surface.
// Handlers return it instead of writing responses themselves; the error
// boundary is the single place an Error is translated to a wire response.
type Error struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// E constructs an [Error] with the given wire status, machine code and
// user-visible message.
func E(status int, code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message}
}

// NotFound returns a 404 [Error] with the standard not-found representation.
func NotFound(message string) *Error {
	return E(http.StatusNotFound, "not_found", message)
}

// Sentinel errors for well-known failure conditions that cross package
// boundaries. Callers should use [errors.Is] to match these.
var (
	// ErrIDTaken indicates the requested tenant ID already has a live
	// session.
	ErrIDTaken = E(http.StatusConflict, "id_taken", "tenant id is unavailable")

	// ErrRegistryClosed is returned by provisioning calls after shutdown
	// has begun.
	ErrRegistryClosed = errors.New("registry closed")

	// ErrSessionClosed means the tenant session was evicted while a
	// request was waiting on it.
	ErrSessionClosed = errors.New("tenant session closed")
)

// StatusOf extracts the HTTP status carried by err, defaulting to 500 when
// the error carries none.
func StatusOf(err error) int {
	var de *Error
	if errors.As(err, &de) && de.Status != 0 {
		return de.Status
	}
	return http.StatusInternalServerError
}

// CodeOf extracts the machine-readable code carried by err, defaulting to
// "internal" when the error carries none.
func CodeOf(err error) string {
	var de *Error
	if errors.As(err, &de) && de.Code != "" {
		return de.Code
	}
	return "internal"
}
