// Package apperr holds the error taxonomy shared by services and controllers.
package apperr

import (
	"errors"
	"net/http"
	"strings"
)

var (
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
)

// ServerMessage is the only detail a client sees for unexpected failures.
const ServerMessage = "Server error"

// Status maps an error to its HTTP status code.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrConflict):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the client-facing message of a taxonomy error.
// Errors are built as fmt.Errorf("%w: message", ErrX); the text after the
// sentinel prefix is what the client sees. Unknown errors yield ServerMessage.
func Message(err error) string {
	for _, sentinel := range []error{ErrValidation, ErrConflict, ErrUnauthorized, ErrNotFound} {
		if !errors.Is(err, sentinel) {
			continue
		}
		if msg, ok := strings.CutPrefix(err.Error(), sentinel.Error()+": "); ok && msg != "" {
			return msg
		}
		return sentinel.Error()
	}
	return ServerMessage
}
