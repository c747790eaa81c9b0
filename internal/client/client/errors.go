package client

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/medquery/internal/common"
)

var (
	ErrUnavailable       = errors.New("server unavailable")
	ErrUnauthorized      = common.ErrorUnauthorized
	ErrNotFound          = common.ErrorNotFound
	ErrMalformedResponse = errors.New("malformed response")
)

// APIError is a response the backend produced but the client could not
// accept: a non-success status or an explicit {"error": ...} body.
// The sentinel, when set, is one of ErrUnauthorized, ErrNotFound or
// ErrUnavailable and is matched by errors.Is through Unwrap.
type APIError struct {
	Status   int
	Message  string
	sentinel error
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.sentinel
}

// Message extracts the backend-provided message from err, or "" when err does
// not carry one.
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

// IsRejection reports whether err is a response the backend actually sent
// (any non-success status or explicit error body), as opposed to a request
// that never completed or a body that could not be decoded.
func IsRejection(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}
