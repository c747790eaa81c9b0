package session

import (
	"errors"

	"github.com/dmitrijs2005/medquery/internal/client/client"
)

var (
	// ErrLoginIncomplete means the backend issued a token but the follow-up
	// current-user call failed. The token is kept; the session state is not
	// changed.
	ErrLoginIncomplete = errors.New("login incomplete")

	// ErrVerificationFailed is returned by Start when the server could not be
	// reached to confirm a token with no cached user.
	ErrVerificationFailed = errors.New("session verification failed")
)

// AuthenticationError is a login or signup failure with a message fit for
// the user.
type AuthenticationError struct {
	Message string
	Err     error
}

func (e *AuthenticationError) Error() string {
	return e.Message
}

func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

func authError(err error, fallback string) *AuthenticationError {
	msg := client.Message(err)
	switch {
	case msg != "":
	case errors.Is(err, client.ErrUnavailable):
		msg = "server unavailable"
	default:
		msg = fallback
	}
	return &AuthenticationError{Message: msg, Err: err}
}
