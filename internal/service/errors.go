package service

import "errors"

// CodeInvalidInput is the AuthError code for a login attempted with an empty
// username or password.
const CodeInvalidInput = "INVALID_INPUT"

var (
	// ErrSessionExpired is returned when the token refresh failed. The
	// session has already been torn down when it is returned.
	ErrSessionExpired = errors.New("session expired, please log in again")

	// ErrNotAuthenticated is returned by operations that need a session when
	// there is none.
	ErrNotAuthenticated = errors.New("not logged in")

	// ErrNoSession is returned by Restore when nothing is persisted.
	ErrNoSession = errors.New("no persisted session")
)

// AuthError is a failed login. Message is meant for the user; Code is the
// machine-readable reason.
type AuthError struct {
	Code    string
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	return e.Message
}

func (e *AuthError) Unwrap() error {
	return e.Err
}
