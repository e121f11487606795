package session

import "errors"

var (
	// ErrRejected is returned by Dispatch when the command is not accepted in
	// the current state. The state is left unchanged.
	ErrRejected = errors.New("command rejected")

	// ErrUnknownCommand is returned for a Command type the dispatcher does
	// not handle.
	ErrUnknownCommand = errors.New("unknown command")
)

// Messages shown for transitions that have no error of their own.
const (
	buildNotFoundMessage = "build is no longer in the list"
	restoreFailedMessage = "saved session could not be read, please log in again"
)
