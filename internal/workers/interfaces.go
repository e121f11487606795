// Package workers provides abstractions for managing and running
// background workers in the application.
// It defines the Worker interface and a Workers aggregate that allows
// starting and stopping multiple workers in a unified way.
package workers

import "context"

// Worker is the interface that must be implemented by any background worker.
//
// Start must not block: implementations spawn their own goroutines and
// return. Stop blocks until those goroutines have exited and is safe to call
// on a worker that was never started.
type Worker interface {
	Start(ctx context.Context)
	Stop()
}

// ListReloader re-fetches the build list of the active session. It returns
// an error when there is no session to reload for.
type ListReloader interface {
	ReloadList(ctx context.Context) error
}
