// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Status is the coarse UI status of the client session.
type Status int

const (
	// StatusIdle means no session is active and nothing is in flight.
	StatusIdle Status = iota
	// StatusLoading means a login request is in flight.
	StatusLoading
	// StatusAuthed means a session is active.
	StatusAuthed
	// StatusError means login failed or the client is misconfigured.
	StatusError
)

// String returns the lowercase status name.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusAuthed:
		return "authed"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// SessionState is the in-memory projection rendered by the UI: the current
// credential pair, the status flag and everything displayed next to it.
type SessionState struct {
	Status Status

	// Session is the in-memory credential pair. Empty unless Status is
	// StatusAuthed.
	Session Credentials

	// Error is the status-level message, shown when Status is StatusError.
	Error string

	// ListError is the inline message of the last failed list operation.
	// It never changes Status.
	ListError string

	// Notice is an informational line (download finished, session expired).
	Notice string

	// Builds is the last successfully loaded build list.
	Builds []Build

	// ListLoaded is true once a list fetch succeeded for the current session.
	ListLoaded bool
}

// IsAuthed reports whether the state holds an active session.
func (s SessionState) IsAuthed() bool {
	return s.Status == StatusAuthed && s.Session.IsAuthenticated()
}

// FindBuild looks a build up by its identity key.
func (s SessionState) FindBuild(key BuildKey) (Build, bool) {
	for _, b := range s.Builds {
		if b.Key() == key {
			return b, true
		}
	}
	return Build{}, false
}

// Clone returns a copy whose build slice does not alias the receiver's.
func (s SessionState) Clone() SessionState {
	if s.Builds != nil {
		builds := make([]Build, len(s.Builds))
		copy(builds, s.Builds)
		s.Builds = builds
	}
	return s
}
