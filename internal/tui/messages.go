package tui

import (
	"github.com/MKhiriev/apk-portal/internal/session"
	"github.com/MKhiriev/apk-portal/models"
)

// stateMsg carries a state published by the dispatcher.
type stateMsg struct {
	state models.SessionState
}

// dispatchedMsg reports that a command issued by the UI has finished.
type dispatchedMsg struct {
	cmd session.Command
	err error
}

type copiedMsg struct {
	version string
	err     error
}

type clearNoticeMsg struct {
	seq int
}
