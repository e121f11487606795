// Package tui is the Bubble Tea front end of the client. It renders the
// state published by the session dispatcher and turns key presses into
// dispatcher commands.
package tui

import (
	"context"
	"errors"

	"github.com/MKhiriev/apk-portal/internal/logger"
	"github.com/MKhiriev/apk-portal/internal/service"
	"github.com/MKhiriev/apk-portal/internal/session"
	"github.com/MKhiriev/apk-portal/models"
	tea "github.com/charmbracelet/bubbletea"
)

// Dispatcher is the part of the session dispatcher the UI drives.
type Dispatcher interface {
	State() models.SessionState
	Dispatch(ctx context.Context, cmd session.Command) (models.SessionState, error)
	Subscribe(l session.Listener) (unsubscribe func())
}

type TUI struct {
	dispatcher  Dispatcher
	appInfo     service.AppInfoService
	downloadDir string
	logger      *logger.Logger
}

func New(dispatcher Dispatcher, appInfo service.AppInfoService, downloadDir string, logger *logger.Logger) (*TUI, error) {
	if dispatcher == nil {
		return nil, errors.New("tui: dispatcher is nil")
	}
	return &TUI{dispatcher: dispatcher, appInfo: appInfo, downloadDir: downloadDir, logger: logger}, nil
}

// Run shows the UI and blocks until the user quits. State published by the
// dispatcher outside of UI commands (for example by the list poller) is
// forwarded to the running program.
func (t *TUI) Run(ctx context.Context) error {
	root := newRootModel(ctx, t.dispatcher, t.appInfo, t.downloadDir)
	program := tea.NewProgram(root, tea.WithAltScreen(), tea.WithContext(ctx))

	unsubscribe := t.dispatcher.Subscribe(func(state models.SessionState) {
		program.Send(stateMsg{state: state})
	})
	defer unsubscribe()

	finalModel, err := program.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	}

	result, ok := finalModel.(rootModel)
	if !ok {
		return tea.ErrProgramKilled
	}
	if result.quitByUser {
		t.logger.Info().Msg("user quit")
	}
	return nil
}
