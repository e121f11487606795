// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"strings"

	"github.com/MKhiriev/apk-portal/internal/session"
	"github.com/MKhiriev/apk-portal/models"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// loginModel is the login form: a username and a masked password input.
// Submitting it produces a [session.Login] command; the outcome arrives as
// dispatcher state.
type loginModel struct {
	inputs []textinput.Model
	focus  int
	errMsg string
}

func newLoginModel() loginModel {
	usernameInput := textinput.New()
	usernameInput.Placeholder = "username"
	usernameInput.CharLimit = 64
	usernameInput.Width = 40
	usernameInput.Focus()

	passwordInput := textinput.New()
	passwordInput.Placeholder = "password"
	passwordInput.CharLimit = 256
	passwordInput.Width = 40
	passwordInput.EchoMode = textinput.EchoPassword
	passwordInput.EchoCharacter = '*'

	return loginModel{inputs: []textinput.Model{usernameInput, passwordInput}}
}

// update handles a key press. A non-nil command is returned when the form
// was submitted.
func (m loginModel) update(msg tea.Msg, state models.SessionState) (loginModel, *session.Login, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, keys.tab):
			m.focusNext()
			return m, nil, nil
		case key.Matches(keyMsg, keys.backtab):
			m.focusPrev()
			return m, nil, nil
		case key.Matches(keyMsg, keys.enter):
			if state.Status == models.StatusLoading {
				return m, nil, nil
			}

			username := strings.TrimSpace(m.inputs[0].Value())
			password := m.inputs[1].Value()
			if username == "" || password == "" {
				m.errMsg = "username and password are required"
				return m, nil, nil
			}

			m.errMsg = ""
			return m, &session.Login{Username: username, Password: password}, nil
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, nil, cmd
}

// reset clears the password and focuses the username input.
func (m loginModel) reset() loginModel {
	m.inputs[1].SetValue("")
	m.inputs[m.focus].Blur()
	m.focus = 0
	m.inputs[0].Focus()
	m.errMsg = ""
	return m
}

func (m loginModel) view(state models.SessionState, spinner string) string {
	var b strings.Builder
	b.WriteString("Username │ [")
	b.WriteString(m.inputs[0].View())
	b.WriteString("]\n")
	b.WriteString("Password │ [")
	b.WriteString(m.inputs[1].View())
	b.WriteString("]\n")

	if state.Status == models.StatusLoading {
		b.WriteString("\n" + spinner + " Signing in...\n")
	} else {
		b.WriteString("\n[Sign in]\n")
	}

	switch {
	case m.errMsg != "":
		b.WriteString("\n" + errorStyle.Render(m.errMsg) + "\n")
	case state.Status == models.StatusError && state.Error != "":
		b.WriteString("\n" + errorStyle.Render(state.Error) + "\n")
	}
	if state.Notice != "" {
		b.WriteString("\n" + noticeStyle.Render(state.Notice) + "\n")
	}

	return renderPage("SIGN IN", strings.TrimRight(b.String(), "\n"), "tab: next field │ enter: sign in │ f1: about")
}

func (m *loginModel) focusNext() {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + 1) % len(m.inputs)
	m.inputs[m.focus].Focus()
}

func (m *loginModel) focusPrev() {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus - 1 + len(m.inputs)) % len(m.inputs)
	m.inputs[m.focus].Focus()
}
