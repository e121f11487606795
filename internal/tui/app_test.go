package tui

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/MKhiriev/apk-portal/internal/config"
	"github.com/MKhiriev/apk-portal/internal/logger"
	"github.com/MKhiriev/apk-portal/internal/service"
	"github.com/MKhiriev/apk-portal/internal/session"
	"github.com/MKhiriev/apk-portal/models"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDispatcher struct {
	mu       sync.Mutex
	state    models.SessionState
	err      error
	commands []session.Command
}

func (f *fakeDispatcher) State() models.SessionState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *fakeDispatcher) Dispatch(_ context.Context, cmd session.Command) (models.SessionState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commands = append(f.commands, cmd)
	return f.state, f.err
}

func (f *fakeDispatcher) Subscribe(session.Listener) func() {
	return func() {}
}

func (f *fakeDispatcher) sent() []session.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]session.Command(nil), f.commands...)
}

var (
	alice  = models.Credentials{AccessToken: "A1", RefreshToken: "R1", Username: "alice"}
	builds = []models.Build{
		{Version: "1.0.0", BuildDate: "2026-01-01", Notes: "first", URL: "https://x/app-1.apk"},
		{Version: "1.1.0", BuildDate: "2026-02-01", Notes: "second", URL: "https://x/app-2.apk"},
	}
	authedLoaded = models.SessionState{Status: models.StatusAuthed, Session: alice, Builds: builds, ListLoaded: true}
)

func newTestRoot(state models.SessionState) (rootModel, *fakeDispatcher) {
	d := &fakeDispatcher{state: state}
	info := service.NewAppInfoService(models.NewAppBuildInfo("1.0.0", "2026-03-01", "abc"), config.Portal{APIBaseURL: "https://portal.example/exec"}, logger.Nop())
	return newRootModel(context.Background(), d, info, "/downloads"), d
}

func press(r rootModel, msg tea.KeyMsg) (rootModel, tea.Cmd) {
	m, cmd := r.Update(msg)
	return m.(rootModel), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(r rootModel, msg tea.Msg) (rootModel, tea.Cmd) {
	m, cmd := r.Update(msg)
	return m.(rootModel), cmd
}

func stubClipboard(t *testing.T, write func(string) error) {
	t.Helper()
	orig := clipboardWrite
	clipboardWrite = write
	t.Cleanup(func() { clipboardWrite = orig })
}

// ── login screen ─────────────────────────────────────────────────────────────

func TestRoot_LoginSubmitDispatchesLogin(t *testing.T) {
	r, d := newTestRoot(models.SessionState{Status: models.StatusIdle})
	r.login.inputs[0].SetValue("  alice ")
	r.login.inputs[1].SetValue("secret")

	r, cmd := press(r, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg := cmd()

	assert.Equal(t, dispatchedMsg{cmd: session.Login{Username: "alice", Password: "secret"}}, msg)
	assert.Equal(t, []session.Command{session.Login{Username: "alice", Password: "secret"}}, d.sent())
}

func TestRoot_LoginRequiresBothFields(t *testing.T) {
	r, d := newTestRoot(models.SessionState{Status: models.StatusIdle})
	r.login.inputs[0].SetValue("alice")

	r, cmd := press(r, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.Empty(t, d.sent())
	assert.Contains(t, r.View(), "username and password are required")
}

func TestRoot_LoginIgnoredWhileLoading(t *testing.T) {
	r, d := newTestRoot(models.SessionState{Status: models.StatusLoading})
	r.login.inputs[0].SetValue("alice")
	r.login.inputs[1].SetValue("secret")

	_, cmd := press(r, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.Empty(t, d.sent())
}

func TestRoot_LoginErrorShown(t *testing.T) {
	r, _ := newTestRoot(models.SessionState{Status: models.StatusIdle})

	r, _ = send(r, stateMsg{state: models.SessionState{Status: models.StatusError, Error: "Invalid username or password"}})

	assert.Contains(t, r.View(), "Invalid username or password")
}

func TestRoot_ConfigErrorShownOnLoginScreen(t *testing.T) {
	r, _ := newTestRoot(models.SessionState{Status: models.StatusError, Error: config.ErrMissingAPIBaseURL.Error()})

	assert.Contains(t, r.View(), "missing API base URL: set PORTAL_API_BASE_URL")
}

func TestRoot_RejectedCommandHasNoOverlay(t *testing.T) {
	r, _ := newTestRoot(models.SessionState{Status: models.StatusError})

	r, _ = send(r, dispatchedMsg{cmd: session.Login{}, err: session.ErrRejected})

	assert.Nil(t, r.overlay)
}

func TestRoot_TabMovesFocus(t *testing.T) {
	r, _ := newTestRoot(models.SessionState{Status: models.StatusIdle})

	r, _ = press(r, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, 1, r.login.focus)

	r, _ = press(r, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, 0, r.login.focus)
}

// ── list screen ──────────────────────────────────────────────────────────────

func TestRoot_EnteringAuthedLoadsList(t *testing.T) {
	r, d := newTestRoot(models.SessionState{Status: models.StatusIdle})

	r, cmd := send(r, stateMsg{state: models.SessionState{Status: models.StatusAuthed, Session: alice}})
	require.NotNil(t, cmd)
	assert.True(t, r.list.loading)

	msg := cmd()
	assert.Equal(t, dispatchedMsg{cmd: session.LoadList{}}, msg)
	assert.Equal(t, []session.Command{session.LoadList{}}, d.sent())

	// a second state while loading does not start another load
	_, cmd = send(r, stateMsg{state: models.SessionState{Status: models.StatusAuthed, Session: alice}})
	assert.Nil(t, cmd)

	r, _ = send(r, msg)
	assert.False(t, r.list.loading)
}

func TestRoot_ListErrorDoesNotReloadForever(t *testing.T) {
	r, _ := newTestRoot(authedLoaded)

	state := models.SessionState{Status: models.StatusAuthed, Session: alice, ListError: "Request failed"}
	r, cmd := send(r, stateMsg{state: state})

	assert.Nil(t, cmd)
	assert.Contains(t, r.View(), "Request failed")
}

func TestRoot_ListRendersBuilds(t *testing.T) {
	r, _ := newTestRoot(authedLoaded)

	view := r.View()

	assert.Contains(t, view, "Signed in as alice")
	assert.Contains(t, view, "1.0.0")
	assert.Contains(t, view, "1.1.0")
	assert.Contains(t, view, "https://x/app-1.apk")
}

func TestRoot_CursorMoves(t *testing.T) {
	r, _ := newTestRoot(authedLoaded)

	r, _ = press(r, tea.KeyMsg{Type: tea.KeyDown})
	r, _ = press(r, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, r.list.idx)

	r, _ = press(r, runes("k"))
	r, _ = press(r, runes("k"))
	assert.Equal(t, 0, r.list.idx)
}

func TestRoot_CursorClampedWhenListShrinks(t *testing.T) {
	r, _ := newTestRoot(authedLoaded)
	r, _ = press(r, runes("j"))

	state := authedLoaded
	state.Builds = builds[:1]
	r, _ = send(r, stateMsg{state: state})

	assert.Equal(t, 0, r.list.idx)
}

func TestRoot_ReloadAndLogout(t *testing.T) {
	r, d := newTestRoot(authedLoaded)

	r, cmd := press(r, runes("r"))
	require.NotNil(t, cmd)
	cmd()

	_, cmd = press(r, runes("l"))
	require.NotNil(t, cmd)
	cmd()

	assert.Equal(t, []session.Command{session.LoadList{}, session.Logout{}}, d.sent())
}

func TestRoot_DownloadShowsProgress(t *testing.T) {
	r, _ := newTestRoot(authedLoaded)
	r, _ = press(r, runes("j"))

	r, cmd := press(r, runes("d"))

	require.NotNil(t, cmd)
	assert.Equal(t, "downloading 1.1.0...", r.notice)
}

func TestRoot_DownloadNoticeFromState(t *testing.T) {
	r, _ := newTestRoot(authedLoaded)

	state := authedLoaded
	state.Notice = "saved 1.0.0 to /downloads/app-1.apk"
	r, cmd := send(r, stateMsg{state: state})

	require.NotNil(t, cmd)
	assert.Contains(t, r.View(), "saved 1.0.0 to /downloads/app-1.apk")
}

func TestRoot_CopyURL(t *testing.T) {
	var copied string
	stubClipboard(t, func(text string) error {
		copied = text
		return nil
	})

	r, _ := newTestRoot(authedLoaded)
	r, cmd := press(r, runes("c"))
	require.NotNil(t, cmd)

	r, _ = send(r, cmd())

	assert.Equal(t, "https://x/app-1.apk", copied)
	assert.Equal(t, "copied the download link of 1.0.0", r.notice)
}

func TestRoot_CopyFailureOverlay(t *testing.T) {
	stubClipboard(t, func(string) error { return errors.New("no clipboard utility") })

	r, _ := newTestRoot(authedLoaded)
	r, cmd := press(r, runes("c"))
	r, _ = send(r, cmd())

	require.NotNil(t, r.overlay)
	assert.Contains(t, r.View(), "no clipboard utility")

	// any other key is swallowed by the overlay
	r, _ = press(r, runes("l"))
	require.NotNil(t, r.overlay)

	r, _ = press(r, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, r.overlay)
}

func TestRoot_LeavingAuthedResetsForm(t *testing.T) {
	r, _ := newTestRoot(authedLoaded)
	r.login.inputs[1].SetValue("secret")

	r, _ = send(r, stateMsg{state: models.SessionState{Status: models.StatusIdle, Notice: "session expired, please log in again"}})

	assert.Empty(t, r.login.inputs[1].Value())
	view := r.View()
	assert.Contains(t, view, "SIGN IN")
	assert.Contains(t, view, "session expired, please log in again")
}

// ── global keys ──────────────────────────────────────────────────────────────

func TestRoot_BuildInfoWindow(t *testing.T) {
	r, _ := newTestRoot(authedLoaded)

	r, _ = press(r, runes("v"))
	view := r.View()
	assert.Contains(t, view, "Version: 1.0.0")
	assert.Contains(t, view, "Portal: portal.example")
	assert.Contains(t, view, "Downloads: /downloads")

	r, _ = press(r, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, r.showBuildInfo)
}

func TestRoot_BuildInfoFromLoginScreen(t *testing.T) {
	r, _ := newTestRoot(models.SessionState{Status: models.StatusIdle})

	r, _ = press(r, runes("v"))
	assert.False(t, r.showBuildInfo, "v is typed into the form")

	r, _ = press(r, tea.KeyMsg{Type: tea.KeyF1})
	assert.True(t, r.showBuildInfo)
}

func TestRoot_Quit(t *testing.T) {
	r, _ := newTestRoot(models.SessionState{Status: models.StatusIdle})

	r, cmd := press(r, tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.True(t, r.quitByUser)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestNew_RequiresDispatcher(t *testing.T) {
	_, err := New(nil, nil, ".", logger.Nop())
	assert.Error(t, err)
}
