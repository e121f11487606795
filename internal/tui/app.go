package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/apk-portal/internal/service"
	"github.com/MKhiriev/apk-portal/internal/session"
	"github.com/MKhiriev/apk-portal/models"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const noticeTTL = 4 * time.Second

// clipboardWrite is replaced in tests.
var clipboardWrite = clipboard.WriteAll

// rootModel renders the dispatcher state:
// 1) the login form unless a session is active
// 2) the build list while authed
// 3) the about window and error overlay on top of either
type rootModel struct {
	ctx         context.Context
	dispatcher  Dispatcher
	appInfo     service.AppInfoService
	downloadDir string

	state   models.SessionState
	login   loginModel
	list    listModel
	spinner spinner.Model

	notice    string
	noticeSeq int
	overlay   *errorOverlayModel

	showBuildInfo bool
	quitByUser    bool
}

func newRootModel(ctx context.Context, dispatcher Dispatcher, appInfo service.AppInfoService, downloadDir string) rootModel {
	s := spinner.New()
	s.Spinner = spinner.MiniDot

	return rootModel{
		ctx:         ctx,
		dispatcher:  dispatcher,
		appInfo:     appInfo,
		downloadDir: downloadDir,
		state:       dispatcher.State(),
		login:       newLoginModel(),
		spinner:     s,
	}
}

func (r rootModel) Init() tea.Cmd {
	cmds := []tea.Cmd{r.spinner.Tick, textinput.Blink}
	if r.state.IsAuthed() {
		// a restored session loads its list on the first update
		state := r.state
		cmds = append(cmds, func() tea.Msg { return stateMsg{state: state} })
	}
	return tea.Batch(cmds...)
}

func (r rootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return r.updateKey(msg)

	case stateMsg:
		return r.applyState(msg.state)

	case dispatchedMsg:
		// the resulting state arrives through the subscription
		if _, ok := msg.cmd.(session.LoadList); ok {
			r.list.loading = false
		}
		if text := commandErrorMessage(msg.err); text != "" {
			r.overlay = &errorOverlayModel{message: text}
		}
		return r, nil

	case copiedMsg:
		if msg.err != nil {
			r.overlay = &errorOverlayModel{message: clipboardErrorMessage(msg.err)}
			return r, nil
		}
		return r.withNotice("copied the download link of " + msg.version)

	case clearNoticeMsg:
		if msg.seq == r.noticeSeq {
			r.notice = ""
		}
		return r, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		r.spinner, cmd = r.spinner.Update(msg)
		return r, cmd
	}

	if !r.state.IsAuthed() {
		var cmd tea.Cmd
		r.login, _, cmd = r.login.update(msg, r.state)
		return r, cmd
	}
	return r, nil
}

func (r rootModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.forceQ) {
		r.quitByUser = true
		return r, tea.Quit
	}

	if r.overlay != nil {
		if key.Matches(msg, keys.enter, keys.esc) {
			r.overlay = nil
		}
		return r, nil
	}

	if r.showBuildInfo {
		if key.Matches(msg, keys.esc, keys.info, keys.infoAny) {
			r.showBuildInfo = false
		}
		return r, nil
	}

	if key.Matches(msg, keys.infoAny) {
		r.showBuildInfo = true
		return r, nil
	}

	if !r.state.IsAuthed() {
		var (
			login *session.Login
			cmd   tea.Cmd
		)
		r.login, login, cmd = r.login.update(msg, r.state)
		if login != nil {
			return r, r.dispatch(*login)
		}
		return r, cmd
	}

	switch {
	case key.Matches(msg, keys.quit):
		r.quitByUser = true
		return r, tea.Quit
	case key.Matches(msg, keys.info):
		r.showBuildInfo = true
	case key.Matches(msg, keys.up):
		if r.list.idx > 0 {
			r.list.idx--
		}
	case key.Matches(msg, keys.down):
		if r.list.idx < len(r.state.Builds)-1 {
			r.list.idx++
		}
	case key.Matches(msg, keys.reload):
		return r.loadList()
	case key.Matches(msg, keys.logout):
		return r, r.dispatch(session.Logout{})
	case key.Matches(msg, keys.download):
		build, ok := r.list.current(r.state)
		if !ok {
			return r, nil
		}
		var notice tea.Cmd
		r, notice = r.withNotice("downloading " + build.Version + "...")
		return r, tea.Batch(notice, r.dispatch(session.Download{Key: build.Key()}))
	case key.Matches(msg, keys.copy):
		build, ok := r.list.current(r.state)
		if !ok {
			return r, nil
		}
		return r, cmdCopy(build)
	}
	return r, nil
}

// applyState takes over a dispatcher state. Entering the authed state
// without a loaded list starts a load; leaving it resets the form.
func (r rootModel) applyState(state models.SessionState) (tea.Model, tea.Cmd) {
	prev := r.state
	r.state = state
	r.list = r.list.clamp(state)

	if prev.IsAuthed() && !state.IsAuthed() {
		r.login = r.login.reset()
		r.list = listModel{}
		r.notice = ""
	}

	var cmds []tea.Cmd
	if state.IsAuthed() && state.Notice != "" && state.Notice != prev.Notice {
		var cmd tea.Cmd
		r, cmd = r.withNotice(state.Notice)
		cmds = append(cmds, cmd)
	}
	if state.IsAuthed() && !state.ListLoaded && !r.list.loading && state.ListError == "" {
		r.list.loading = true
		cmds = append(cmds, r.dispatch(session.LoadList{}))
	}
	return r, tea.Batch(cmds...)
}

func (r rootModel) loadList() (tea.Model, tea.Cmd) {
	if r.list.loading {
		return r, nil
	}
	r.list.loading = true
	return r, r.dispatch(session.LoadList{})
}

// withNotice shows text on the list screen for noticeTTL.
func (r rootModel) withNotice(text string) (rootModel, tea.Cmd) {
	r.notice = text
	r.noticeSeq++
	seq := r.noticeSeq
	return r, tea.Tick(noticeTTL, func(time.Time) tea.Msg { return clearNoticeMsg{seq: seq} })
}

func (r rootModel) View() string {
	if r.overlay != nil {
		return appStyle.Render(r.overlay.View())
	}
	if r.showBuildInfo {
		var (
			info models.AppBuildInfo
			host string
		)
		if r.appInfo != nil {
			info = r.appInfo.GetBuildInfo(r.ctx)
			host = r.appInfo.GetPortalHost(r.ctx)
		}
		return renderBuildInfoWindow(info, host, r.downloadDir)
	}
	if r.state.IsAuthed() {
		return r.list.view(r.state, r.spinner.View(), r.notice)
	}
	return r.login.view(r.state, r.spinner.View())
}

func (r rootModel) dispatch(cmd session.Command) tea.Cmd {
	ctx := r.ctx
	d := r.dispatcher

	return func() tea.Msg {
		_, err := d.Dispatch(ctx, cmd)
		return dispatchedMsg{cmd: cmd, err: err}
	}
}

func cmdCopy(build models.Build) tea.Cmd {
	return func() tea.Msg {
		if err := clipboardWrite(build.URL); err != nil {
			return copiedMsg{version: build.Version, err: fmt.Errorf("copy to clipboard: %w", err)}
		}
		return copiedMsg{version: build.Version}
	}
}
