package tui

import (
	"fmt"
	"strings"

	"github.com/MKhiriev/apk-portal/models"
)

type listModel struct {
	idx     int
	loading bool
}

func (m listModel) current(state models.SessionState) (models.Build, bool) {
	if len(state.Builds) == 0 || m.idx < 0 || m.idx >= len(state.Builds) {
		return models.Build{}, false
	}
	return state.Builds[m.idx], true
}

// clamp keeps the cursor on an existing row after the list changed.
func (m listModel) clamp(state models.SessionState) listModel {
	switch {
	case len(state.Builds) == 0:
		m.idx = 0
	case m.idx >= len(state.Builds):
		m.idx = len(state.Builds) - 1
	case m.idx < 0:
		m.idx = 0
	}
	return m
}

func (m listModel) view(state models.SessionState, spinner, notice string) string {
	var b strings.Builder

	header := "Signed in as " + valueOrDash(state.Session.Username)
	if m.loading {
		header += "  " + spinner
	}
	b.WriteString(header + "\n\n")

	switch {
	case !state.ListLoaded && m.loading:
		b.WriteString("Loading...\n")
	case len(state.Builds) == 0:
		b.WriteString("No builds published\n")
	default:
		for i, build := range state.Builds {
			cursor := "  "
			line := fmt.Sprintf("%-12s %-12s %s", fitText(build.Version, 12), fitText(valueOrDash(build.BuildDate), 12), fitText(build.Notes, 40))
			if i == m.idx {
				cursor = cursorStyle.Render("> ")
				line = cursorStyle.Render(line)
			}
			b.WriteString(cursor + line + "\n")
		}
	}

	if build, ok := m.current(state); ok {
		b.WriteString("\n" + helpStyle.Render(fitText(build.URL, 70)) + "\n")
	}
	if notice != "" {
		b.WriteString("\n" + noticeStyle.Render(notice) + "\n")
	}
	if state.ListError != "" {
		b.WriteString("\n" + errorStyle.Render(state.ListError) + "\n")
	}

	return renderPage("BUILDS", strings.TrimRight(b.String(), "\n"),
		"enter/d: download │ c: copy url │ r: reload │ l: logout │ v: about │ q: quit")
}
