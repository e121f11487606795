// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"strings"

	"github.com/MKhiriev/apk-portal/models"
	"github.com/common-nighthawk/go-figure"
)

const appName = "APK Portal"

func renderBuildInfoWindow(info models.AppBuildInfo, portalHost, downloadDir string) string {
	var b strings.Builder

	b.WriteString(strings.TrimRight(figure.NewFigure("apk", "", true).String(), "\n"))
	b.WriteString("\n\n")
	b.WriteString("Application: " + appName + "\n")
	b.WriteString("Version: " + info.BuildVersion() + "\n")
	b.WriteString("Date: " + info.BuildDate() + "\n")
	b.WriteString("Commit: " + info.BuildCommit() + "\n")
	b.WriteString("Portal: " + valueOrDash(portalHost) + "\n")
	b.WriteString("Downloads: " + valueOrDash(downloadDir))

	return renderPage("ABOUT", b.String(), "esc: back")
}
