// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"errors"

	"github.com/MKhiriev/apk-portal/internal/service"
	"github.com/MKhiriev/apk-portal/internal/session"
)

// commandErrorMessage describes a command the dispatcher did not accept.
// Empty means there is nothing worth showing.
func commandErrorMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, session.ErrRejected):
		// the state already explains why, e.g. a configuration error
		return ""
	default:
		return service.UserMessage(err)
	}
}

func clipboardErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	return "cannot copy to the clipboard: " + err.Error()
}
