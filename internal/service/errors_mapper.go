// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"

	"github.com/MKhiriev/apk-portal/internal/adapter"
)

const loginFailedMessage = "login failed"

// mapLoginError translates an adapter failure into an *AuthError.
func mapLoginError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *adapter.APIError
	if errors.As(err, &apiErr) {
		message := apiErr.Message
		if message == "" {
			message = loginFailedMessage
		}
		return &AuthError{Code: apiErr.Code, Message: message, Err: err}
	}

	return &AuthError{Code: adapter.CodeUnknown, Message: loginFailedMessage, Err: err}
}

// UserMessage renders err as a status line. Transport details never reach
// the user: the portal's own message is shown when there is one, otherwise a
// fixed description of the failure class.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var (
		authErr *AuthError
		apiErr  *adapter.APIError
	)
	switch {
	case errors.As(err, &authErr):
		return authErr.Message
	case errors.Is(err, ErrSessionExpired):
		return ErrSessionExpired.Error()
	case errors.Is(err, ErrNotAuthenticated):
		return ErrNotAuthenticated.Error()
	case errors.As(err, &apiErr):
		return apiErr.Message
	case errors.Is(err, context.Canceled):
		return "request cancelled"
	case errors.Is(err, context.DeadlineExceeded):
		return "the portal did not respond in time"
	default:
		return "something went wrong, see the log for details"
	}
}
