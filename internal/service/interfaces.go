// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package service implements the Session Client: login, the persisted
// credential pair, and the authenticated build list fetch that refreshes an
// expired access token once and retries once.
package service

import (
	"context"

	"github.com/MKhiriev/apk-portal/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/session_service_mock.go -package=mock

// SessionService defines the client-side contract for the portal session.
// Implementations own the in-memory credential pair and keep it equal to the
// persisted one.
type SessionService interface {
	// Login sends the credentials to the portal. On success the issued pair
	// is persisted together with username and becomes the current session.
	// Failures are reported as *AuthError and leave the session untouched.
	Login(ctx context.Context, username, password string) (models.Credentials, error)

	// ListBuilds fetches the build list with the current access token. When
	// the portal answers TOKEN_EXPIRED, the token pair is refreshed once and
	// the fetch is retried exactly once; the retry's outcome is final. If the
	// refresh fails the session is torn down and ErrSessionExpired returned.
	// Other failures leave the session untouched. Returns ErrNotAuthenticated
	// without a network call when there is no session.
	ListBuilds(ctx context.Context) ([]models.Build, error)

	// Logout erases the persisted credentials and clears the session. It is
	// idempotent.
	Logout(ctx context.Context) error

	// Restore loads the persisted credential pair into memory. Returns
	// ErrNoSession when no access token is persisted.
	Restore(ctx context.Context) (models.Credentials, error)

	// Current returns a snapshot of the in-memory credential pair.
	Current() models.Credentials

	// Download saves the package of build into dir and returns the file path.
	Download(ctx context.Context, build models.Build, dir string) (string, error)
}

// AppInfoService exposes information about the running client.
type AppInfoService interface {
	// GetBuildInfo returns the version metadata of the client binary.
	GetBuildInfo(ctx context.Context) models.AppBuildInfo

	// GetPortalHost returns the host of the configured portal API, or an
	// empty string when none is configured.
	GetPortalHost(ctx context.Context) string
}
