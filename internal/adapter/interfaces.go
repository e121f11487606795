// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides transport-layer abstractions for communicating with
// the APK portal API.
//
// The primary abstraction is [ServerAdapter], which decouples the service layer
// from the underlying protocol. The package ships an HTTP implementation
// ([NewHTTPServerAdapter]) that speaks the portal's single-endpoint dialect:
// every operation goes to the same base URL and names itself in the "path"
// query parameter.
//
// Every failure is reported as an [*APIError] so that callers can branch on
// the machine code with [errors.Is] (e.g. [ErrTokenExpired]) or [errors.As].
package adapter

import (
	"context"

	"github.com/MKhiriev/apk-portal/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// ServerAdapter defines transport-agnostic communication with the APK portal.
// Implementations are responsible for serialisation and for mapping
// transport-level failures to [*APIError].
type ServerAdapter interface {
	// Login exchanges a username and password for a fresh token pair.
	Login(ctx context.Context, username, password string) (models.TokenPair, error)

	// RefreshToken exchanges a refresh token for a new token pair. The
	// username is the one the refresh token was issued to.
	RefreshToken(ctx context.Context, username, refreshToken string) (models.TokenPair, error)

	// ListBuilds returns the builds visible to the holder of accessToken, in
	// the order the API returns them. A response without a list yields an
	// empty, non-nil slice.
	ListBuilds(ctx context.Context, accessToken string) ([]models.Build, error)

	// DownloadBuild fetches the package at build.URL into dir and returns the
	// path of the written file. No credentials are sent.
	DownloadBuild(ctx context.Context, build models.Build, dir string) (string, error)
}
