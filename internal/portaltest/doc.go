// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package portaltest provides an in-process fake of the APK portal API for
// tests.
//
// The fake speaks the same single-endpoint dialect as the real portal: every
// operation is addressed to [Server.BaseURL] and names itself in the "path"
// query parameter. Tokens are real HS256 JWTs, access tokens can be expired
// on demand and refresh tokens rotate on every use, so the client's
// refresh-then-retry flow can be exercised end to end. Package files are
// served from /files/{name} and are referenced by the URL of each build.
//
// All counters and the request journal are safe for concurrent use.
package portaltest
