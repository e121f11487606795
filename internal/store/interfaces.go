// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package store implements durable local persistence for the client.
//
// Credentials live in a small SQLite key-value table whose schema is managed
// by goose migrations (see the migrations package). Queries are built with
// squirrel. Token values can be sealed at rest through a
// [crypto.TokenSealer].
package store

import (
	"context"

	"github.com/MKhiriev/apk-portal/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/credential_store_mock.go -package=mock

// CredentialStore persists the credential pair across process restarts.
// The three values are always written and cleared together.
type CredentialStore interface {
	// Get returns the persisted credentials. A store that holds nothing
	// returns empty credentials and no error.
	Get(ctx context.Context) (models.Credentials, error)

	// Set replaces the persisted credentials atomically. Empty fields are
	// removed from storage.
	Set(ctx context.Context, creds models.Credentials) error

	// Clear removes every persisted credential value. Clearing an empty
	// store is not an error.
	Clear(ctx context.Context) error
}
