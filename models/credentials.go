// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Fixed storage keys under which the credential pair is persisted.
const (
	StorageKeyAccessToken  = "apk_portal_access_token"
	StorageKeyRefreshToken = "apk_portal_refresh_token"
	StorageKeyUsername     = "apk_portal_username"
)

// StorageKeys lists all keys owned by the credential pair, in a stable order.
var StorageKeys = []string{StorageKeyAccessToken, StorageKeyRefreshToken, StorageKeyUsername}

// TokenPair is the access/refresh token pair issued by the portal API on
// login and on token refresh.
type TokenPair struct {
	// AccessToken is the short-lived credential attached to protected calls.
	AccessToken string `json:"accessToken"`

	// RefreshToken is the longer-lived credential used to obtain a new
	// access token without re-entering a password.
	RefreshToken string `json:"refreshToken"`
}

// Credentials is the persisted credential pair: the token pair plus the
// username it was issued for. The username is required by the refresh
// endpoint.
type Credentials struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	Username     string `json:"username"`
}

// NewCredentials combines a freshly issued token pair with the username it
// belongs to.
func NewCredentials(pair TokenPair, username string) Credentials {
	return Credentials{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		Username:     username,
	}
}

// IsAuthenticated reports whether the pair carries an access token.
func (c Credentials) IsAuthenticated() bool {
	return c.AccessToken != ""
}

// CanRefresh reports whether the pair carries everything the refresh
// endpoint needs.
func (c Credentials) CanRefresh() bool {
	return c.RefreshToken != "" && c.Username != ""
}

// IsEmpty reports whether no field of the pair is set.
func (c Credentials) IsEmpty() bool {
	return c == Credentials{}
}

// Values returns the pair as a key/value map using the fixed storage keys.
func (c Credentials) Values() map[string]string {
	return map[string]string{
		StorageKeyAccessToken:  c.AccessToken,
		StorageKeyRefreshToken: c.RefreshToken,
		StorageKeyUsername:     c.Username,
	}
}

// CredentialsFromValues is the inverse of [Credentials.Values]. Unknown keys
// are ignored and missing keys yield empty fields.
func CredentialsFromValues(values map[string]string) Credentials {
	return Credentials{
		AccessToken:  values[StorageKeyAccessToken],
		RefreshToken: values[StorageKeyRefreshToken],
		Username:     values[StorageKeyUsername],
	}
}
