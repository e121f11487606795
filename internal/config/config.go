// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"os"
	"time"
)

// Built-in defaults applied after every other source.
const (
	DefaultDSN         = "apk-portal.db"
	DefaultDownloadDir = "."
	DefaultEnvFile     = ".env"
)

// ClientConfig is the top-level configuration of the APK portal client.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type ClientConfig struct {
	// Portal describes the remote portal API.
	Portal Portal `envPrefix:"PORTAL_"`

	// App holds application-level secrets.
	App App `envPrefix:"APP_"`

	// Adapter holds outbound HTTP settings.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Storage holds the local persistence settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Workers holds background worker settings.
	Workers Workers `envPrefix:"WORKERS_"`

	// FilePath is the optional path to a JSON or YAML configuration file.
	// Env: CONFIG
	FilePath string `env:"CONFIG"`

	// EnvFilePath is the dotenv file loaded into the process environment
	// before environment variables are parsed.
	// Env: ENV_FILE
	EnvFilePath string `env:"ENV_FILE"`
}

// Portal describes the remote portal API.
type Portal struct {
	// APIBaseURL is the single base location every API call is sent to.
	// Required.
	// Env: PORTAL_API_BASE_URL
	APIBaseURL string `env:"API_BASE_URL"`
}

// App holds application-level settings.
type App struct {
	// StorageKey is the secret used to seal persisted tokens at rest. When
	// empty, tokens are stored as plain text.
	// Env: APP_STORAGE_KEY
	StorageKey string `env:"STORAGE_KEY"`
}

// Adapter holds outbound HTTP settings.
type Adapter struct {
	// RequestTimeout bounds a single API request. Zero means no timeout.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Storage holds the local persistence settings.
type Storage struct {
	// DB holds the local credential database settings.
	DB DB `envPrefix:"DB_"`

	// DownloadDir is the directory downloaded APK files are written to.
	// Env: STORAGE_DOWNLOAD_DIR
	DownloadDir string `env:"DOWNLOAD_DIR"`
}

// DB holds the SQLite credential database settings.
type DB struct {
	// DSN is the SQLite database file.
	// Env: STORAGE_DB_DSN
	DSN string `env:"DSN"`
}

// Workers holds background worker settings.
type Workers struct {
	// ListRefreshInterval is how often the build list is reloaded while a
	// session is active. Zero disables background reloads.
	// Env: WORKERS_LIST_REFRESH_INTERVAL
	ListRefreshInterval time.Duration `env:"LIST_REFRESH_INTERVAL"`
}

// defaults returns the lowest-priority layer.
func defaults() *ClientConfig {
	return &ClientConfig{
		Storage: Storage{
			DB:          DB{DSN: DefaultDSN},
			DownloadDir: DefaultDownloadDir,
		},
	}
}

// GetClientConfig loads, merges, and validates the client configuration
// from command-line flags, the environment, an optional dotenv file and an
// optional JSON/YAML file.
//
// A missing or malformed API base URL ([ErrMissingAPIBaseURL],
// [ErrInvalidAPIBaseURL]) is returned together with a fully populated
// config: the caller is expected to start in an error state instead of
// exiting. Any other failure returns a nil config.
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := newConfigBuilder(os.Args[1:]).
		withFlags().
		withDotEnv().
		withEnv().
		withFile().
		withDefaults().
		build()
	if err != nil && !IsPortalError(err) {
		return nil, fmt.Errorf("error get client config: %w", err)
	}

	return cfg, err
}
