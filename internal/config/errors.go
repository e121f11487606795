package config

import "errors"

// Validation errors returned by [ClientConfig.validate].
var (
	// ErrMissingAPIBaseURL indicates that no portal API base URL was
	// configured. It is fatal for API use but not for the process: the
	// client starts in an error state and makes no network call.
	ErrMissingAPIBaseURL = errors.New("missing API base URL: set PORTAL_API_BASE_URL")
	// ErrInvalidAPIBaseURL indicates a base URL that is not an absolute
	// http(s) URL.
	ErrInvalidAPIBaseURL = errors.New("invalid API base URL")
	// ErrInvalidAdapterConfigs indicates invalid HTTP settings (for example,
	// a negative request timeout).
	ErrInvalidAdapterConfigs = errors.New("invalid adapter configuration")
	// ErrInvalidStorageConfigs indicates invalid storage settings (for
	// example, an empty DSN).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidWorkerConfigs indicates invalid background worker settings.
	ErrInvalidWorkerConfigs = errors.New("invalid worker configuration")
)
