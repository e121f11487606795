// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// validate checks that the merged [ClientConfig] satisfies all invariants
// before it is used at startup.
//
// Base URL problems are reported last so that, when they are the only
// problem, callers can still run with the rest of the configuration. A
// valid base URL is stored in its normalized form.
func (cfg *ClientConfig) validate() error {
	if strings.TrimSpace(cfg.Storage.DB.DSN) == "" {
		return ErrInvalidStorageConfigs
	}
	if cfg.Adapter.RequestTimeout < 0 {
		return ErrInvalidAdapterConfigs
	}
	if cfg.Workers.ListRefreshInterval < 0 {
		return ErrInvalidWorkerConfigs
	}

	baseURL, err := NormalizeBaseURL(cfg.Portal.APIBaseURL)
	if err != nil {
		return err
	}
	cfg.Portal.APIBaseURL = baseURL

	return nil
}

// NormalizeBaseURL trims raw and prefixes "https://" when no scheme is
// given. The result must be an absolute http(s) URL with a host.
func NormalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrMissingAPIBaseURL
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidAPIBaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: %q must be an absolute http(s) url", ErrInvalidAPIBaseURL, raw)
	}

	return u.String(), nil
}

// IsPortalError reports whether err only concerns the portal base URL. The
// rest of the configuration is usable in that case.
func IsPortalError(err error) bool {
	return errors.Is(err, ErrMissingAPIBaseURL) || errors.Is(err, ErrInvalidAPIBaseURL)
}
