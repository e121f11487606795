// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"fmt"
	"net/url"
	"path"
	"strings"
)

// Build describes one distributable Android application package version as
// served by the portal API. Builds are read-only on the client and never
// persisted.
type Build struct {
	// Version is the version label of the package (e.g. "1.2.0").
	Version string `json:"version"`

	// BuildDate is the build date exactly as reported by the API.
	BuildDate string `json:"buildDate"`

	// Notes holds free-form release notes.
	Notes string `json:"notes"`

	// URL is the download location of the APK file.
	URL string `json:"url"`
}

// UnmarshalJSON decodes a build object. Scalar fields of another JSON type
// are taken in their literal form, so a numeric version 1.3 reads as "1.3".
func (b *Build) UnmarshalJSON(data []byte) error {
	var fields jsonObject
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if fields == nil {
		return nil
	}

	*b = Build{
		Version:   fields.text("version"),
		BuildDate: fields.text("buildDate"),
		Notes:     fields.text("notes"),
		URL:       fields.text("url"),
	}
	return nil
}

// BuildKey identifies a build within a list.
type BuildKey struct {
	Version string
	URL     string
}

// String renders the key the same way it is used for list rendering.
func (k BuildKey) String() string {
	return k.Version + "-" + k.URL
}

// Key returns the identity key of the build: the (version, url) pair.
func (b Build) Key() BuildKey {
	return BuildKey{Version: b.Version, URL: b.URL}
}

// FileName derives a local file name for the build. It uses the last
// segment of the URL path when that looks like a file, and falls back to
// "app-<version>.apk".
func (b Build) FileName() string {
	if u, err := url.Parse(b.URL); err == nil {
		base := path.Base(u.Path)
		if base != "." && base != "/" && base != "" && strings.Contains(base, ".") {
			return base
		}
	}

	version := strings.TrimSpace(b.Version)
	if version == "" {
		version = "unknown"
	}
	return fmt.Sprintf("app-%s.apk", strings.ReplaceAll(version, "/", "_"))
}
