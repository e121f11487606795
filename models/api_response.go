// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "encoding/json"

// LoginRequest is the body of the login call.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RefreshRequest is the body of the token refresh call.
type RefreshRequest struct {
	Username     string `json:"username"`
	RefreshToken string `json:"refreshToken"`
}

// APIResponse is the JSON envelope returned by every portal API operation.
//
// A response is considered failed when the HTTP status is not 2xx or when OK
// is explicitly false. Failed responses describe themselves through Message
// (human readable) and Error (machine code).
type APIResponse struct {
	// OK is nil when the field is absent; only an explicit false marks a
	// failure.
	OK *bool `json:"ok,omitempty"`

	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`

	AccessToken  string `json:"accessToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`

	// Data is kept raw: the list endpoint returns an array, but anything
	// else must degrade to an empty list rather than a decode failure.
	Data json.RawMessage `json:"data,omitempty"`
}

// Failed reports whether the body itself flags a failure.
func (r APIResponse) Failed() bool {
	return r.OK != nil && !*r.OK
}

// TokenPair extracts the token pair carried by login and refresh responses.
func (r APIResponse) TokenPair() TokenPair {
	return TokenPair{AccessToken: r.AccessToken, RefreshToken: r.RefreshToken}
}

// ParseAPIResponse decodes a portal reply. A body that is not a JSON object
// yields an empty response. Fields are read one by one and a field of the
// wrong type counts as absent, so a mistyped field never hides ok:false or
// the error code.
func ParseAPIResponse(body []byte) APIResponse {
	var fields jsonObject
	if err := json.Unmarshal(body, &fields); err != nil {
		return APIResponse{}
	}

	var r APIResponse
	if ok, present := fields.boolean("ok"); present {
		r.OK = &ok
	}
	r.Message, _ = fields.str("message")
	r.Error, _ = fields.str("error")
	r.AccessToken, _ = fields.str("accessToken")
	r.RefreshToken, _ = fields.str("refreshToken")
	if data, present := fields["data"]; present && !isJSONNull(data) {
		r.Data = data
	}
	return r
}

// Builds decodes Data as a list of builds. Anything that is not a JSON array
// yields an empty, non-nil list. Elements that are not objects are skipped.
func (r APIResponse) Builds() []Build {
	builds := make([]Build, 0)
	if len(r.Data) == 0 {
		return builds
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(r.Data, &elems); err != nil {
		return builds
	}
	for _, elem := range elems {
		if isJSONNull(elem) {
			continue
		}
		var b Build
		if err := json.Unmarshal(elem, &b); err != nil {
			continue
		}
		builds = append(builds, b)
	}
	return builds
}
