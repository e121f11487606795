package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_FileName(t *testing.T) {
	tests := []struct {
		name  string
		build Build
		want  string
	}{
		{name: "from url", build: Build{Version: "1.0.0", URL: "https://cdn.example/apk/app-release.apk?sig=1"}, want: "app-release.apk"},
		{name: "url without file", build: Build{Version: "1.2.0", URL: "https://drive.example/uc"}, want: "app-1.2.0.apk"},
		{name: "empty url", build: Build{Version: "2.0.0"}, want: "app-2.0.0.apk"},
		{name: "no version", build: Build{}, want: "app-unknown.apk"},
		{name: "slash in version", build: Build{Version: "feature/x"}, want: "app-feature_x.apk"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.build.FileName())
		})
	}
}

func TestBuild_Key(t *testing.T) {
	b := Build{Version: "1.0.0", URL: "https://x/a.apk", Notes: "ignored"}

	assert.Equal(t, BuildKey{Version: "1.0.0", URL: "https://x/a.apk"}, b.Key())
	assert.Equal(t, "1.0.0-https://x/a.apk", b.Key().String())
}

func TestCredentials_Values_RoundTrip(t *testing.T) {
	c := Credentials{AccessToken: "A1", RefreshToken: "R1", Username: "alice"}

	values := c.Values()

	assert.Equal(t, map[string]string{
		"apk_portal_access_token":  "A1",
		"apk_portal_refresh_token": "R1",
		"apk_portal_username":      "alice",
	}, values)
	assert.Equal(t, c, CredentialsFromValues(values))
}

func TestCredentials_Predicates(t *testing.T) {
	assert.True(t, Credentials{}.IsEmpty())
	assert.False(t, Credentials{}.IsAuthenticated())

	c := NewCredentials(TokenPair{AccessToken: "A1"}, "alice")
	assert.True(t, c.IsAuthenticated())
	assert.False(t, c.CanRefresh())

	c.RefreshToken = "R1"
	assert.True(t, c.CanRefresh())
}

func TestAPIResponse_Failed(t *testing.T) {
	decode := func(body string) APIResponse {
		var r APIResponse
		require.NoError(t, json.Unmarshal([]byte(body), &r))
		return r
	}

	assert.False(t, decode(`{}`).Failed())
	assert.False(t, decode(`{"ok":true}`).Failed())
	assert.True(t, decode(`{"ok":false}`).Failed())
}

func TestParseAPIResponse(t *testing.T) {
	t.Run("mistyped message keeps failure", func(t *testing.T) {
		r := ParseAPIResponse([]byte(`{"ok":false,"error":"TOKEN_EXPIRED","message":{"text":"expired"}}`))

		assert.True(t, r.Failed())
		assert.Equal(t, "TOKEN_EXPIRED", r.Error)
		assert.Empty(t, r.Message)
	})

	t.Run("tokens", func(t *testing.T) {
		r := ParseAPIResponse([]byte(`{"ok":true,"accessToken":"A1","refreshToken":"R1"}`))

		assert.False(t, r.Failed())
		assert.Equal(t, TokenPair{AccessToken: "A1", RefreshToken: "R1"}, r.TokenPair())
	})

	t.Run("mistyped ok is absent", func(t *testing.T) {
		r := ParseAPIResponse([]byte(`{"ok":"false","error":7}`))

		assert.Nil(t, r.OK)
		assert.Empty(t, r.Error)
	})

	for _, body := range []string{``, `not json`, `[1,2]`, `null`, `"text"`} {
		t.Run("empty for "+body, func(t *testing.T) {
			assert.Equal(t, APIResponse{}, ParseAPIResponse([]byte(body)))
		})
	}
}

func TestBuild_UnmarshalJSON_ScalarTypes(t *testing.T) {
	var b Build
	require.NoError(t, json.Unmarshal([]byte(`{"version":2,"buildDate":20260101,"notes":true,"url":"u"}`), &b))

	assert.Equal(t, Build{Version: "2", BuildDate: "20260101", Notes: "true", URL: "u"}, b)
}

func TestAPIResponse_Builds_MixedRecords(t *testing.T) {
	r := ParseAPIResponse([]byte(`{"ok":true,"data":[{"version":"1.2.0","url":"https://cdn.example/a.apk"},{"version":1.3,"url":"https://cdn.example/b.apk"}]}`))

	builds := r.Builds()

	require.Len(t, builds, 2)
	assert.Equal(t, "1.3", builds[1].Version)
	assert.Equal(t, BuildKey{Version: "1.3", URL: "https://cdn.example/b.apk"}, builds[1].Key())
}

func TestAPIResponse_Builds(t *testing.T) {
	tests := []struct {
		name string
		data string
		want int
	}{
		{name: "array", data: `[{"version":"1.0.0","buildDate":"2026-01-01","notes":"n","url":"u"}]`, want: 1},
		{name: "empty array", data: `[]`, want: 0},
		{name: "object", data: `{"version":"1.0.0"}`, want: 0},
		{name: "string", data: `"nope"`, want: 0},
		{name: "null", data: `null`, want: 0},
		{name: "numeric version kept", data: `[{"version":"1.2.0","url":"a"},{"version":1.3,"url":"b"}]`, want: 2},
		{name: "non-object elements skipped", data: `[{"version":"1.0.0"},"x",null,7]`, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := APIResponse{Data: json.RawMessage(tt.data)}

			got := r.Builds()

			require.NotNil(t, got)
			assert.Len(t, got, tt.want)
		})
	}

	assert.NotNil(t, APIResponse{}.Builds())
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "idle", StatusIdle.String())
	assert.Equal(t, "loading", StatusLoading.String())
	assert.Equal(t, "authed", StatusAuthed.String())
	assert.Equal(t, "error", StatusError.String())
	assert.Equal(t, "unknown", Status(42).String())
}

func TestSessionState_FindBuildAndClone(t *testing.T) {
	b := Build{Version: "1.0.0", URL: "https://x/a.apk"}
	s := SessionState{Status: StatusAuthed, Session: Credentials{AccessToken: "A1"}, Builds: []Build{b}}

	assert.True(t, s.IsAuthed())
	found, ok := s.FindBuild(b.Key())
	assert.True(t, ok)
	assert.Equal(t, b, found)
	_, ok = s.FindBuild(BuildKey{Version: "2.0.0"})
	assert.False(t, ok)

	clone := s.Clone()
	clone.Builds[0].Version = "changed"
	assert.Equal(t, "1.0.0", s.Builds[0].Version)
}

func TestAppBuildInfo_Defaults(t *testing.T) {
	info := NewAppBuildInfo(" ", "", "abc")

	assert.Equal(t, "N/A", info.BuildVersion())
	assert.Equal(t, "N/A", info.BuildDate())
	assert.Equal(t, "abc", info.BuildCommit())
	assert.Equal(t, "N/A", AppBuildInfo{}.BuildVersion())
}
