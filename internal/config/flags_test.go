package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseURL_Set(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "https url", input: "https://script.example/exec", want: "https://script.example/exec"},
		{name: "surrounding spaces", input: "  https://portal.example  ", want: "https://portal.example"},
		{name: "no scheme kept as given", input: "portal.example", want: "portal.example"},
		{name: "ftp scheme left to validation", input: "ftp://portal.example", want: "ftp://portal.example"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var u BaseURL
			require.NoError(t, u.Set(tt.input))
			assert.Equal(t, tt.want, u.String())
		})
	}
}

func TestBaseURL_String_Nil(t *testing.T) {
	var u *BaseURL
	assert.Equal(t, "", u.String())
}

func TestParseFlags_AllFlags(t *testing.T) {
	cfg, err := parseFlags([]string{
		"-api", "https://portal.example/exec",
		"-request-timeout", "20s",
		"-d", "session.db",
		"-o", "/tmp/apks",
		"-storage-key", "k",
		"-refresh-interval", "3m",
		"-config", "cfg.yaml",
		"-env-file", "portal.env",
	})

	require.NoError(t, err)
	assert.Equal(t, "https://portal.example/exec", cfg.Portal.APIBaseURL)
	assert.Equal(t, 20*time.Second, cfg.Adapter.RequestTimeout)
	assert.Equal(t, "session.db", cfg.Storage.DB.DSN)
	assert.Equal(t, "/tmp/apks", cfg.Storage.DownloadDir)
	assert.Equal(t, "k", cfg.App.StorageKey)
	assert.Equal(t, 3*time.Minute, cfg.Workers.ListRefreshInterval)
	assert.Equal(t, "cfg.yaml", cfg.FilePath)
	assert.Equal(t, "portal.env", cfg.EnvFilePath)
}

func TestParseFlags_ShortConfigAlias(t *testing.T) {
	cfg, err := parseFlags([]string{"-c", "cfg.json"})

	require.NoError(t, err)
	assert.Equal(t, "cfg.json", cfg.FilePath)
}

func TestParseFlags_NoArgs(t *testing.T) {
	cfg, err := parseFlags(nil)

	require.NoError(t, err)
	assert.Equal(t, ClientConfig{}, *cfg)
}

func TestParseFlags_MalformedURLIsNotAParseError(t *testing.T) {
	cfg, err := parseFlags([]string{"-api", "ftp://portal.example"})

	require.NoError(t, err)
	assert.Equal(t, "ftp://portal.example", cfg.Portal.APIBaseURL)
}

func TestParseFlags_UnknownFlag(t *testing.T) {
	_, err := parseFlags([]string{"-nope"})
	assert.Error(t, err)
}
