package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withArgs(t *testing.T, args ...string) {
	t.Helper()

	orig := os.Args
	os.Args = append([]string{"apk-portal"}, args...)
	t.Cleanup(func() { os.Args = orig })
}

func TestGetClientConfig_SchemeLessBaseURL(t *testing.T) {
	clearEnvVars(t)
	chdir(t, t.TempDir())
	withArgs(t)
	t.Setenv("PORTAL_API_BASE_URL", "script.google.com/macros/s/abc/exec")

	cfg, err := GetClientConfig()

	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "https://script.google.com/macros/s/abc/exec", cfg.Portal.APIBaseURL)
}

func TestGetClientConfig_InvalidBaseURL_ReturnsConfig(t *testing.T) {
	clearEnvVars(t)
	chdir(t, t.TempDir())
	withArgs(t, "-api", "ftp://portal.example")

	cfg, err := GetClientConfig()

	assert.ErrorIs(t, err, ErrInvalidAPIBaseURL)
	assert.True(t, IsPortalError(err))
	require.NotNil(t, cfg)
	assert.Equal(t, DefaultDSN, cfg.Storage.DB.DSN)
}

func TestGetClientConfig_MissingBaseURL_ReturnsConfig(t *testing.T) {
	clearEnvVars(t)
	chdir(t, t.TempDir())
	withArgs(t)

	cfg, err := GetClientConfig()

	assert.ErrorIs(t, err, ErrMissingAPIBaseURL)
	require.NotNil(t, cfg)
}

func TestGetClientConfig_OtherErrors_ReturnNil(t *testing.T) {
	clearEnvVars(t)
	chdir(t, t.TempDir())
	withArgs(t, "-request-timeout", "-1s", "-api", "https://portal.example")

	cfg, err := GetClientConfig()

	assert.ErrorIs(t, err, ErrInvalidAdapterConfigs)
	assert.False(t, IsPortalError(err))
	assert.Nil(t, cfg)
}
