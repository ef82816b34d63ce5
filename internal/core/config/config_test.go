package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setCredentials(t *testing.T) {
	t.Setenv("ALIBABA_APP_KEY", "2019459")
	t.Setenv("ALIBABA_APP_SECRET", "secret")
	t.Setenv("ALIBABA_ACCESS_TOKEN", "token")
}

// TestLoad_Defaults verifies that default values are used when env vars are missing.
func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("APP_ENV")
	os.Unsetenv("LOG_LEVEL")
	os.Unsetenv("SERVER_PORT")
	setCredentials(t)

	cfg, err := Load(".")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "https://gw.open.1688.com/openapi", cfg.Alibaba.GatewayURL)
	assert.Equal(t, 10*time.Second, cfg.Alibaba.DetailTimeout)
	assert.Equal(t, 15*time.Second, cfg.Alibaba.PayURLTimeout)
	assert.Equal(t, 3, cfg.Alibaba.PayURLMaxAttempts)
	assert.Equal(t, time.Second, cfg.Alibaba.PayURLRetryBackoff)
	assert.Empty(t, cfg.Redis.URL)
	assert.Equal(t, 10*time.Second, cfg.Redis.StatusTTL)
	assert.False(t, cfg.Proxy.HasProxy())
}

// TestLoad_EnvVars verifies that environment variables override defaults.
func TestLoad_EnvVars(t *testing.T) {
	setCredentials(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("ALIBABA_PAY_URL_TIMEOUT", "20s")
	t.Setenv("ALIBABA_PAY_URL_MAX_ATTEMPTS", "5")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("PROXY_ENABLED", "true")
	t.Setenv("PROXY_HOSTNAME", "proxy.local")
	t.Setenv("PROXY_PORT", "3128")

	cfg, err := Load(".")
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, "2019459", cfg.Alibaba.AppKey)
	assert.Equal(t, "token", cfg.Alibaba.AccessToken)
	assert.Equal(t, 20*time.Second, cfg.Alibaba.PayURLTimeout)
	assert.Equal(t, 5, cfg.Alibaba.PayURLMaxAttempts)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
	assert.True(t, cfg.Proxy.HasProxy())
	assert.Equal(t, "http://proxy.local:3128", cfg.Proxy.HostPort())
}

// TestLoad_File verifies that values are loaded from a .env file.
func TestLoad_File(t *testing.T) {
	content := []byte(`
APP_ENV=staging
LOG_LEVEL=warn
SERVER_PORT=7070
ALIBABA_APP_KEY=file_key
ALIBABA_APP_SECRET=file_secret
ALIBABA_ACCESS_TOKEN=file_token
ALIBABA_DETAIL_TIMEOUT=5s
`)
	err := os.WriteFile(".env", content, 0644)
	require.NoError(t, err)
	defer os.Remove(".env")

	cfg, err := Load(".")
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 7070, cfg.ServerPort)
	assert.Equal(t, "file_key", cfg.Alibaba.AppKey)
	assert.Equal(t, 5*time.Second, cfg.Alibaba.DetailTimeout)
}

// TestLoad_ValidationFailure verifies that missing required fields return an error.
func TestLoad_ValidationFailure(t *testing.T) {
	os.Unsetenv("ALIBABA_APP_KEY")
	os.Unsetenv("ALIBABA_APP_SECRET")
	os.Unsetenv("ALIBABA_ACCESS_TOKEN")

	cfg, err := Load(".")
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "missing required configuration")
}

// TestLoad_InvalidAttempts verifies that a non-positive attempt budget is rejected.
func TestLoad_InvalidAttempts(t *testing.T) {
	setCredentials(t)
	t.Setenv("ALIBABA_PAY_URL_MAX_ATTEMPTS", "0")

	cfg, err := Load(".")
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "ALIBABA_PAY_URL_MAX_ATTEMPTS")
}
