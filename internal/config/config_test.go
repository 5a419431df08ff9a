package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "terminal.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadTerminalConfig(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
api:
  base_url: http://localhost:5001/api
engine:
  history_limit: 20
server:
  port: "9000"
`)

	cfg, err := LoadTerminalConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5001/api", cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, 2*time.Second, cfg.Engine.PricePollInterval)
	assert.Equal(t, 5*time.Second, cfg.Engine.AccountPollInterval)
	assert.Equal(t, 20, cfg.Engine.HistoryLimit)
	assert.Equal(t, "./fx-terminal.db", cfg.Store.Path)
	assert.Equal(t, "9000", cfg.Server.Port)
}

func TestLoadTerminalConfigRequiresBaseURL(t *testing.T) {
	t.Parallel()

	_, err := LoadTerminalConfig(writeConfig(t, "server:\n  port: \"9000\"\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base_url is required")
}

func TestLoadTerminalConfigMissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadTerminalConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestEngineConfigSetupKeepsExplicitValues(t *testing.T) {
	t.Parallel()

	cfg := EngineConfig{
		PricePollInterval:   time.Second,
		AccountPollInterval: 30 * time.Second,
		HistoryLimit:        5,
	}
	cfg.Setup()

	assert.Equal(t, time.Second, cfg.PricePollInterval)
	assert.Equal(t, 30*time.Second, cfg.AccountPollInterval)
	assert.Equal(t, 5, cfg.HistoryLimit)
}

func TestLoadCredentialsFromEnv(t *testing.T) {
	t.Setenv("FX_TERMINAL_EMAIL", "trader@example.com")
	t.Setenv("FX_TERMINAL_PASSWORD", "secret")

	creds := LoadCredentialsFromEnv()
	assert.Equal(t, "trader@example.com", creds.Email)
	assert.Equal(t, "secret", creds.Password)
}
