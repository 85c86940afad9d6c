package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(EnvTelegramToken, "token-from-env")
	t.Setenv(EnvAPIURL, "")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)

	assert.Equal(t, "token-from-env", cfg.Telegram.Token)
	assert.Equal(t, "https://pepu-portfolio-tracker.onrender.com/portfolio", cfg.Upstream.BaseURL)
	assert.Equal(t, "wallet", cfg.Upstream.WalletParam)
	assert.Equal(t, int64(15000), cfg.Upstream.RequestTimeoutMillis)
	assert.Equal(t, 20, cfg.Render.PageSize)
	assert.Equal(t, "0.01", cfg.Render.NoiseThresholdDecimal().String())
	assert.Equal(t, "PEPU", cfg.Render.NativeSymbol)
	assert.Equal(t, 5, cfg.Promotion.MinRequests)
	assert.Equal(t, 10, cfg.Promotion.MaxRequests)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_FileAndOverrides(t *testing.T) {
	t.Setenv(EnvTelegramToken, "")
	t.Setenv(EnvAPIURL, "http://localhost:9000/portfolio")

	path := writeConfig(t, `
telegram:
  token: yaml-token
upstream:
  requestTimeoutMillis: 2500
render:
  pageSize: 10
  noiseThreshold: "0.5"
  footer: "Check us out"
promotion:
  enabled: true
  minRequests: 2
  maxRequests: 4
  text: "Join the channel"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "yaml-token", cfg.Telegram.Token)
	assert.Equal(t, "http://localhost:9000/portfolio", cfg.Upstream.BaseURL)
	assert.Equal(t, int64(2500), cfg.Upstream.RequestTimeoutMillis)
	assert.Equal(t, 2500, int(cfg.Upstream.RequestTimeout().Milliseconds()))
	assert.Equal(t, 10, cfg.Render.PageSize)
	assert.Equal(t, "0.5", cfg.Render.NoiseThresholdDecimal().String())
	assert.Equal(t, "Check us out", cfg.Render.Footer)
	assert.True(t, cfg.Promotion.Enabled)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv(EnvTelegramToken, "")
	t.Setenv(EnvAPIURL, "")

	path := writeConfig(t, `
render:
  pageSize: -1
  noiseThreshold: "abc"
promotion:
  enabled: true
  minRequests: 5
  maxRequests: 3
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "telegram token is required")
	assert.Contains(t, err.Error(), "render.pageSize")
	assert.Contains(t, err.Error(), "noiseThreshold")
	assert.Contains(t, err.Error(), "promotion range")
	assert.Contains(t, err.Error(), "promotion.text")

	_, err = Load(writeConfig(t, "telegram: [unclosed"))
	require.Error(t, err)
}
