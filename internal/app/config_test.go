package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeTestConfig(t, "server:\n  http-port: \":8080\"\n")

	cfg, realpath, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, path, realpath)

	// 显式配置的值
	assert.Equal(t, ":8080", cfg.Server.HttpPort)

	// 未配置的字段填充默认值
	assert.Equal(t, "release", cfg.Server.RunMode)
	assert.Equal(t, ":9001", cfg.Server.PrivateHttpListen)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, 10, cfg.App.DefaultPageSize)
	assert.Equal(t, 10, cfg.App.HistoryKeepVersions)
	assert.Equal(t, 200, cfg.App.ExcerptLength)
	assert.Equal(t, "view", cfg.Security.ShareDefaultPermission)
	assert.Equal(t, "365d", cfg.Security.TokenExpiry)
	assert.True(t, cfg.User.RegisterIsEnable)
	assert.True(t, cfg.Tracer.Enabled)
	assert.Equal(t, "X-Trace-ID", cfg.Tracer.Header)
}

func TestLoadConfig_Override(t *testing.T) {
	path := writeTestConfig(t, `
server:
  run-mode: debug
security:
  auth-token-key: custom-secret
  token-expiry: 24h
app:
  soft-delete-retention-time: 7d
  excerpt-length: 120
`)

	cfg, _, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Server.RunMode)
	assert.Equal(t, "custom-secret", cfg.Security.AuthTokenKey)
	assert.Equal(t, "7d", cfg.App.SoftDeleteRetentionTime)
	assert.Equal(t, 120, cfg.App.ExcerptLength)
	assert.Equal(t, 24*time.Hour, cfg.GetTokenExpiry())
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestAppConfig_GetContextTimeout(t *testing.T) {
	cfg := &AppConfig{}
	assert.Equal(t, 60*time.Second, cfg.GetContextTimeout())

	cfg.App.DefaultContextTimeout = 5
	assert.Equal(t, 5*time.Second, cfg.GetContextTimeout())
}

func TestAppConfig_SaveRoundTrip(t *testing.T) {
	path := writeTestConfig(t, "server:\n  http-port: \":7000\"\n")

	cfg, _, err := LoadConfig(path)
	require.NoError(t, err)

	cfg.Server.HttpPort = ":7001"
	require.NoError(t, cfg.Save())

	reloaded, _, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":7001", reloaded.Server.HttpPort)
}
