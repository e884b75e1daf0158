package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "stdout", cfg.Logging.Output)
	assert.Equal(t, "shot-history/1.0", cfg.Webhooks.ClientID)
	assert.Equal(t, 0, cfg.Webhooks.TimeoutSec)
	assert.Empty(t, cfg.Webhooks.SettingsURL)
	assert.False(t, cfg.OIDC.Enabled)
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yml := `
listen_addr: ":9090"
admin_key: "from-yaml"
webhooks:
  settings_url: "http://settings.local/api/settings"
  timeout_sec: 7
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))

	t.Setenv("SHOT_ADMIN_KEY", "from-env")
	t.Setenv("SHOT_WEBHOOK_TIMEOUT_SEC", "3")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, "from-env", cfg.AdminKey)
	assert.Equal(t, "http://settings.local/api/settings", cfg.Webhooks.SettingsURL)
	assert.Equal(t, 3, cfg.Webhooks.TimeoutSec)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestApplyEnv_IgnoresInvalidNumbers(t *testing.T) {
	t.Setenv("SHOT_MAX_UPLOAD_MB", "-4")
	t.Setenv("SHOT_WEBHOOK_TIMEOUT_SEC", "abc")
	t.Setenv("SHOT_OIDC_ENABLED", "TRUE")

	cfg := defaults()
	applyEnv(&cfg)

	assert.Equal(t, int64(10), cfg.MaxUploadMB)
	assert.Equal(t, 0, cfg.Webhooks.TimeoutSec)
	assert.True(t, cfg.OIDC.Enabled)
}

func TestApplyEnv_CORSOrigins(t *testing.T) {
	t.Setenv("SHOT_CORS_ORIGINS", " https://a.example , ,https://b.example")

	cfg := defaults()
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)

	applyEnv(&cfg)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}
