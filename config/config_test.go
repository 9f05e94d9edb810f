package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost/sportshive?sslmode=disable")
	t.Setenv("JWT_SECRET_KEY", "secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CONFIG_FILE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, defaultChatAPIURL, cfg.Chat.APIURL)
	assert.Equal(t, defaultChatModel, cfg.Chat.Model)
	assert.Equal(t, defaultCleanupSchedule, cfg.Jobs.CleanupSchedule)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.Storage.Enabled())
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET_KEY", "secret")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_InvalidPort(t *testing.T) {
	setRequiredEnv(t)

	t.Setenv("SERVER_PORT", "abc")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("SERVER_PORT", "70000")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoad_YAMLFileThenEnvOverride(t *testing.T) {
	setRequiredEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := `server_port: 9090
log_level: debug
cors_allowed_origins:
  - https://sportshive.app
chat:
  model: yaml-model
jobs:
  cleanup_schedule: "0 4 * * *"
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("CHAT_MODEL", "env-model")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, []string{"https://sportshive.app"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "env-model", cfg.Chat.Model)
	assert.Equal(t, "0 4 * * *", cfg.Jobs.CleanupSchedule)

	level, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoad_StorageRequiresCredentials(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("S3_BUCKET", "avatars")

	_, err := Load()
	assert.Error(t, err)

	t.Setenv("S3_ACCESS_KEY_ID", "key")
	t.Setenv("S3_SECRET_ACCESS_KEY", "secret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Storage.Enabled())
}

func TestLoad_DatabasePool(t *testing.T) {
	setRequiredEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := `database:
  max_open_conns: 10
  conn_max_lifetime: 90s
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("DB_MAX_IDLE_CONNS", "3")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Database.MaxOpenConns)
	assert.Equal(t, 3, cfg.Database.MaxIdleConns)
	assert.Equal(t, 90*time.Second, cfg.Database.ConnMaxLifetime)

	t.Setenv("DB_CONN_MAX_LIFETIME", "soon")
	_, err = Load()
	assert.Error(t, err)

	t.Setenv("DB_CONN_MAX_LIFETIME", "")
	t.Setenv("DB_MAX_OPEN_CONNS", "-1")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoad_CORSOriginsFromEnv(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}
