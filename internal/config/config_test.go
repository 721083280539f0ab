package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "database:\n  url: postgres://localhost/db\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "gemini-2.0-flash-lite", cfg.Generator.Model)
	assert.Equal(t, 30*time.Second, cfg.Generator.Timeout)
	assert.Equal(t, uint32(5), cfg.Generator.Breaker.MinRequests)
	assert.Equal(t, 2*time.Minute, cfg.Auth.Leeway)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "postgres://localhost/db", cfg.Database.DSN)
}

func TestLoad_FileValues(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
  shutdown_timeout: 3s
generator:
  model: custom-model
  timeout: 5s
log:
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "custom-model", cfg.Generator.Model)
	assert.Equal(t, 5*time.Second, cfg.Generator.Timeout)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "generator:\n  api_key: from-file\nauth:\n  jwt_secret: from-file\n")
	t.Setenv("GOOGLE_AI_API_KEY", "from-env")
	t.Setenv("AUTH_JWT_SECRET", "secret-env")
	t.Setenv("DATABASE_URL", "postgres://env/db")
	t.Setenv("PORT", "7070")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Generator.APIKey)
	assert.Equal(t, "secret-env", cfg.Auth.JWTSecret)
	assert.Equal(t, "postgres://env/db", cfg.Database.DSN)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := writeConfig(t, "server: [not, a, map")
	_, err = Load(path)
	assert.Error(t, err)
}

func TestPath(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	assert.Equal(t, "config/config.yaml", Path())

	t.Setenv("CONFIG_PATH", "/etc/taskpilot.yaml")
	assert.Equal(t, "/etc/taskpilot.yaml", Path())
}
