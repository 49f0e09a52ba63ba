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
	dir := filepath.Join(t.TempDir(), "configs")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0644))
	return dir
}

func TestLoadConfigDefaults(t *testing.T) {
	uploads := filepath.Join(t.TempDir(), "uploads")
	dir := writeConfig(t, `
jwt:
  secret: short
storage:
  local_path: `+uploads+`
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 24*time.Hour, cfg.JWT.ExpireTime)
	assert.Equal(t, "pdf", cfg.Certificate.Format)
	assert.Equal(t, 1000, cfg.RateLimit.MaxRequests)

	_, err = os.Stat(uploads)
	assert.NoError(t, err)
}

func TestLoadConfigRejectsWeakSecretInRelease(t *testing.T) {
	dir := writeConfig(t, `
server:
  mode: release
jwt:
  secret: short
storage:
  type: oss
`)

	_, err := LoadConfig(dir)
	assert.Error(t, err)
}

func TestLoadConfigRejectsUnknownCertificateFormat(t *testing.T) {
	dir := writeConfig(t, `
certificate:
  format: docx
storage:
  type: oss
`)

	_, err := LoadConfig(dir)
	assert.Error(t, err)
}
