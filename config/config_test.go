package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load([]string{"--env-file", noEnvFile(t)})
	require.NoError(t, err)
	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, ":8000", cfg.Addr())
	assert.Equal(t, StoreMongo, cfg.StoreBackend)
	assert.Equal(t, AuthFirebase, cfg.AuthMode)
	assert.Equal(t, []string{"admin@my-blog.com"}, cfg.AdminEmails)
	assert.Equal(t, 10*time.Second, cfg.StoreTimeout)
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte("port: 9000\nmongoDatabase: fromfile\nadminEmails: [a@example.com]\n"), 0o644))

	t.Setenv("MONGO_DATABASE", "fromenv")
	t.Setenv("ADMIN_EMAILS", "b@example.com, c@example.com")
	t.Setenv("STORE_TIMEOUT", "3s")

	cfg, err := Load([]string{"--config", file, "--env-file", noEnvFile(t), "--port", "9100"})
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Port)
	assert.Equal(t, "fromenv", cfg.MongoDatabase)
	assert.Equal(t, []string{"b@example.com", "c@example.com"}, cfg.AdminEmails)
	assert.Equal(t, 3*time.Second, cfg.StoreTimeout)
}

func TestLoadEnvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("NATS_URL=nats://example:4222\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("NATS_URL") })

	cfg, err := Load([]string{"--env-file", envFile})
	require.NoError(t, err)
	assert.Equal(t, "nats://example:4222", cfg.NATSURL)
}

func TestLoadRejectsBadPort(t *testing.T) {
	t.Setenv("PORT", "eighty")
	_, err := Load([]string{"--env-file", noEnvFile(t)})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	local := Default()
	local.AuthMode = AuthLocal
	assert.Error(t, local.Validate(), "local auth without secret")
	local.AuthSecret = "s"
	assert.NoError(t, local.Validate())

	unknown := Default()
	unknown.StoreBackend = "postgres"
	assert.Error(t, unknown.Validate())

	memory := Default()
	memory.StoreBackend = StoreMemory
	memory.MongoURI = ""
	assert.NoError(t, memory.Validate())
}
