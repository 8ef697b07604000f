package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bistro/storefront/config"
)

func TestLoad_ExpandsEnvPlaceholders(t *testing.T) {
	t.Setenv("TEST_ADMIN_HASH", "$2a$10$abcdefghijklmnopqrstuv")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9000
store:
  backend: redis
  redis:
    address: localhost:6379
admin:
  username: chef
  password_hash: ${TEST_ADMIN_HASH}
`), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "redis", cfg.Store.Backend)
	assert.Equal(t, "chef", cfg.Admin.Username)
	assert.Equal(t, "$2a$10$abcdefghijklmnopqrstuv", cfg.Admin.PasswordHash)
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Store.Backend)
	assert.Equal(t, 60, cfg.Store.CacheTTLSeconds)
	assert.Equal(t, "admin", cfg.Admin.Username)
}

func TestLoad_MissingFileErrors(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
