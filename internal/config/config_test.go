package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, BackendFile, cfg.Store.Backend)
	assert.Equal(t, 30*time.Second, cfg.Store.Timeout)
	assert.Equal(t, 100, cfg.Store.PageSize)
	assert.Equal(t, AuthStatic, cfg.Auth.Mode)
	assert.Equal(t, ":3000", cfg.Addr())
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `
server:
  port: 8088
  api_prefix: /api
store:
  backend: redis
  timeout: 5s
  redis:
    addr: cache:6379
    prefix: "reports:"
auth:
  mode: store
  username: admin
  password: secret
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8088, cfg.Server.Port)
	assert.Equal(t, "/api", cfg.Server.APIPrefix)
	assert.Equal(t, BackendRedis, cfg.Store.Backend)
	assert.Equal(t, 5*time.Second, cfg.Store.Timeout)
	assert.Equal(t, "cache:6379", cfg.Store.Redis.Addr)
	assert.Equal(t, "reports:", cfg.Store.Redis.Prefix)
	assert.Equal(t, AuthStore, cfg.Auth.Mode)
	// untouched keys keep their defaults
	assert.Equal(t, 100, cfg.Store.PageSize)
	assert.Equal(t, "data/reports.json", cfg.Store.File.Path)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: [not, a, number\n"), 0o600))

	cfg, err := Load(path)
	assert.Nil(t, cfg)
	assert.ErrorContains(t, err, path)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("STORE_BACKEND", "mongo")
	t.Setenv("STORE_TIMEOUT", "250ms")
	t.Setenv("MONGO_URI", "mongodb://db:27017")
	t.Setenv("ADMIN_USERNAME", "simon")
	t.Setenv("DB_PORT", "not-a-number")

	cfg := Default()
	cfg.applyEnvOverrides()

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, BackendMongo, cfg.Store.Backend)
	assert.Equal(t, 250*time.Millisecond, cfg.Store.Timeout)
	assert.Equal(t, "mongodb://db:27017", cfg.Store.Mongo.URI)
	assert.Equal(t, "simon", cfg.Auth.Username)
	assert.Equal(t, 3306, cfg.Store.Database.Port)
}

func TestValidate(t *testing.T) {
	t.Run("static auth needs credentials", func(t *testing.T) {
		cfg := Default()
		assert.Error(t, cfg.Validate())

		cfg.Auth.Username, cfg.Auth.Password = "admin", "pw"
		assert.NoError(t, cfg.Validate())
	})

	t.Run("store auth may start without a seed admin", func(t *testing.T) {
		cfg := Default()
		cfg.Auth.Mode = AuthStore
		assert.NoError(t, cfg.Validate())
	})

	t.Run("unknown backend", func(t *testing.T) {
		cfg := Default()
		cfg.Auth.Username, cfg.Auth.Password = "admin", "pw"
		cfg.Store.Backend = "fauna"
		assert.ErrorContains(t, cfg.Validate(), "fauna")
	})

	t.Run("unknown auth mode", func(t *testing.T) {
		cfg := Default()
		cfg.Auth.Mode = "jwt"
		assert.Error(t, cfg.Validate())
	})

	t.Run("page size", func(t *testing.T) {
		cfg := Default()
		cfg.Auth.Username, cfg.Auth.Password = "admin", "pw"
		cfg.Store.PageSize = 0
		assert.Error(t, cfg.Validate())
	})
}
