package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "portfolio-api", cfg.App.Name)
	assert.Equal(t, 5000, cfg.App.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "local", cfg.Storage.Driver)
	assert.Equal(t, "uploads", cfg.Storage.Dir)
	assert.Equal(t, "/uploads", cfg.Storage.URLPrefix)
	assert.Equal(t, int64(5*1024*1024), cfg.Upload.MaxFileSizeBytes)
	assert.Equal(t, 1, cfg.Upload.MaxMainImages)
	assert.Equal(t, 25, cfg.Upload.MaxOtherImages)
	assert.True(t, cfg.Project.ValidateOnUpdate)
	assert.False(t, cfg.Project.LegacyRequiredFields)
	assert.Equal(t, "local", cfg.Lock.Driver)
	assert.Equal(t, []string{"*"}, cfg.Cors.AllowOrigins)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORTFOLIO_APP_PORT", "8081")
	t.Setenv("PORTFOLIO_APP_ENV", "production")
	t.Setenv("PORTFOLIO_STORAGE_DIR", "/var/lib/portfolio")
	t.Setenv("PORTFOLIO_PROJECT_VALIDATE_ON_UPDATE", "false")
	t.Setenv("PORTFOLIO_UPLOAD_MAX_OTHER_IMAGES", "10")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.App.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "/var/lib/portfolio", cfg.Storage.Dir)
	assert.False(t, cfg.Project.ValidateOnUpdate)
	assert.Equal(t, 10, cfg.Upload.MaxOtherImages)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
database:
  driver: mongo
mongo:
  database: showcase
lock:
  driver: none
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "mongo", cfg.Database.Driver)
	assert.Equal(t, "showcase", cfg.Mongo.Database)
	assert.Equal(t, "projects", cfg.Mongo.Collection)
	assert.Equal(t, "none", cfg.Lock.Driver)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		cfg, err := Load()
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{
			name:   "unknown database driver",
			mutate: func(c *Config) { c.Database.Driver = "sqlite" },
			errMsg: "database.driver",
		},
		{
			name:   "s3 without bucket",
			mutate: func(c *Config) { c.Storage.Driver = "s3" },
			errMsg: "s3.bucket",
		},
		{
			name:   "unknown lock driver",
			mutate: func(c *Config) { c.Lock.Driver = "etcd" },
			errMsg: "lock.driver",
		},
		{
			name:   "zero file size",
			mutate: func(c *Config) { c.Upload.MaxFileSizeBytes = 0 },
			errMsg: "max_file_size_bytes",
		},
		{
			name:   "relative url prefix",
			mutate: func(c *Config) { c.Storage.URLPrefix = "uploads" },
			errMsg: "url_prefix",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
