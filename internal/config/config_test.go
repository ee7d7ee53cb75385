package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/portfolio/internal/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))

	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5*time.Minute, cfg.Metrics.Interval)
	assert.Equal(t, 10*time.Second, cfg.Metrics.FetchTimeout)
	assert.Equal(t, 50, cfg.Metrics.ActiveDayWindow)
	assert.Equal(t, 100, cfg.GitHub.PerPage)
	assert.Equal(t, "https://api.github.com", cfg.GitHub.BaseURL)
	assert.Equal(t, 1500*time.Millisecond, cfg.Contact.Delay)
	assert.Equal(t, "portfolio.db", cfg.Database.Path)
	assert.Equal(t, "./static", cfg.Server.StaticDir)
}

func TestLoad_YAMLAndEnvOverrides(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("PORT", "9191")
	t.Setenv("METRICS_INTERVAL", "90s")
	t.Setenv("APP_DEBUG", "true")

	path := writeConfig(t, `
server:
  port: 8000
github:
  actor: octocat
metrics:
  fetch_timeout: 3s
admin:
  password: secret
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9191, cfg.Server.Port, "env wins over yaml")
	assert.True(t, cfg.Server.Debug)
	assert.Equal(t, "octocat", cfg.GitHub.Actor)
	assert.Equal(t, 90*time.Second, cfg.Metrics.Interval)
	assert.Equal(t, 3*time.Second, cfg.Metrics.FetchTimeout)
	require.NoError(t, cfg.Validate())
}

func TestLoad_InvalidYAML(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	path := writeConfig(t, "server: [unclosed")

	_, err := config.Load(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))

	tests := []struct {
		name   string
		mutate func(*config.Config)
		field  string
	}{
		{"bad port", func(c *config.Config) { c.Server.Port = 70000 }, "server.port"},
		{"page size too large", func(c *config.Config) { c.GitHub.PerPage = 101 }, "github.per_page"},
		{"missing admin password", func(c *config.Config) { c.Admin.Password = "" }, "admin.password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yml"))
			require.NoError(t, err)
			cfg.Admin.Password = "pw"
			tt.mutate(cfg)

			err = cfg.Validate()
			var vErr *config.ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}
