package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"jamservices/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
telegram:
  bot_token: "${JAM_TEST_TOKEN}"
database:
  path: "test.db"
session:
  ttl: 30m
  timezone: "UTC"
payment:
  success_rate: 0.5
  processing_delay: 100ms
api:
  enabled: true
  auth:
    enabled: true
    api_keys:
      - key: "secret"
        name: "ops"
`
	require.NoError(t, os.WriteFile(configPath, []byte(yamlContent), 0o644))
	t.Setenv("JAM_TEST_TOKEN", "test_token")

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, "test_token", cfg.Telegram.BotToken)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.Equal(t, 0.5, cfg.Payment.SuccessRate)
	assert.Equal(t, 100*time.Millisecond, cfg.Payment.ProcessingDelay)
	assert.Equal(t, 1500*time.Millisecond, cfg.Payment.ConfirmDelay)
	assert.True(t, cfg.API.HTTP.Enabled)
	assert.Len(t, cfg.API.Auth.APIKeys, 1)
	assert.Equal(t, 30, cfg.Telegram.RateLimitMessages)
	assert.Equal(t, time.Minute, cfg.Telegram.RateLimitWindow)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("database: [1, 2"), 0o644))
	_, err = Load(bad)
	assert.Error(t, err)

	invalid := filepath.Join(t.TempDir(), "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("app:\n  name: x\n"), 0o644))
	_, err = Load(invalid)
	assert.ErrorContains(t, err, "database path is required")
}

func TestValidateConfig(t *testing.T) {
	base := func() Config {
		cfg := Config{Database: DatabaseConfig{Path: "path"}}
		cfg.applyDefaults()
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid config", mutate: func(c *Config) {}},
		{name: "missing database", mutate: func(c *Config) { c.Database.Path = "" }, wantErr: true},
		{name: "success rate above one", mutate: func(c *Config) { c.Payment.SuccessRate = 1.5 }, wantErr: true},
		{name: "negative ttl", mutate: func(c *Config) { c.Session.TTL = -time.Second }, wantErr: true},
		{name: "unknown timezone", mutate: func(c *Config) { c.Session.Timezone = "Mars/Olympus" }, wantErr: true},
		{
			name: "empty api key",
			mutate: func(c *Config) {
				c.API.Auth.Enabled = true
				c.API.Auth.APIKeys = []APIClientKey{{Name: "ops"}}
			},
			wantErr: true,
		},
		{
			name: "duplicate api key",
			mutate: func(c *Config) {
				c.API.Auth.Enabled = true
				c.API.Auth.APIKeys = []APIClientKey{{Key: "k", Name: "a"}, {Key: "k", Name: "b"}}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateBot(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.ValidateBot())
	cfg.Telegram.BotToken = "YOUR_BOT_TOKEN_HERE"
	assert.Error(t, cfg.ValidateBot())
	cfg.Telegram.BotToken = "123:abc"
	assert.NoError(t, cfg.ValidateBot())
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	assert.Equal(t, 8080, cfg.API.HTTP.Port)
	assert.Equal(t, "x-api-key", cfg.API.Auth.HeaderAPIKey)
	assert.Equal(t, models.DefaultSessionTTL*time.Second, cfg.Session.TTL)
	assert.Equal(t, models.PaymentSuccessRate, cfg.Payment.SuccessRate)
	assert.Equal(t, 2*time.Second, cfg.Payment.ProcessingDelay)
	assert.Equal(t, models.PaymentRateLimitAttempts, cfg.Payment.RateLimitAttempts)
	assert.Equal(t, time.Minute, cfg.Payment.RateLimitWindow)
	assert.Equal(t, "exports", cfg.Exports.Path)
	assert.Zero(t, cfg.Monitoring.PrometheusPort)

	cfg = &Config{Monitoring: MonitoringConfig{PrometheusEnabled: true}}
	cfg.applyDefaults()
	assert.Equal(t, 9090, cfg.Monitoring.PrometheusPort)
}
