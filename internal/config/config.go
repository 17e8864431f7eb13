package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"jamservices/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	Telegram   TelegramConfig   `yaml:"telegram"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Backup     BackupConfig     `yaml:"backup"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
	API        APIConfig        `yaml:"api"`
	Session    SessionConfig    `yaml:"session"`
	Payment    PaymentConfig    `yaml:"payment"`
	Catalog    CatalogConfig    `yaml:"catalog"`
	Exports    ExportConfig     `yaml:"exports"`
}

type APIConfig struct {
	Enabled   bool               `yaml:"enabled"`
	HTTP      APIHTTPConfig      `yaml:"http"`
	Auth      APIAuthConfig      `yaml:"auth"`
	RateLimit APIRateLimitConfig `yaml:"rate_limit"`
}

type APIHTTPConfig struct {
	Enabled         bool          `yaml:"enabled"`
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// APIAuthConfig guards the booking history endpoints.
type APIAuthConfig struct {
	Enabled      bool           `yaml:"enabled"`
	HeaderAPIKey string         `yaml:"header_api_key"`
	APIKeys      []APIClientKey `yaml:"api_keys"`
}

type APIClientKey struct {
	Key         string   `yaml:"key"`
	Name        string   `yaml:"name"`
	Permissions []string `yaml:"permissions"`
}

type APIRateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type ExportConfig struct {
	Path string `yaml:"path"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type TelegramConfig struct {
	BotToken          string        `yaml:"bot_token"`
	Debug             bool          `yaml:"debug"`
	RateLimitMessages int           `yaml:"rate_limit_messages"`
	RateLimitWindow   time.Duration `yaml:"rate_limit_window"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type BackupConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Schedule      string `yaml:"schedule"`
	RetentionDays int    `yaml:"retention_days"`
	StoragePath   string `yaml:"storage_path"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

// SessionConfig controls wizard draft storage.
type SessionConfig struct {
	TTL      time.Duration `yaml:"ttl"`
	Timezone string        `yaml:"timezone"`
}

// PaymentConfig tunes the payment simulator.
type PaymentConfig struct {
	SuccessRate       float64       `yaml:"success_rate"`
	ProcessingDelay   time.Duration `yaml:"processing_delay"`
	ConfirmDelay      time.Duration `yaml:"confirm_delay"`
	RateLimitAttempts int           `yaml:"rate_limit_attempts"`
	RateLimitWindow   time.Duration `yaml:"rate_limit_window"`
}

// CatalogConfig points at a services file. Empty means the built-in catalog.
type CatalogConfig struct {
	Path string `yaml:"path"`
}

// Load reads .env when present, expands environment variables in the YAML file,
// applies defaults and validates.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return errors.New("database path is required")
	}
	if c.Payment.SuccessRate < 0 || c.Payment.SuccessRate > 1 {
		return fmt.Errorf("payment success_rate must be within [0, 1], got %v", c.Payment.SuccessRate)
	}
	if c.Session.TTL < 0 {
		return errors.New("session ttl must not be negative")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.API.Auth.Enabled {
		seen := make(map[string]bool)
		for _, k := range c.API.Auth.APIKeys {
			if k.Key == "" {
				return fmt.Errorf("api key %q is empty", k.Name)
			}
			if seen[k.Key] {
				return fmt.Errorf("duplicate api key for %q", k.Name)
			}
			seen[k.Key] = true
		}
	}
	return nil
}

// ValidateBot checks the settings only the Telegram front end needs.
func (c *Config) ValidateBot() error {
	if c.Telegram.BotToken == "" || c.Telegram.BotToken == "YOUR_BOT_TOKEN_HERE" {
		return errors.New("telegram bot token is required")
	}
	return nil
}

// Location resolves session.timezone. Empty means the process local zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Session.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Session.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid session timezone %q: %w", c.Session.Timezone, err)
	}
	return loc, nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "jamservices"
	}
	if c.Telegram.RateLimitMessages == 0 {
		c.Telegram.RateLimitMessages = 30
	}
	if c.Telegram.RateLimitWindow == 0 {
		c.Telegram.RateLimitWindow = time.Minute
	}
	if c.API.HTTP.Port == 0 {
		c.API.HTTP.Port = 8080
	}
	if c.API.HTTP.ReadTimeout == 0 {
		c.API.HTTP.ReadTimeout = 10 * time.Second
	}
	if c.API.HTTP.WriteTimeout == 0 {
		c.API.HTTP.WriteTimeout = 30 * time.Second
	}
	if c.API.HTTP.ShutdownTimeout == 0 {
		c.API.HTTP.ShutdownTimeout = 5 * time.Second
	}
	if !c.API.HTTP.Enabled && c.API.Enabled {
		c.API.HTTP.Enabled = true
	}
	if c.API.Auth.HeaderAPIKey == "" {
		c.API.Auth.HeaderAPIKey = "x-api-key"
	}
	if c.API.RateLimit.RPS == 0 {
		c.API.RateLimit.RPS = 10
	}
	if c.API.RateLimit.Burst == 0 {
		c.API.RateLimit.Burst = 20
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
	if c.Redis.PoolSize == 0 {
		c.Redis.PoolSize = 10
	}

	if c.Session.TTL == 0 {
		c.Session.TTL = models.DefaultSessionTTL * time.Second
	}

	if c.Payment.SuccessRate == 0 {
		c.Payment.SuccessRate = models.PaymentSuccessRate
	}
	if c.Payment.ProcessingDelay == 0 {
		c.Payment.ProcessingDelay = 2 * time.Second
	}
	if c.Payment.ConfirmDelay == 0 {
		c.Payment.ConfirmDelay = 1500 * time.Millisecond
	}
	if c.Payment.RateLimitAttempts == 0 {
		c.Payment.RateLimitAttempts = models.PaymentRateLimitAttempts
	}
	if c.Payment.RateLimitWindow == 0 {
		c.Payment.RateLimitWindow = models.PaymentRateLimitWindow * time.Second
	}

	if c.Exports.Path == "" {
		c.Exports.Path = "exports"
	}
}
