package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	apperrors "github.com/pratik-mahalle/d9sync/internal/pkg/errors"
	"github.com/pratik-mahalle/d9sync/internal/pkg/validator"
)

// DefaultRegistryURL is the production Dome9 API endpoint.
const DefaultRegistryURL = "https://api.dome9.com"

// Config holds all application configuration
type Config struct {
	Registry RegistryConfig
	GCP      GCPConfig
	Sync     SyncConfig
	Logging  LoggingConfig
	Notify   NotifyConfig
	Metrics  MetricsConfig

	loadErrs []string // reported by Validate
}

// RegistryConfig contains the Dome9 API connection settings
type RegistryConfig struct {
	BaseURL   string        `env:"D9_API" validate:"required,url"`
	APIKey    string        `env:"D9_API_KEY" validate:"required"`
	APISecret string        `env:"D9_API_SECRET" validate:"required"`
	Timeout   time.Duration `env:"D9_TIMEOUT" validate:"gt=0"`
}

// GCPConfig contains Google Cloud settings
type GCPConfig struct {
	CredentialsFile string `env:"GOOGLE_APPLICATION_CREDENTIALS" validate:"required"`
	// Endpoint overrides the Resource Manager endpoint; empty means the
	// public Google API.
	Endpoint string `env:"GCP_RESOURCE_MANAGER_ENDPOINT" validate:"omitempty,url"`
}

// SyncConfig contains reconciliation settings
type SyncConfig struct {
	PacingInterval time.Duration `env:"D9_PACING_INTERVAL" validate:"gte=0"`
	Schedule       string        `env:"D9SYNC_SCHEDULE"`
	// ListenAddr enables the status server in schedule mode
	ListenAddr string `env:"D9SYNC_LISTEN_ADDR" validate:"omitempty,hostname_port"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL" validate:"oneof=debug info warn error disabled"`
	Format string `env:"LOG_FORMAT" validate:"oneof=auto json console"`
}

// NotifyConfig contains run summary notification settings
type NotifyConfig struct {
	SlackWebhookURL string `env:"SLACK_WEBHOOK_URL" validate:"omitempty,url"`
	SlackChannel    string `env:"SLACK_CHANNEL"`
}

// MetricsConfig contains Prometheus Pushgateway settings
type MetricsConfig struct {
	PushgatewayURL string `env:"PUSHGATEWAY_URL" validate:"omitempty,url"`
	JobName        string `env:"PUSHGATEWAY_JOB"`
}

// Load loads configuration from environment variables. It does not validate;
// callers apply flag overrides first and then call Validate.
func Load() *Config {
	// Load .env file if it exists (ignore errors as it's optional)
	_ = godotenv.Load()

	var loadErrs []string
	duration := func(key string, defaultValue time.Duration) time.Duration {
		value, err := getEnvAsDuration(key, defaultValue)
		if err != nil {
			loadErrs = append(loadErrs, err.Error())
		}
		return value
	}

	cfg := &Config{
		Registry: RegistryConfig{
			BaseURL:   getEnv("D9_API", DefaultRegistryURL),
			APIKey:    os.Getenv("D9_API_KEY"),
			APISecret: os.Getenv("D9_API_SECRET"),
			Timeout:   duration("D9_TIMEOUT", 30*time.Second),
		},
		GCP: GCPConfig{
			CredentialsFile: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
			Endpoint:        os.Getenv("GCP_RESOURCE_MANAGER_ENDPOINT"),
		},
		Sync: SyncConfig{
			PacingInterval: duration("D9_PACING_INTERVAL", time.Second),
			Schedule:       getEnv("D9SYNC_SCHEDULE", "@hourly"),
			ListenAddr:     os.Getenv("D9SYNC_LISTEN_ADDR"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "auto"),
		},
		Notify: NotifyConfig{
			SlackWebhookURL: os.Getenv("SLACK_WEBHOOK_URL"),
			SlackChannel:    getEnv("SLACK_CHANNEL", "#security"),
		},
		Metrics: MetricsConfig{
			PushgatewayURL: os.Getenv("PUSHGATEWAY_URL"),
			JobName:        getEnv("PUSHGATEWAY_JOB", "d9sync"),
		},
	}
	cfg.loadErrs = loadErrs
	return cfg
}

// Validate validates the configuration. Missing credentials are reported as
// a config error so the run stops before any request is made.
func (c *Config) Validate() error {
	v := validator.New()
	var errs []validator.ValidationError
	for _, msg := range c.loadErrs {
		errs = append(errs, validator.ValidationError{Message: msg})
	}
	for _, section := range []interface{}{c.Registry, c.GCP, c.Sync, c.Logging, c.Notify, c.Metrics} {
		errs = append(errs, v.Validate(section)...)
	}
	if len(errs) > 0 {
		return apperrors.ConfigError(validator.Join(errs))
	}
	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsDuration returns the default for an unset variable and an error
// for one that does not parse
func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue, fmt.Errorf("%s must be a duration such as 30s or 500ms, got %q", key, valueStr)
	}
	return value, nil
}
