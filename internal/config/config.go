package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the demo's settings loaded from configs/.env and the
// environment.
type Config struct {
	LogLevel string `mapstructure:"log_level"`

	Endpoint             string        `mapstructure:"endpoint"`
	APIKeyHeader         string        `mapstructure:"api_key_header"`
	FlushIntervalSeconds int64         `mapstructure:"flush_interval_seconds"`
	FlushInterval        time.Duration `mapstructure:"-"`
	MaxBatchSize         int           `mapstructure:"max_batch_size"`
	MaxRetries           int           `mapstructure:"max_retries"`
	HTTPTimeoutSeconds   int64         `mapstructure:"http_timeout_seconds"`
	HTTPTimeout          time.Duration `mapstructure:"-"`

	StorageType string `mapstructure:"storage_type"`
	StoragePath string `mapstructure:"storage_path"`

	SettingsFile   string `mapstructure:"settings_file"`
	AppName        string `mapstructure:"app_name"`
	AppVersion     string `mapstructure:"app_version"`
	AppPackageName string `mapstructure:"app_package_name"`
}

// Load reads configuration from configs/.env (if present) and environment
// variables, applying defaults for anything unset.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("log_level", "info")
	v.SetDefault("endpoint", "http://localhost:3000/events")
	v.SetDefault("api_key_header", "X-API-Key")
	v.SetDefault("flush_interval_seconds", 5)
	v.SetDefault("max_batch_size", 10)
	v.SetDefault("max_retries", 3)
	v.SetDefault("http_timeout_seconds", 10)
	v.SetDefault("storage_type", "file")
	v.SetDefault("storage_path", "./data/pending_events.json")
	v.SetDefault("settings_file", "./configs/settings.json")
	v.SetDefault("app_name", "quantcast-demo")
	v.SetDefault("app_version", "dev")
	v.SetDefault("app_package_name", "com.example.quantcast.demo")

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("endpoint must not be empty")
	}
	if cfg.FlushIntervalSeconds <= 0 {
		return nil, fmt.Errorf("invalid flush_interval_seconds (must be positive seconds)")
	}
	if cfg.HTTPTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid http_timeout_seconds (must be positive seconds)")
	}
	switch cfg.StorageType {
	case "file", "bbolt", "noop":
	default:
		return nil, fmt.Errorf("unknown storage_type %q (want file, bbolt or noop)", cfg.StorageType)
	}

	cfg.FlushInterval = time.Duration(cfg.FlushIntervalSeconds) * time.Second
	cfg.HTTPTimeout = time.Duration(cfg.HTTPTimeoutSeconds) * time.Second
	return &cfg, nil
}
