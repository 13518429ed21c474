package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Environment names accepted by APP_ENV.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Extractor ExtractorConfig `yaml:"extractor"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string        `yaml:"host" envconfig:"SERVER_HOST"`
	Port            int           `yaml:"port" envconfig:"PORT"`
	Env             string        `yaml:"env" envconfig:"APP_ENV"`
	Workers         int           `yaml:"workers" envconfig:"WORKERS"`
	APIKey          string        `yaml:"api_key" envconfig:"API_KEY"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"SERVER_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"SERVER_WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SERVER_SHUTDOWN_TIMEOUT"`
}

// StorageConfig holds temporary storage configuration.
type StorageConfig struct {
	TempPath      string        `yaml:"temp_path" envconfig:"STORAGE_TEMP_PATH"`
	MinFreeBytes  int64         `yaml:"min_free_bytes" envconfig:"STORAGE_MIN_FREE_BYTES"`
	SweepAge      time.Duration `yaml:"sweep_age" envconfig:"STORAGE_SWEEP_AGE"`
	SweepInterval time.Duration `yaml:"sweep_interval" envconfig:"STORAGE_SWEEP_INTERVAL"`
}

// ExtractorConfig holds yt-dlp invocation settings.
type ExtractorConfig struct {
	BinaryPath         string        `yaml:"binary_path" envconfig:"EXTRACTOR_BINARY"`
	Timeout            time.Duration `yaml:"timeout" envconfig:"EXTRACTOR_TIMEOUT"`
	CancelOnDisconnect bool          `yaml:"cancel_on_disconnect" envconfig:"EXTRACTOR_CANCEL_ON_DISCONNECT"`
}

// RateLimitConfig configures the per-process token bucket. Zero RPS disables it.
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps" envconfig:"RATE_LIMIT_RPS"`
	Burst int     `yaml:"burst" envconfig:"RATE_LIMIT_BURST"`
}

// Default returns the configuration used when neither file nor environment
// sets a value.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            5000,
			Env:             EnvProduction,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Minute,
			ShutdownTimeout: 30 * time.Second,
		},
		Storage: StorageConfig{
			TempPath:      filepath.Join(os.TempDir(), "vidfetch"),
			MinFreeBytes:  1 << 30,
			SweepAge:      time.Hour,
			SweepInterval: 15 * time.Minute,
		},
		Extractor: ExtractorConfig{
			Timeout: 300 * time.Second,
		},
		RateLimit: RateLimitConfig{
			Burst: 10,
		},
	}
}

// Load reads configuration from file and environment variables.
// Precedence is environment, then file, then Default.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	// Load from YAML file if provided
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	// Override with environment variables
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Validate checks that configuration values are usable.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Env != EnvDevelopment && c.Server.Env != EnvProduction {
		return fmt.Errorf("APP_ENV must be %q or %q, got %q", EnvDevelopment, EnvProduction, c.Server.Env)
	}
	if c.Server.Workers < 0 {
		return fmt.Errorf("WORKERS must not be negative")
	}
	if c.Storage.TempPath == "" {
		return fmt.Errorf("STORAGE_TEMP_PATH is required")
	}
	if c.Storage.SweepInterval < 0 {
		return fmt.Errorf("STORAGE_SWEEP_INTERVAL must not be negative")
	}
	if c.Extractor.Timeout <= 0 {
		return fmt.Errorf("EXTRACTOR_TIMEOUT must be positive")
	}
	if c.RateLimit.RPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must not be negative")
	}
	if c.RateLimit.RPS > 0 && c.RateLimit.Burst <= 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be positive when rate limiting is enabled")
	}
	return nil
}

// Address returns the server address in host:port format.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDevelopment reports whether the server runs in development mode.
func (c *ServerConfig) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}
