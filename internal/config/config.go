// Package config loads the service configuration from a YAML file with
// environment variable overrides for deployment secrets.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the scheduling service.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Weather   WeatherConfig   `yaml:"weather"`
	Forecast  ForecastConfig  `yaml:"forecast"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Addr returns the listen address in host:port form.
func (c ServerConfig) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

// DatabaseConfig holds the PostgreSQL connection settings.
type DatabaseConfig struct {
	URL string `yaml:"url"`
}

// WeatherConfig holds the store location and the forecast endpoint settings.
// Timezone is fixed to Asia/Tokyo by the provider; only the coordinates and
// the cache vary per deployment.
type WeatherConfig struct {
	BaseURL         string  `yaml:"base_url"`
	Latitude        float64 `yaml:"latitude"`
	Longitude       float64 `yaml:"longitude"`
	CacheTTLMinutes int     `yaml:"cache_ttl_minutes"`
	RedisAddr       string  `yaml:"redis_addr"` // optional; in-memory cache when empty
	MaxRetries      int     `yaml:"max_retries"`
}

// CacheTTL returns the weather cache TTL as a duration.
func (c WeatherConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLMinutes) * time.Minute
}

// ForecastConfig points at the frozen sales model artifact.
type ForecastConfig struct {
	ModelPath string `yaml:"model_path"`
}

// SchedulerConfig bounds the constraint solver.
type SchedulerConfig struct {
	TimeBudgetSeconds int `yaml:"time_budget_seconds"`
}

// TimeBudget returns the solver wall-clock cap as a duration.
func (c SchedulerConfig) TimeBudget() time.Duration {
	return time.Duration(c.TimeBudgetSeconds) * time.Second
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads and parses the configuration file, applying defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// LoadFromEnv loads configuration with environment variable overrides.
// A .env file (if present) is loaded first so secrets can live in .env
// locally and in real env vars in production.
func LoadFromEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if url := os.Getenv("DATABASE_URL"); url != "" {
		cfg.Database.URL = url
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Weather.RedisAddr = addr
	}
	if model := os.Getenv("SALES_MODEL_PATH"); model != "" {
		cfg.Forecast.ModelPath = model
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Weather.BaseURL == "" {
		cfg.Weather.BaseURL = "https://api.open-meteo.com/v1/forecast"
	}
	if cfg.Weather.Latitude == 0 && cfg.Weather.Longitude == 0 {
		// The Saitama store.
		cfg.Weather.Latitude = 35.8617
		cfg.Weather.Longitude = 139.6455
	}
	if cfg.Weather.CacheTTLMinutes == 0 {
		cfg.Weather.CacheTTLMinutes = 60
	}
	if cfg.Weather.MaxRetries == 0 {
		cfg.Weather.MaxRetries = 5
	}
	if cfg.Forecast.ModelPath == "" {
		cfg.Forecast.ModelPath = "model/sales_model.json"
	}
	if cfg.Scheduler.TimeBudgetSeconds == 0 {
		cfg.Scheduler.TimeBudgetSeconds = 10
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "INFO"
	}
}
