package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v10"
	"gopkg.in/yaml.v3"
)

// Session store backends.
const (
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
)

// Config defines server configuration. Values come from an optional YAML
// file, overridden by environment variables.
type Config struct {
	Host string `yaml:"host" env:"MELODIQ_HOST" envDefault:"0.0.0.0"`
	Port int    `yaml:"port" env:"MELODIQ_PORT" envDefault:"8080"`

	DBPath      string `yaml:"db_path" env:"MELODIQ_DB_PATH" envDefault:"melodiq.db"`
	CatalogPath string `yaml:"catalog_path" env:"MELODIQ_CATALOG_PATH"`

	// SessionStore selects where leases live: "sqlite" (default) or
	// "redis" for multi-pod deployments.
	SessionStore  string `yaml:"session_store" env:"MELODIQ_SESSION_STORE" envDefault:"sqlite"`
	RedisAddr     string `yaml:"redis_addr" env:"MELODIQ_REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `yaml:"redis_password" env:"MELODIQ_REDIS_PASSWORD"`

	// APIKey guards the REST surface; empty disables auth (local dev).
	APIKey string `yaml:"api_key" env:"MELODIQ_API_KEY"`

	LogLevel string `yaml:"log_level" env:"MELODIQ_LOG_LEVEL" envDefault:"info"`

	TasksPerLevel int `yaml:"tasks_per_level" env:"MELODIQ_TASKS_PER_LEVEL" envDefault:"5"`
	MaxLevel      int `yaml:"max_level" env:"MELODIQ_MAX_LEVEL" envDefault:"10"`
}

// Load reads configuration from an optional YAML file, then applies
// environment variables on top.
func Load() (Config, error) {
	var cfg Config

	if path := os.Getenv("MELODIQ_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.SessionStore != StoreSQLite && c.SessionStore != StoreRedis {
		return fmt.Errorf("invalid session_store %q: must be %q or %q", c.SessionStore, StoreSQLite, StoreRedis)
	}
	if c.TasksPerLevel < 1 {
		return fmt.Errorf("tasks_per_level must be >= 1, got %d", c.TasksPerLevel)
	}
	if c.MaxLevel < 1 {
		return fmt.Errorf("max_level must be >= 1, got %d", c.MaxLevel)
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
