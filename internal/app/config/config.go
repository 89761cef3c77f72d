// Package config defines the application configuration, built once at process
// start and passed into component constructors. No component reads environment
// variables directly.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// defaultDBPassword is the development-only default. Validate rejects it when
// ENV is production.
const defaultDBPassword = "postgres"

// DBConfig holds PostgreSQL connection parameters.
type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// RedisConfig holds Redis connection parameters. An empty Addr disables the cache.
type RedisConfig struct {
	Addr     string
	Password string
}

// Config is the full application configuration.
type Config struct {
	DB       DBConfig
	Redis    RedisConfig
	LogLevel string // slog level: DEBUG, INFO, WARN, ERROR
	Port     int    // HTTP listening port
	Env      string // deployment environment: development, staging, production
}

// Load builds a Config from environment variables with documented defaults.
func Load() (*Config, error) {
	dbPort, err := intEnv("DB_PORT", 5432)
	if err != nil {
		return nil, err
	}
	port, err := intEnv("PORT", 8000)
	if err != nil {
		return nil, err
	}

	var redisAddr string
	if host := os.Getenv("REDIS_HOST"); host != "" {
		redisAddr = host + ":" + getenv("REDIS_PORT", "6379")
	}

	return &Config{
		DB: DBConfig{
			Host:     getenv("DB_HOST", "postgres"),
			Port:     dbPort,
			User:     getenv("DB_USER", "postgres"),
			Password: getenv("DB_PASSWORD", defaultDBPassword),
			Name:     getenv("DB_NAME", "stocks"),
			SSLMode:  getenv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     redisAddr,
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		LogLevel: getenv("LOG_LEVEL", "INFO"),
		Port:     port,
		Env:      getenv("ENV", "development"),
	}, nil
}

// Validate checks required configuration at startup.
func (c *Config) Validate() error {
	switch c.Env {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("invalid ENV: %q", c.Env)
	}
	if c.Env == "production" && (c.DB.Password == defaultDBPassword || c.DB.Password == "password") {
		return fmt.Errorf("default DB_PASSWORD used in production")
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return n, nil
}
