package config

import (
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"gohstat/internal/errors"

	"github.com/joho/godotenv"
)

// Config represents the complete application configuration
type Config struct {
	Engine   EngineConfig
	Database DatabaseConfig
	Server   ServerConfig
	LogLevel string
}

// EngineConfig holds the H-statistic defaults. MaxNMax and MaxWorkers cap
// per-request values; 0 leaves them unbounded.
type EngineConfig struct {
	NMax       int
	Eps        float64
	Workers    int
	MaxNMax    int
	MaxWorkers int
}

// DatabaseConfig holds database connection settings. An empty URL disables persistence.
type DatabaseConfig struct {
	URL          string
	MaxOpenConns int
}

// Enabled reports whether a database is configured
func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	MaxBodyBytes    int64
}

// Load reads an optional .env file, then the environment, and validates the result
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, errors.Wrap(err, "failed to load .env")
		}
	}
	return FromEnv()
}

// FromEnv reads configuration from environment variables only
func FromEnv() (*Config, error) {
	engine, err := loadEngineConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load engine configuration")
	}

	database, err := loadDatabaseConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load database configuration")
	}

	server, err := loadServerConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load server configuration")
	}

	config := &Config{
		Engine:   *engine,
		Database: *database,
		Server:   *server,
		LogLevel: strings.ToUpper(getEnvOrDefault("LOG_LEVEL", "INFO")),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadEngineConfig() (*EngineConfig, error) {
	nMax, err := getEnvInt("HSTAT_N_MAX", 500)
	if err != nil {
		return nil, err
	}
	eps, err := getEnvFloat("HSTAT_EPS", 1e-10)
	if err != nil {
		return nil, err
	}
	workers, err := getEnvInt("HSTAT_WORKERS", 1)
	if err != nil {
		return nil, err
	}
	maxNMax, err := getEnvInt("HSTAT_MAX_N_MAX", 5000)
	if err != nil {
		return nil, err
	}
	maxWorkers, err := getEnvInt("HSTAT_MAX_WORKERS", 64)
	if err != nil {
		return nil, err
	}
	return &EngineConfig{NMax: nMax, Eps: eps, Workers: workers, MaxNMax: maxNMax, MaxWorkers: maxWorkers}, nil
}

func loadDatabaseConfig() (*DatabaseConfig, error) {
	maxOpen, err := getEnvInt("DB_MAX_OPEN_CONNS", 10)
	if err != nil {
		return nil, err
	}
	return &DatabaseConfig{
		URL:          os.Getenv("DATABASE_URL"),
		MaxOpenConns: maxOpen,
	}, nil
}

func loadServerConfig() (*ServerConfig, error) {
	read, err := getEnvDuration("HTTP_READ_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	write, err := getEnvDuration("HTTP_WRITE_TIMEOUT", 5*time.Minute)
	if err != nil {
		return nil, err
	}
	shutdown, err := getEnvDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	maxBody, err := getEnvInt("HTTP_MAX_BODY_BYTES", 32<<20)
	if err != nil {
		return nil, err
	}
	return &ServerConfig{
		Port:            getEnvOrDefault("PORT", "8080"),
		ReadTimeout:     read,
		WriteTimeout:    write,
		ShutdownTimeout: shutdown,
		MaxBodyBytes:    int64(maxBody),
	}, nil
}

func validateConfig(config *Config) error {
	if config.Engine.NMax < 1 {
		return errors.ConfigInvalid("HSTAT_N_MAX must be at least 1")
	}
	if math.IsNaN(config.Engine.Eps) || config.Engine.Eps < 0 {
		return errors.ConfigInvalid("HSTAT_EPS must be a non-negative number")
	}
	if config.Engine.Workers < 1 {
		return errors.ConfigInvalid("HSTAT_WORKERS must be at least 1")
	}
	if config.Engine.MaxNMax < config.Engine.NMax {
		return errors.ConfigInvalid("HSTAT_MAX_N_MAX must be at least HSTAT_N_MAX")
	}
	if config.Engine.MaxWorkers < config.Engine.Workers {
		return errors.ConfigInvalid("HSTAT_MAX_WORKERS must be at least HSTAT_WORKERS")
	}
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT is required")
	}
	if config.Server.MaxBodyBytes < 1 {
		return errors.ConfigInvalid("HTTP_MAX_BODY_BYTES must be positive")
	}
	switch config.LogLevel {
	case "ERROR", "WARN", "INFO", "DEBUG", "TRACE":
	default:
		return errors.ConfigInvalid("LOG_LEVEL must be one of ERROR, WARN, INFO, DEBUG, TRACE")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.ConfigInvalid(key + " must be an integer, got " + strconv.Quote(value))
	}
	return intValue, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, errors.ConfigInvalid(key + " must be a number, got " + strconv.Quote(value))
	}
	return floatValue, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return 0, errors.ConfigInvalid(key + " must be a duration, got " + strconv.Quote(value))
	}
	return duration, nil
}
