package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	App      AppConfig
	Sync     SyncConfig
	Report   ReportConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

// SyncConfig holds the facility sync scheduler configuration
type SyncConfig struct {
	Enabled       bool
	Interval      time.Duration
	DeviceTimeout time.Duration
	// Lookback bounds the first sync window for facilities that have
	// never synced.
	Lookback time.Duration
}

// ReportConfig bounds reporting queries
type ReportConfig struct {
	MaxRangeDays int
	MaxPageSize  int
}

func Load() (*Config, error) {
	// Missing .env is fine in production; env vars take over.
	_ = godotenv.Load()

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "attendsync"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	// Sync configuration
	syncInterval, err := strconv.Atoi(getEnv("SYNC_INTERVAL_MINUTES", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid SYNC_INTERVAL_MINUTES: %w", err)
	}

	deviceTimeout, err := strconv.Atoi(getEnv("DEVICE_TIMEOUT_SECONDS", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid DEVICE_TIMEOUT_SECONDS: %w", err)
	}

	config.Sync = SyncConfig{
		Enabled:       getEnv("SYNC_ENABLED", "true") == "true",
		Interval:      time.Duration(syncInterval) * time.Minute,
		DeviceTimeout: time.Duration(deviceTimeout) * time.Second,
		Lookback:      24 * time.Hour,
	}

	// Report configuration
	maxRangeDays, err := strconv.Atoi(getEnv("REPORT_MAX_RANGE_DAYS", "92"))
	if err != nil {
		return nil, fmt.Errorf("invalid REPORT_MAX_RANGE_DAYS: %w", err)
	}

	config.Report = ReportConfig{
		MaxRangeDays: maxRangeDays,
		MaxPageSize:  200,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.Sync.Interval < time.Minute {
		return fmt.Errorf("SYNC_INTERVAL_MINUTES must be at least 1")
	}
	if c.Report.MaxRangeDays < 1 {
		return fmt.Errorf("REPORT_MAX_RANGE_DAYS must be at least 1")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
