package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Database     DatabaseConfig
	Ticketmaster TicketmasterConfig
	Sync         SyncConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver   string // postgres, mysql or sqlite
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	Path     string // sqlite database file
}

// TicketmasterConfig holds Discovery API settings
type TicketmasterConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// SyncConfig holds sync pipeline tunables
type SyncConfig struct {
	TargetCount   int
	PageSize      int
	RetentionDays int
}

// MaxPageSize is the largest page the Discovery API accepts.
const MaxPageSize = 200

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Database: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", "postgres"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "concert_tracker"),
			Path:     getEnv("DB_PATH", "concert_tracker.db"),
		},
		Ticketmaster: TicketmasterConfig{
			APIKey:  getEnv("TICKETMASTER_API_KEY", ""),
			BaseURL: getEnv("TICKETMASTER_BASE_URL", ""),
			Timeout: time.Duration(getEnvInt("HTTP_TIMEOUT_SECONDS", 30)) * time.Second,
		},
		Sync: SyncConfig{
			TargetCount:   getEnvInt("SYNC_TARGET_COUNT", 100),
			PageSize:      getEnvInt("SYNC_PAGE_SIZE", 100),
			RetentionDays: getEnvInt("RETENTION_DAYS", 14),
		},
	}

	// Validate required fields
	if config.Ticketmaster.APIKey == "" {
		return nil, fmt.Errorf("TICKETMASTER_API_KEY is required")
	}

	if config.Sync.PageSize > MaxPageSize {
		config.Sync.PageSize = MaxPageSize
	}
	if config.Sync.RetentionDays <= 0 {
		return nil, fmt.Errorf("RETENTION_DAYS must be positive, got %d", config.Sync.RetentionDays)
	}

	return config, nil
}

// GetDSN returns the connection string for the configured driver
func (c *Config) GetDSN() string {
	switch c.Database.Driver {
	case "mysql":
		return fmt.Sprintf(
			"%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			c.Database.User,
			c.Database.Password,
			c.Database.Host,
			c.Database.Port,
			c.Database.DBName,
		)
	case "sqlite":
		return c.Database.Path
	default:
		return fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			c.Database.Host,
			c.Database.Port,
			c.Database.User,
			c.Database.Password,
			c.Database.DBName,
		)
	}
}

// getEnv gets an environment variable with a fallback default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt gets an integer environment variable with a fallback default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
