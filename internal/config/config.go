package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	ThingSpeak ThingSpeakConfig
	Collector  CollectorConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	Path string
}

// ThingSpeakConfig holds the remote channel credentials and endpoint.
type ThingSpeakConfig struct {
	BaseURL     string
	ChannelID   string
	ReadAPIKey  string
	WriteAPIKey string
	Timeout     time.Duration
}

// CollectorConfig holds the collection scheduler cadence.
type CollectorConfig struct {
	Interval            time.Duration
	MaintenanceInterval time.Duration
}

// Load reads configuration from the environment. A .env file is loaded first
// when present; missing files are ignored so the process also works with
// variables set directly.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "3000"),
			ReadTimeout:  getDuration("READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getDuration("WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:  getDuration("IDLE_TIMEOUT", 120*time.Second),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "data/aquaponia.db"),
		},
		ThingSpeak: ThingSpeakConfig{
			BaseURL:     getEnv("THINGSPEAK_BASE_URL", "https://api.thingspeak.com"),
			ChannelID:   getEnv("THINGSPEAK_CHANNEL_ID", ""),
			ReadAPIKey:  getEnv("THINGSPEAK_READ_API_KEY", ""),
			WriteAPIKey: getEnv("THINGSPEAK_WRITE_API_KEY", ""),
			Timeout:     getDuration("THINGSPEAK_TIMEOUT", 10*time.Second),
		},
		Collector: CollectorConfig{
			Interval:            getDuration("COLLECT_INTERVAL", time.Minute),
			MaintenanceInterval: getDuration("MAINTENANCE_INTERVAL", time.Hour),
		},
	}

	return cfg, nil
}

// Validate checks the fields the collection service cannot run without.
// Read-only commands work with a partial configuration and skip this.
func (c *Config) Validate() error {
	if c.ThingSpeak.ChannelID == "" {
		return fmt.Errorf("THINGSPEAK_CHANNEL_ID is required")
	}

	return nil
}

// getEnv returns the environment variable value or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDuration returns the environment variable parsed as a duration or a default.
func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getInt returns the environment variable parsed as an integer or a default.
func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
