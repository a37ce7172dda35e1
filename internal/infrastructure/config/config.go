package config

import (
	"fmt"
	"os"
	"strconv"
)

// Supported DB_DRIVER values.
const (
	DBDriverPostgres = "postgres"
	DBDriverOracle   = "oracle"
	DBDriverGorm     = "gorm"
	DBDriverMemory   = "memory"
)

type Config struct {
	DBDriver          string
	DBDSN             string
	ServerPort        string
	ServerHost        string
	LogLevel          string
	SeedDatabase      bool
	StreamChannelSize int
}

func Load() (*Config, error) {
	driver := getEnvOrDefault("DB_DRIVER", DBDriverPostgres)
	switch driver {
	case DBDriverPostgres, DBDriverOracle, DBDriverGorm, DBDriverMemory:
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER: %s", driver)
	}

	dsn := os.Getenv("DB_DSN")
	if dsn == "" && driver != DBDriverMemory {
		return nil, fmt.Errorf("DB_DSN environment variable is required for the %s driver", driver)
	}

	seed, err := strconv.ParseBool(getEnvOrDefault("SEED_DATABASE", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid SEED_DATABASE: %w", err)
	}

	channelSize, err := strconv.Atoi(getEnvOrDefault("STREAM_CHANNEL_SIZE", "100"))
	if err != nil {
		return nil, fmt.Errorf("invalid STREAM_CHANNEL_SIZE: %w", err)
	}

	return &Config{
		DBDriver:          driver,
		DBDSN:             dsn,
		ServerPort:        getEnvOrDefault("SERVER_PORT", "8080"),
		ServerHost:        getEnvOrDefault("SERVER_HOST", "localhost"),
		LogLevel:          getEnvOrDefault("LOG_LEVEL", "info"),
		SeedDatabase:      seed,
		StreamChannelSize: channelSize,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
