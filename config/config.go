package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig
	Data    DataConfig
	Palette Palette
	LogDir  string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port        string
	OpenBrowser bool
}

// DataConfig says where the dataset comes from and what to do when it cannot be read.
type DataConfig struct {
	File            string
	URL             string
	CacheDir        string
	CacheMaxAge     time.Duration
	FallbackEnabled bool
	FallbackSeed    uint64
}

// Load reads .env (if present) and the environment. Missing values get defaults.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
	return FromEnv()
}

// FromEnv builds the configuration from the current environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:        getEnvOrDefault("PORT", "8080"),
			OpenBrowser: getEnvBoolOrDefault("OPEN_BROWSER", false),
		},
		Data: DataConfig{
			File:            getEnvOrDefault("DATA_FILE", "meditation_data.csv"),
			URL:             getEnvOrDefault("DATA_URL", ""),
			CacheDir:        getEnvOrDefault("CACHE_DIR", "data_cache"),
			CacheMaxAge:     time.Duration(getEnvIntOrDefault("CACHE_MAX_AGE_HOURS", 2)) * time.Hour,
			FallbackEnabled: getEnvBoolOrDefault("FALLBACK_ENABLED", true),
			FallbackSeed:    uint64(getEnvIntOrDefault("FALLBACK_SEED", 1)),
		},
		LogDir: getEnvOrDefault("LOG_DIR", "logs"),
	}

	palette := DefaultPalette()
	if path := os.Getenv("PALETTE_FILE"); path != "" {
		p, err := LoadPalette(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load palette: %w", err)
		}
		palette = p
	}
	cfg.Palette = palette

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if _, err := strconv.Atoi(cfg.Server.Port); err != nil {
		return fmt.Errorf("PORT must be numeric, got %q", cfg.Server.Port)
	}
	if cfg.Data.File == "" && cfg.Data.URL == "" && !cfg.Data.FallbackEnabled {
		return fmt.Errorf("one of DATA_FILE, DATA_URL or FALLBACK_ENABLED is required")
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

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
