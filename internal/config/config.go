package config

import (
	"os"
	"strconv"
	"time"

	"ksboot/internal/errors"

	"github.com/joho/godotenv"
)

// Config represents the complete application configuration
type Config struct {
	Bootstrap  BootstrapConfig
	Diagnostic DiagnosticConfig
	Logging    LoggingConfig
}

// BootstrapConfig holds partition bootstrap settings
type BootstrapConfig struct {
	Iterations int
	Workers    int
	Seed       uint64
	Timeout    time.Duration // zero means no deadline
	Strict     bool
}

// DiagnosticConfig holds histogram rendering settings
type DiagnosticConfig struct {
	HistogramBins  int
	HistogramWidth int
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level string
}

// LoadEnvFiles loads .env style files into the process environment.
// Missing files are skipped; a file that exists but cannot be parsed is an error.
func LoadEnvFiles(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return errors.Wrapf(errors.ConfigInvalid(err.Error()), "loading %s", f)
		}
	}
	return nil
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Bootstrap: BootstrapConfig{
			Iterations: getEnvIntOrDefault("KSBOOT_ITERATIONS", 1000),
			Workers:    getEnvIntOrDefault("KSBOOT_WORKERS", 4),
			Seed:       getEnvUintOrDefault("KSBOOT_SEED", 42),
			Timeout:    getEnvDurationOrDefault("KSBOOT_TIMEOUT", 0),
			Strict:     getEnvBoolOrDefault("KSBOOT_STRICT", false),
		},
		Diagnostic: DiagnosticConfig{
			HistogramBins:  getEnvIntOrDefault("KSBOOT_HISTOGRAM_BINS", 20),
			HistogramWidth: getEnvIntOrDefault("KSBOOT_HISTOGRAM_WIDTH", 50),
		},
		Logging: LoggingConfig{
			Level: getEnvOrDefault("LOG_LEVEL", "INFO"),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if config.Bootstrap.Iterations <= 0 {
		return errors.ConfigInvalid("KSBOOT_ITERATIONS must be positive")
	}
	if config.Bootstrap.Workers <= 0 {
		return errors.ConfigInvalid("KSBOOT_WORKERS must be positive")
	}
	if config.Bootstrap.Timeout < 0 {
		return errors.ConfigInvalid("KSBOOT_TIMEOUT cannot be negative")
	}
	if config.Diagnostic.HistogramBins <= 0 {
		return errors.ConfigInvalid("KSBOOT_HISTOGRAM_BINS must be positive")
	}
	if config.Diagnostic.HistogramWidth <= 0 {
		return errors.ConfigInvalid("KSBOOT_HISTOGRAM_WIDTH must be positive")
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

func getEnvUintOrDefault(key string, defaultValue uint64) uint64 {
	if value := os.Getenv(key); value != "" {
		if uintValue, err := strconv.ParseUint(value, 10, 64); err == nil {
			return uintValue
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

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
