package config

import (
	"fmt"
	"strconv"
)

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level      string
	Format     string
	File       string
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
}

// LoadLoggerConfig loads logging configuration from environment variables
func LoadLoggerConfig(getenv func(string) string) (LoggerConfig, error) {
	cfg := LoggerConfig{
		Level:      getenv("LOG_LEVEL"),
		Format:     getenv("LOG_FORMAT"),
		File:       getenv("LOG_FILE"),
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     28,
	}
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	if cfg.Format == "" {
		cfg.Format = "console"
	}
	if cfg.Format != "console" && cfg.Format != "json" {
		return LoggerConfig{}, fmt.Errorf("LOG_FORMAT must be console or json, got %q", cfg.Format)
	}

	for key, dst := range map[string]*int{
		"LOG_MAX_SIZE_MB":  &cfg.MaxSize,
		"LOG_MAX_BACKUPS":  &cfg.MaxBackups,
		"LOG_MAX_AGE_DAYS": &cfg.MaxAge,
	} {
		raw := getenv(key)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return LoggerConfig{}, fmt.Errorf("%s must be a non-negative integer, got %q", key, raw)
		}
		*dst = n
	}

	if raw := getenv("LOG_COMPRESS"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return LoggerConfig{}, fmt.Errorf("LOG_COMPRESS: invalid boolean %q", raw)
		}
		cfg.Compress = b
	}

	return cfg, nil
}
