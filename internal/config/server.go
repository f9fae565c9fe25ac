package config

import (
	"fmt"
	"time"
)

// ServerConfig holds storefront server configuration
type ServerConfig struct {
	Port        string
	GlitchDelay time.Duration
	SessionTTL  time.Duration
}

// LoadServerConfig loads server configuration from environment variables
func LoadServerConfig(getenv func(string) string) (ServerConfig, error) {
	port := getenv("PORT")
	if port == "" {
		port = "8080" // Default to port 8080
	}

	glitch, err := parseDuration("GLITCH_DELAY", getenv("GLITCH_DELAY"), time.Second)
	if err != nil {
		return ServerConfig{}, err
	}
	ttl, err := parseDuration("SESSION_TTL", getenv("SESSION_TTL"), 10*time.Minute)
	if err != nil {
		return ServerConfig{}, err
	}
	if ttl <= 0 {
		return ServerConfig{}, fmt.Errorf("SESSION_TTL must be positive")
	}

	return ServerConfig{
		Port:        port,
		GlitchDelay: glitch,
		SessionTTL:  ttl,
	}, nil
}
