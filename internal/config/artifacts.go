package config

import (
	"fmt"
	"strconv"
)

// ArtifactsConfig holds configuration for uploading test artifacts to S3
type ArtifactsConfig struct {
	Bucket          string
	Prefix          string
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
	Concurrency     int
}

// LoadArtifactsConfig loads artifact upload configuration from environment variables
func LoadArtifactsConfig(getenv func(string) string) (*ArtifactsConfig, error) {
	cfg := &ArtifactsConfig{
		Bucket:          getenv("ARTIFACTS_BUCKET"),
		Prefix:          getenv("ARTIFACTS_PREFIX"),
		Endpoint:        getenv("ARTIFACTS_ENDPOINT"),
		Region:          getenv("AWS_REGION"),
		AccessKeyID:     getenv("AWS_ACCESS_KEY_ID"),
		SecretAccessKey: getenv("AWS_SECRET_ACCESS_KEY"),
		Concurrency:     4,
	}

	// Validate required fields
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("ARTIFACTS_BUCKET is required")
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	if raw := getenv("ARTIFACTS_PATH_STYLE"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("ARTIFACTS_PATH_STYLE: invalid boolean %q", raw)
		}
		cfg.UsePathStyle = b
	}
	if raw := getenv("ARTIFACTS_CONCURRENCY"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("ARTIFACTS_CONCURRENCY must be a positive integer, got %q", raw)
		}
		cfg.Concurrency = n
	}

	return cfg, nil
}
