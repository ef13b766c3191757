package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// loads configuration from environment variables
func LoadEnvironmentVariables() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		_ = err // not an error - production environments may not have .env file
	}

	return Load()
}

// reads the process environment into a Config
func Load() (*Config, error) {
	var cfg Config

	sections := []any{&cfg, &cfg.OpenAI, &cfg.Anthropic, &cfg.Replicate, &cfg.ElevenLabs, &cfg.Blob}
	for _, section := range sections {
		if err := envconfig.Process("", section); err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
	}

	if cfg.OpenAI.ImagePromptModel == "" {
		cfg.OpenAI.ImagePromptModel = cfg.OpenAI.AffirmationModel
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET environment variable is required")
	}

	if c.TextProvider != "openai" && c.TextProvider != "anthropic" {
		return fmt.Errorf("unknown TEXT_PROVIDER %q", c.TextProvider)
	}

	switch c.Blob.Backend {
	case BlobBackendS3:
		if c.Blob.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET environment variable is required when BLOB_BACKEND=s3")
		}
	case BlobBackendNATS:
		if c.Blob.NATSBucket == "" {
			return fmt.Errorf("NATS_BUCKET environment variable is required when BLOB_BACKEND=nats")
		}
	default:
		return fmt.Errorf("unknown BLOB_BACKEND %q", c.Blob.Backend)
	}

	return nil
}

// reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
