package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// StorageType represents the staging storage backend type
type StorageType string

const (
	StorageTypeLocal StorageType = "local"
	StorageTypeS3    StorageType = "s3"
)

// Config holds the portal configuration
type Config struct {
	Port    string `env:"PORT" envDefault:"8080"`
	GinMode string `env:"GIN_MODE" envDefault:"release"`

	Upstream UpstreamConfig
	Storage  StorageConfig
	Log      LogConfig

	MaxUploadBytes int64 `env:"SENTINEL_MAX_UPLOAD_BYTES" envDefault:"10485760"`
	MaxTrackedRuns int   `env:"SENTINEL_MAX_TRACKED_RUNS" envDefault:"1000"`
}

// UpstreamConfig points at the external decision service
type UpstreamConfig struct {
	URL     string        `env:"SENTINEL_UPSTREAM_URL" envDefault:"http://localhost:8000/analyze"`
	Timeout time.Duration `env:"SENTINEL_UPSTREAM_TIMEOUT" envDefault:"120s"`
}

// StorageConfig holds configuration for staging storage
type StorageConfig struct {
	Type         StorageType `env:"STORAGE_TYPE" envDefault:"local"`
	LocalPath    string      `env:"STORAGE_LOCAL_PATH" envDefault:"./storage/staging"`
	S3Bucket     string      `env:"AWS_S3_BUCKET"`
	S3Region     string      `env:"AWS_REGION" envDefault:"us-east-1"`
	AWSAccessKey string      `env:"AWS_ACCESS_KEY_ID"`
	AWSSecretKey string      `env:"AWS_SECRET_ACCESS_KEY"`
}

// LogConfig controls the zap logger
type LogConfig struct {
	Level       string `env:"LOG_LEVEL" envDefault:"info"`
	Development bool   `env:"LOG_DEVELOPMENT" envDefault:"false"`
}

// Load reads an optional .env file and then parses the environment.
// Files are tried in order; a missing file is not an error.
func Load(envFiles ...string) (Config, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err == nil {
			break
		}
	}
	return Parse()
}

// Parse builds a Config from the current environment
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks combinations env tags cannot express
func (c Config) Validate() error {
	switch c.Storage.Type {
	case StorageTypeLocal:
		if c.Storage.LocalPath == "" {
			return errors.New("STORAGE_LOCAL_PATH is required for local storage")
		}
	case StorageTypeS3:
		if c.Storage.S3Bucket == "" {
			return errors.New("AWS_S3_BUCKET environment variable is required for S3 storage")
		}
	default:
		return fmt.Errorf("unknown storage type: %s", c.Storage.Type)
	}
	if c.Upstream.URL == "" {
		return errors.New("SENTINEL_UPSTREAM_URL is required")
	}
	if c.MaxUploadBytes <= 0 {
		return errors.New("SENTINEL_MAX_UPLOAD_BYTES must be positive")
	}
	return nil
}
