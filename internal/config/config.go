// Package config loads converter configuration from an optional YAML
// file with environment variable overrides on top.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the converter and its HTTP server.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Converter ConverterConfig `yaml:"converter"`
	Publish   PublishConfig   `yaml:"publish"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig holds the HTTP API settings.
type ServerConfig struct {
	Host           string   `yaml:"host"`
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Addr returns the listen address.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ConverterConfig holds the conversion defaults applied when a request
// does not override them.
type ConverterConfig struct {
	// TimezoneHint is the IANA zone for deployments that declare none.
	TimezoneHint string `yaml:"timezone_hint"`

	// OutputDir is where run directories are created.
	OutputDir string `yaml:"output_dir"`

	// MakeZip bundles every successful run into a result zip.
	MakeZip bool `yaml:"make_zip"`

	// Validate toggles the advisory post-write checks; unset means on.
	Validate *bool `yaml:"validate"`

	// Overwrite replaces a colliding run directory instead of failing.
	Overwrite bool `yaml:"overwrite"`
}

// ShouldValidate reports whether post-write validation runs.
func (c ConverterConfig) ShouldValidate() bool {
	return c.Validate == nil || *c.Validate
}

// PublishConfig holds S3 publication settings for result bundles.
type PublishConfig struct {
	Enabled    bool   `yaml:"enabled"`
	S3Bucket   string `yaml:"s3_bucket"`
	S3Region   string `yaml:"s3_region"`
	S3Prefix   string `yaml:"s3_prefix"`
	AWSProfile string `yaml:"aws_profile"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level     string `yaml:"level"`
	RedactPII *bool  `yaml:"redact_pii"`
}

// Redact reports whether PII redaction is on; unset means on.
func (c LoggingConfig) Redact() bool {
	return c.RedactPII == nil || *c.RedactPII
}

// Load reads configuration from a YAML file and applies defaults. A
// missing file is not an error: everything has a usable default.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// defaults only
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = []string{"*"}
	}
	if cfg.Converter.TimezoneHint == "" {
		cfg.Converter.TimezoneHint = "UTC"
	}
	if cfg.Converter.OutputDir == "" {
		cfg.Converter.OutputDir = "."
	}
	if cfg.Publish.S3Region == "" {
		cfg.Publish.S3Region = "us-east-1"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "INFO"
	}

	return &cfg, nil
}

// LoadFromEnv loads configuration with environment variable overrides.
// A .env file is read first if present, so secrets can live in .env
// locally and in real env vars in deployment.
func LoadFromEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("PORT"); v != "" {
		var port int
		if _, err := fmt.Sscanf(v, "%d", &port); err == nil && port > 0 {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("TIMEZONE_HINT"); v != "" {
		cfg.Converter.TimezoneHint = v
	}
	if v := os.Getenv("OUTPUT_DIR"); v != "" {
		cfg.Converter.OutputDir = v
	}
	if v := os.Getenv("PUBLISH_S3_BUCKET"); v != "" {
		cfg.Publish.S3Bucket = v
		cfg.Publish.Enabled = true
	}
	if v := os.Getenv("PUBLISH_S3_REGION"); v != "" {
		cfg.Publish.S3Region = v
	}
	if v := os.Getenv("PUBLISH_S3_PREFIX"); v != "" {
		cfg.Publish.S3Prefix = v
	}
	if v := os.Getenv("AWS_PROFILE"); v != "" {
		cfg.Publish.AWSProfile = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	return cfg, nil
}
