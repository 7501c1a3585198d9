// Package config loads the tool configuration from a YAML file and
// timeout tuning from environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	// Project is the GCP project ID.
	Project string `yaml:"project"`
	// Location is the zone or region the cluster manager is scoped to.
	Location string `yaml:"location"`

	// Token is an explicit bearer token for the control plane. TokenFile
	// points at a file holding one. With neither set, the instance
	// metadata server is used and tokens auto-refresh.
	Token     string `yaml:"token"`
	TokenFile string `yaml:"token_file"`

	// ThrottleInterval is the minimum spacing between control plane
	// requests.
	ThrottleInterval time.Duration `yaml:"throttle_interval"`

	// ObjectStore configures model repository export.
	ObjectStore ObjectStoreConfig `yaml:"object_store"`
}

// ObjectStoreConfig points at an S3-compatible endpoint.
type ObjectStoreConfig struct {
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
}

// LoadFile reads and validates the configuration from a YAML file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks required fields and resolves the token file.
func (c *Config) Validate() error {
	if c.Project == "" {
		return fmt.Errorf("project is required")
	}
	if c.Location == "" {
		return fmt.Errorf("location is required")
	}
	if c.Token != "" && c.TokenFile != "" {
		return fmt.Errorf("token and token_file are mutually exclusive")
	}
	if c.TokenFile != "" {
		data, err := os.ReadFile(c.TokenFile)
		if err != nil {
			return fmt.Errorf("failed to read token file: %w", err)
		}
		c.Token = strings.TrimSpace(string(data))
	}
	return nil
}
