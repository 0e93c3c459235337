package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/christensenep/openbadger/models"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Database struct {
		URI string `yaml:"uri"`
	} `yaml:"database"`

	// Issuer identity baked into every assertion this instance signs off on.
	Issuer models.Issuer `yaml:"issuer"`
}

// LoadConfig reads the configuration file and applies environment overrides.
// DATABASE_URI and PORT take precedence over the yaml values so deployments
// can keep credentials out of the config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	if uri := os.Getenv("DATABASE_URI"); uri != "" {
		cfg.Database.URI = uri
	}
	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT %q: %w", port, err)
		}
		cfg.Server.Port = p
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Database.URI == "" {
		return nil, fmt.Errorf("database uri is required")
	}

	return &cfg, nil
}
