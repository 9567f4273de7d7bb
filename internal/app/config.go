package app

import (
	"errors"
	"fmt"

	"github.com/vk/fieldgridgo/exec"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ManifestPath string // hcl file or directory

	LogFormat       string
	LogLevel        string
	Backend         string // dispatch strategy for outermost calls
	BackendEndpoint string // HTTP endpoint, required for non-embedded backends
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.ManifestPath == "" {
		return nil, errors.New("ManifestPath is a required configuration field and cannot be empty")
	}

	if cfg.Backend == "" {
		cfg.Backend = exec.Embedded
	}
	if cfg.Backend != exec.Embedded && cfg.BackendEndpoint == "" {
		return nil, fmt.Errorf("BackendEndpoint is required when Backend is %q", cfg.Backend)
	}

	return &cfg, nil
}
