package app

import (
	"io"
	"log/slog"

	"github.com/vk/fieldgridgo/bridge"
	"github.com/vk/fieldgridgo/exec"
	"github.com/vk/fieldgridgo/manifest"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	loader   *manifest.Loader
	registry *exec.Registry
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and backend
// registry. The manifest itself is loaded by Run, so load failures surface
// as errors rather than construction panics.
func NewApp(outW io.Writer, cfg *Config) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	var extra []exec.Backend
	if cfg.Backend != exec.Embedded {
		extra = append(extra, bridge.New(cfg.Backend, cfg.BackendEndpoint, nil))
	}
	registry := exec.NewRegistry(extra...)
	logger.Debug("Backend registry assembled.", "backends", registry.Names())

	return &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		loader:   manifest.NewLoader(),
		registry: registry,
	}
}
