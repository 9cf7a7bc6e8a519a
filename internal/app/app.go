// Package app is the composition root: it owns the logger, the module
// registry, the layout loader, and the render/playback lifecycle.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/modgrid/modgrid/internal/config"
	"github.com/modgrid/modgrid/internal/ctxlog"
	"github.com/modgrid/modgrid/internal/hclcfg"
	"github.com/modgrid/modgrid/internal/registry"
	"github.com/modgrid/modgrid/internal/yamlcfg"
)

// Config holds everything an App instance needs to run.
type Config struct {
	// LayoutPath points at the layout document (.yaml/.yml or .hcl).
	LayoutPath string
	// SampleRate is the engine rate in Hz.
	SampleRate int
	// DurationMS bounds rendering and playback, in milliseconds.
	DurationMS int
	// OutPath, when set, receives the rendered WAV file.
	OutPath string
	// Play streams the layout to the default output device.
	Play bool
	// BufferSize is the chunk size, in samples, handed to streaming sinks.
	BufferSize int
	// TraceModules wires a debug probe that logs every computed value.
	TraceModules bool

	LogLevel  string
	LogFormat string
}

// App encapsulates one configured application instance with its own
// isolated logger and registry.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	model    *config.Model
	cfg      *Config
}

// New loads the layout and prepares the registry. Modules defaults to the
// built-in set when none are given; tests inject their own.
func New(ctx context.Context, outW io.Writer, cfg *Config, modules ...registry.Module) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Logger configured.")

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("Module types registered.", "types", reg.Types())

	model, err := loaderFor(cfg.LayoutPath).Load(ctx, cfg.LayoutPath)
	if err != nil {
		return nil, fmt.Errorf("load layout: %w", err)
	}
	logger.Debug("Layout loaded.", "modules", len(model.Layout))

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		model:    model,
		cfg:      cfg,
	}, nil
}

// loaderFor selects the layout loader by file extension; anything that is
// not .hcl is treated as YAML.
func loaderFor(path string) config.Loader {
	if filepath.Ext(path) == ".hcl" {
		return hclcfg.NewLoader()
	}
	return yamlcfg.NewLoader()
}

// Registry exposes the app's registry, primarily for tests.
func (a *App) Registry() *registry.Registry { return a.registry }

// Model exposes the loaded layout model, primarily for tests.
func (a *App) Model() *config.Model { return a.model }
