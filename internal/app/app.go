package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/afero"

	"github.com/specialistvlad/statscheck/internal/compiler"
	"github.com/specialistvlad/statscheck/internal/ctxlog"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *compiler.Registry
	fs       afero.Fs
	config   *Config
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger and compiler registry.
// Without modules, the core compilers are registered.
func NewApp(outW io.Writer, cfg *Config, modules ...compiler.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	reg := compiler.NewRegistry()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All compiler modules registered.", "count", len(modules), "types", reg.Types())

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		fs:       afero.NewOsFs(),
		config:   cfg,
	}
}

// Registry returns the application's compiler registry. This is primarily for testing.
func (a *App) Registry() *compiler.Registry {
	return a.registry
}

func (a *App) context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}
