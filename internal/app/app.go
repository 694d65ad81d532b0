package app

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/specialistvlad/ninjagen/internal/config"
	"github.com/specialistvlad/ninjagen/internal/ctxlog"
	"github.com/specialistvlad/ninjagen/internal/toolchain"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	runner toolchain.Runner
	loader config.Loader
	// executable is the argv[0] of the regeneration command.
	executable string
}

// NewApp is the constructor for the main application. Logs go to logW, while
// user-facing output such as check-mode diffs goes to outW.
func NewApp(outW, logW io.Writer, cfg *Config, runner toolchain.Runner, loader config.Loader) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	exe, err := os.Executable()
	if err != nil {
		logger.Warn("Could not resolve own executable, regeneration will rely on PATH.", "error", err)
		exe = "ninjagen"
	}

	return &App{
		outW:       outW,
		logger:     logger,
		config:     cfg,
		runner:     runner,
		loader:     loader,
		executable: exe,
	}
}

// SetExecutable replaces the argv[0] used by the regeneration edge.
func (a *App) SetExecutable(path string) {
	a.executable = path
}

func (a *App) context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}
