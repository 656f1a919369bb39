// Package app provides the top-level application lifecycle for the position
// watcher. It wires together the configured state backend, platform clients,
// notification senders and the watch service, then performs a single run.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alanyoungcy/positionwatch/internal/config"
	"github.com/alanyoungcy/positionwatch/internal/service"
)

// App is the root application object. It owns the configuration, logger, and a
// list of cleanup functions that are called in reverse order on shutdown.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	closers []func()
}

// New creates a new App from the given configuration and logger.
func New(cfg *config.Config, logger *slog.Logger) *App {
	return &App{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "app")),
	}
}

// Run wires all dependencies and executes one watch cycle. Resources are
// released by Close.
func (a *App) Run(ctx context.Context) (service.RunResult, error) {
	a.logger.InfoContext(ctx, "starting run",
		slog.String("handle", a.cfg.Tracker.Handle),
		slog.String("state_backend", a.cfg.State.Backend),
		slog.String("log_level", a.cfg.LogLevel),
	)
	a.logger.DebugContext(ctx, "effective configuration",
		slog.Any("config", config.RedactedConfig(a.cfg)),
	)

	deps, cleanup, err := Wire(ctx, a.cfg, a.logger)
	if err != nil {
		return service.RunResult{}, fmt.Errorf("app: wire dependencies: %w", err)
	}
	a.closers = append(a.closers, cleanup)

	a.logger.DebugContext(ctx, "notification senders",
		slog.Any("senders", deps.Notifier.Senders()),
	)

	res, err := deps.Watch.Run(ctx)
	if err != nil {
		return res, fmt.Errorf("app: run: %w", err)
	}
	return res, nil
}

// Close tears down all resources in reverse registration order. It is safe to
// call multiple times; subsequent calls are no-ops.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
