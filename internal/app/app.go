package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/dictcheck/internal/ctxlog"
	"github.com/specialistvlad/dictcheck/internal/docloader"
	"github.com/specialistvlad/dictcheck/internal/validator"
)

// App encapsulates the loaded documents, the validator bound to them and
// the report output.
type App struct {
	outW      io.Writer
	logger    *slog.Logger
	config    *Config
	workspace *docloader.Workspace
	binding   docloader.Binding
	validator *validator.Validator
}

// NewApp loads the configured documents and binds the selected triple to a
// fresh validator. Logs go to logW with their own isolated logger.
func NewApp(ctx context.Context, outW, logW io.Writer, cfg *Config, loader *docloader.Loader) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Logger configured successfully.")

	ws, err := loader.Load(ctx, cfg.Paths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load documents: %w", err)
	}

	b, err := ws.Select(cfg.Project, cfg.Line, cfg.Flow)
	if err != nil {
		return nil, fmt.Errorf("failed to select documents: %w", err)
	}
	logger.Debug("Documents selected.", "project", b.Project, "line", b.Line, "flow", b.Flow)

	return &App{
		outW:      outW,
		logger:    logger,
		config:    cfg,
		workspace: ws,
		binding:   b,
		validator: validator.New(ctx, ws.Store, b.Triple),
	}, nil
}

// Validator returns the application's validator. This is primarily for testing.
func (a *App) Validator() *validator.Validator {
	return a.validator
}

// Binding returns the documents currently bound to the validator.
func (a *App) Binding() docloader.Binding {
	return a.binding
}

// bind rebinds the validator to b.
func (a *App) bind(b docloader.Binding) {
	if a.binding.Triple == b.Triple {
		return
	}
	a.logger.Debug("Rebinding documents.", "project", b.Project, "line", b.Line, "flow", b.Flow)
	a.validator.Update(b.Triple)
	a.binding = b
}
