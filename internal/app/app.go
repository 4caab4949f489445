package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/statforge/metakit/internal/ctxlog"
	"github.com/statforge/metakit/internal/dispatch"
	"github.com/statforge/metakit/internal/registry"
	"github.com/statforge/metakit/internal/schema"
	"github.com/zclconf/go-cty/cty"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	RunPath      string
	MethodsPath  string
	ListCategory string
	LogFormat    string
	LogLevel     string
}

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW       io.Writer
	logger     *slog.Logger
	registry   *registry.Registry
	dispatcher *dispatch.Dispatcher
}

// New is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger and registry.
// Registration happens here, once, before any read: a manifest that fails
// to load or a registry that fails the pairing validation is a programmer
// error, so both panic.
func New(outW io.Writer, cfg *Config, modules ...registry.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreMethods
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All method modules registered.", "count", len(modules))

	if err := reg.LoadManifests(ctx, cfg.MethodsPath); err != nil {
		panic(fmt.Errorf("failed to load method manifests: %w", err))
	}

	if err := reg.Validate(ctx); err != nil {
		// A mismatch between manifests and Go code is a defect by a method
		// author, not a runtime condition.
		panic(err)
	}
	logger.Debug("Registry validation passed.")

	return &App{
		outW:       outW,
		logger:     logger,
		registry:   reg,
		dispatcher: dispatch.New(reg),
	}
}

// ListMethods returns the method identifiers registered for a category.
func (a *App) ListMethods(category string) []string {
	return a.registry.ListMethods(category)
}

// GetSchema returns the parameter schema published for a method identifier.
func (a *App) GetSchema(methodID string) (*schema.ParameterSchema, error) {
	return a.registry.GetSchema(methodID)
}

// Invoke validates the parameter set and runs the resolved method against
// the data object.
func (a *App) Invoke(ctx context.Context, category, methodID string, data any, params map[string]cty.Value) (any, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	return a.dispatcher.Invoke(ctx, category, methodID, data, params)
}
