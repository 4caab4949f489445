package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/statforge/metakit/internal/ctxlog"
	"github.com/statforge/metakit/internal/dataset"
)

// Run executes the main application logic based on the provided configuration.
func (a *App) Run(ctx context.Context, cfg *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if cfg.ListCategory != "" {
		return a.listCategory(cfg.ListCategory)
	}

	runCfg, err := dataset.DecodeRunFile(ctx, cfg.RunPath)
	if err != nil {
		return err
	}
	if runCfg.Dataset == nil {
		return fmt.Errorf("run file %s must declare a dataset block", cfg.RunPath)
	}
	if len(runCfg.Analyses) == 0 {
		a.logger.Warn("No analysis blocks found in run file, nothing to do.", "path", cfg.RunPath)
		return nil
	}

	ds := runCfg.Dataset.Dataset()
	a.logger.Info("Dataset loaded.", "title", ds.Title,
		"binary_studies", len(ds.Binary), "continuous_studies", len(ds.Continuous))

	for _, analysis := range runCfg.Analyses {
		category, _, found := strings.Cut(analysis.Method, ".")
		if !found {
			return fmt.Errorf("analysis %q: method %q is not of the form category.name", analysis.Name, analysis.Method)
		}
		if _, err := dataset.ParseCategory(category); err != nil {
			return fmt.Errorf("analysis %q: %w", analysis.Name, err)
		}

		params, err := analysis.Arguments.Values()
		if err != nil {
			return fmt.Errorf("analysis %q: %w", analysis.Name, err)
		}

		a.logger.Info("Running analysis.", "analysis", analysis.Name, "method", analysis.Method)
		result, err := a.dispatcher.Invoke(ctx, category, analysis.Method, ds, params)
		if err != nil {
			return fmt.Errorf("analysis %q: %w", analysis.Name, err)
		}

		fmt.Fprintf(a.outW, "%s %s = %v\n", analysis.Name, analysis.Method, result)
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// listCategory prints every method registered for the category together
// with its declared parameter constraints.
func (a *App) listCategory(category string) error {
	if _, err := dataset.ParseCategory(category); err != nil {
		return err
	}

	ids := a.registry.ListMethods(category)
	if len(ids) == 0 {
		fmt.Fprintf(a.outW, "no methods registered for category %q\n", category)
		return nil
	}

	for _, id := range ids {
		sch, err := a.registry.GetSchema(id)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.outW, id)
		for _, spec := range sch.Specs() {
			fmt.Fprintf(a.outW, "  %s: %s\n", spec.Name, spec.Constraint())
		}
	}
	return nil
}
