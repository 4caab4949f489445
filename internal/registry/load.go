package registry

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/statforge/metakit/internal/ctxlog"
	"github.com/statforge/metakit/internal/fsutil"
	"github.com/statforge/metakit/internal/schema"
)

// LoadManifests walks methodsPath for .hcl manifest files and registers
// every method definition they declare. Files are visited in sorted path
// order, so registration is deterministic across runs.
func (r *Registry) LoadManifests(ctx context.Context, methodsPath string) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Registry loading method manifests...", "path", methodsPath)

	filePaths, err := fsutil.FindFilesByExtension(methodsPath, ".hcl")
	if err != nil {
		logger.Error("Failed to walk methods directory", "path", methodsPath, "error", err)
		return err
	}

	if len(filePaths) == 0 {
		logger.Warn("No .hcl manifest files found in path", "path", methodsPath)
		return nil
	}

	loaded := 0
	for _, filePath := range filePaths {
		n, err := r.loadManifestFile(ctx, filePath)
		if err != nil {
			return err
		}
		loaded += n
	}

	logger.Info("Registry loaded successfully.", "method_definitions_loaded", loaded)
	return nil
}

// LoadManifestSource registers the method definitions declared in a single
// in-memory manifest, attributed to filename in diagnostics.
func (r *Registry) LoadManifestSource(ctx context.Context, src []byte, filename string) error {
	_, err := r.loadManifestBytes(ctx, src, filename)
	return err
}

func (r *Registry) loadManifestFile(ctx context.Context, filePath string) (int, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filePath)
	if diags.HasErrors() {
		return 0, fmt.Errorf("failed to parse manifest file %s: %w", filePath, diags)
	}
	return r.registerManifestBody(ctx, file, filePath)
}

func (r *Registry) loadManifestBytes(ctx context.Context, src []byte, filename string) (int, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return 0, fmt.Errorf("failed to parse manifest %s: %w", filename, diags)
	}
	return r.registerManifestBody(ctx, file, filename)
}

func (r *Registry) registerManifestBody(ctx context.Context, file *hcl.File, filename string) (int, error) {
	logger := ctxlog.FromContext(ctx)

	var config schema.ManifestConfig
	diags := gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return 0, fmt.Errorf("failed to decode manifest %s: %w", filename, diags)
	}

	for _, def := range config.Methods {
		sch, err := def.Schema(ctx)
		if err != nil {
			return 0, fmt.Errorf("manifest %s: %w", filename, err)
		}
		if err := r.addDefinition(def, sch); err != nil {
			return 0, fmt.Errorf("manifest %s: %w", filename, err)
		}
		logger.Debug("Registered method definition.", "method", def.ID(), "params", sch.Len())
	}

	return len(config.Methods), nil
}
