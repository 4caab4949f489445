package dataset

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/statforge/metakit/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// AnalysisArgs represents the content of the 'arguments' block within an
// analysis.
type AnalysisArgs struct {
	Body hcl.Body `hcl:",remain"`
}

// Values evaluates the arguments block into the caller's parameter set.
// Argument values are literals; no evaluation context is available.
func (a *AnalysisArgs) Values() (map[string]cty.Value, error) {
	params := make(map[string]cty.Value)
	if a == nil || a.Body == nil {
		return params, nil
	}
	attrs, diags := a.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to read arguments: %w", diags)
	}
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to evaluate argument %q: %w", name, diags)
		}
		params[name] = val
	}
	return params, nil
}

// AnalysisBlock is an `analysis` block from a run file: a named request to
// invoke one method with a parameter set.
type AnalysisBlock struct {
	Name      string        `hcl:"name,label"`
	Method    string        `hcl:"method"`
	Arguments *AnalysisArgs `hcl:"arguments,block"`
}

// BinaryStudyBlock is a `binary_study` block within a dataset.
type BinaryStudyBlock struct {
	Name          string `hcl:"name,label"`
	EventsTreated int    `hcl:"events_treated"`
	TotalTreated  int    `hcl:"total_treated"`
	EventsControl int    `hcl:"events_control"`
	TotalControl  int    `hcl:"total_control"`
}

// ContinuousStudyBlock is a `continuous_study` block within a dataset.
type ContinuousStudyBlock struct {
	Name        string  `hcl:"name,label"`
	NTreated    int     `hcl:"n_treated"`
	MeanTreated float64 `hcl:"mean_treated"`
	SDTreated   float64 `hcl:"sd_treated"`
	NControl    int     `hcl:"n_control"`
	MeanControl float64 `hcl:"mean_control"`
	SDControl   float64 `hcl:"sd_control"`
}

// DatasetBlock is the `dataset` block of a run file.
type DatasetBlock struct {
	Title             string                  `hcl:"title,optional"`
	Summary           string                  `hcl:"summary,optional"`
	BinaryStudies     []*BinaryStudyBlock     `hcl:"binary_study,block"`
	ContinuousStudies []*ContinuousStudyBlock `hcl:"continuous_study,block"`
}

// Dataset converts the decoded block into the record methods consume.
func (b *DatasetBlock) Dataset() *Dataset {
	ds := &Dataset{Title: b.Title, Summary: b.Summary}
	for _, s := range b.BinaryStudies {
		ds.Binary = append(ds.Binary, BinaryStudy{
			Name:          s.Name,
			EventsTreated: s.EventsTreated,
			TotalTreated:  s.TotalTreated,
			EventsControl: s.EventsControl,
			TotalControl:  s.TotalControl,
		})
	}
	for _, s := range b.ContinuousStudies {
		ds.Continuous = append(ds.Continuous, ContinuousStudy{
			Name:        s.Name,
			NTreated:    s.NTreated,
			MeanTreated: s.MeanTreated,
			SDTreated:   s.SDTreated,
			NControl:    s.NControl,
			MeanControl: s.MeanControl,
			SDControl:   s.SDControl,
		})
	}
	return ds
}

// RunConfig represents the top-level structure of a run file: one dataset
// plus the analyses to execute against it.
type RunConfig struct {
	Dataset  *DatasetBlock    `hcl:"dataset,block"`
	Analyses []*AnalysisBlock `hcl:"analysis,block"`
	Body     hcl.Body         `hcl:",remain"`
}

// DecodeRunFile parses and decodes a single HCL run file.
func DecodeRunFile(ctx context.Context, filePath string) (*RunConfig, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Decoding run file.", "path", filePath)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filePath)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse run file %s: %s", filePath, diags.Error())
	}

	var config RunConfig
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode run file %s: %s", filePath, diags.Error())
	}

	logger.Debug("Successfully decoded run file.", "path", filePath, "analyses_found", len(config.Analyses))
	return &config, nil
}
