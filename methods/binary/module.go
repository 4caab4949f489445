// Package binary provides the built-in pooling methods for binary outcome
// data: fixed-effect and DerSimonian-Laird random-effects inverse-variance
// pooling of OR, RR, or RD.
package binary

import (
	"context"
	"fmt"
	"reflect"

	"github.com/statforge/metakit/internal/ctxlog"
	"github.com/statforge/metakit/internal/dataset"
	"github.com/statforge/metakit/internal/registry"
	"github.com/statforge/metakit/internal/stats"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments shared by the binary pooling methods.
type Input struct {
	Measure   string  `cty:"measure"`
	ConfLevel float64 `cty:"conf_level"`
}

// studyEffects extracts the binary studies from the data object and
// computes their per-study effects on the analysis scale.
func studyEffects(data any, measure string) ([]stats.Effect, error) {
	ds, ok := data.(*dataset.Dataset)
	if !ok {
		return nil, fmt.Errorf("binary methods require a *dataset.Dataset, got %T", data)
	}
	if len(ds.Binary) == 0 {
		return nil, fmt.Errorf("dataset %q contains no binary studies", ds.Title)
	}
	effects := make([]stats.Effect, 0, len(ds.Binary))
	for _, s := range ds.Binary {
		e, err := stats.BinaryEffect(s, measure)
		if err != nil {
			return nil, err
		}
		effects = append(effects, e)
	}
	return effects, nil
}

// OnInvokeBinaryFixed is the handler for the 'binary.fixed' method.
func OnInvokeBinaryFixed(ctx context.Context, data any, input *Input) (any, error) {
	effects, err := studyEffects(data, input.Measure)
	if err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Debug("Pooling binary studies.", "model", "fixed", "measure", input.Measure, "k", len(effects))

	pooled, err := stats.PoolFixed(effects)
	if err != nil {
		return nil, err
	}
	q, isq, err := stats.Heterogeneity(effects)
	if err != nil {
		return nil, err
	}
	return stats.Summarize(input.Measure, "fixed", pooled, 0, q, isq, len(effects), input.ConfLevel), nil
}

// OnInvokeBinaryRandom is the handler for the 'binary.random' method.
func OnInvokeBinaryRandom(ctx context.Context, data any, input *Input) (any, error) {
	effects, err := studyEffects(data, input.Measure)
	if err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Debug("Pooling binary studies.", "model", "random", "measure", input.Measure, "k", len(effects))

	pooled, tau2, err := stats.PoolRandom(effects)
	if err != nil {
		return nil, err
	}
	q, isq, err := stats.Heterogeneity(effects)
	if err != nil {
		return nil, err
	}
	return stats.Summarize(input.Measure, "random", pooled, tau2, q, isq, len(effects), input.ConfLevel), nil
}

// Register registers the handlers with the framework.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterHandler("OnInvokeBinaryFixed", &registry.RegisteredHandler{
		NewInput:  func() any { return new(Input) },
		InputType: reflect.TypeOf(Input{}),
		Fn:        OnInvokeBinaryFixed,
	})
	r.RegisterHandler("OnInvokeBinaryRandom", &registry.RegisteredHandler{
		NewInput:  func() any { return new(Input) },
		InputType: reflect.TypeOf(Input{}),
		Fn:        OnInvokeBinaryRandom,
	})
}
