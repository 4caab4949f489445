// Package continuous provides the built-in pooling method for continuous
// outcome data: fixed-effect inverse-variance pooling of MD or SMD.
package continuous

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

// Input defines the arguments for the continuous pooling method.
type Input struct {
	Measure   string  `cty:"measure"`
	ConfLevel float64 `cty:"conf_level"`
}

// OnInvokeContinuousFixed is the handler for the 'continuous.fixed' method.
func OnInvokeContinuousFixed(ctx context.Context, data any, input *Input) (any, error) {
	ds, ok := data.(*dataset.Dataset)
	if !ok {
		return nil, fmt.Errorf("continuous methods require a *dataset.Dataset, got %T", data)
	}
	if len(ds.Continuous) == 0 {
		return nil, fmt.Errorf("dataset %q contains no continuous studies", ds.Title)
	}

	effects := make([]stats.Effect, 0, len(ds.Continuous))
	for _, s := range ds.Continuous {
		e, err := stats.ContinuousEffect(s, input.Measure)
		if err != nil {
			return nil, err
		}
		effects = append(effects, e)
	}
	ctxlog.FromContext(ctx).Debug("Pooling continuous studies.", "model", "fixed", "measure", input.Measure, "k", len(effects))

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

// Register registers the handler with the framework.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterHandler("OnInvokeContinuousFixed", &registry.RegisteredHandler{
		NewInput:  func() any { return new(Input) },
		InputType: reflect.TypeOf(Input{}),
		Fn:        OnInvokeContinuousFixed,
	})
}
