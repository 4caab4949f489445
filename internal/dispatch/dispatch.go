// Package dispatch provides the single entry point callers use to run a
// registered analysis method against a data object.
package dispatch

import (
	"context"
	"fmt"
	"reflect"

	"github.com/statforge/metakit/internal/ctxlog"
	"github.com/statforge/metakit/internal/registry"
	"github.com/statforge/metakit/internal/validate"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// ComputationError wraps a failure reported by a method implementation
// itself (e.g., numerical non-convergence). The original cause is
// preserved and reachable through Unwrap.
type ComputationError struct {
	Method string
	Err    error
}

// Error implements the error interface.
func (e *ComputationError) Error() string {
	return fmt.Sprintf("method %q computation failed: %v", e.Method, e.Err)
}

// Unwrap exposes the implementation's original error.
func (e *ComputationError) Unwrap() error {
	return e.Err
}

// Dispatcher resolves method identifiers, validates parameter sets, and
// invokes the resolved implementation. It holds no mutable state across
// invocations: each Invoke is independent and safe for concurrent use once
// the registry is populated.
type Dispatcher struct {
	reg *registry.Registry
}

// New creates a Dispatcher over the given registry.
func New(reg *registry.Registry) *Dispatcher {
	return &Dispatcher{reg: reg}
}

// Invoke runs methodID from category against data with the supplied
// parameter set.
//
// Lookup failures return ErrMethodNotFound (or the registry's integrity
// errors, which Validate should have caught at startup). Validation
// failures are returned untouched and the implementation is never called.
// Implementation failures are wrapped in *ComputationError with their
// cause preserved. The context is passed through to the implementation so
// caller cancellation is observed if the implementation supports it.
func (d *Dispatcher) Invoke(ctx context.Context, category, methodID string, data any, params map[string]cty.Value) (any, error) {
	logger := ctxlog.FromContext(ctx).With("method", methodID)

	method, err := d.reg.Resolve(category, methodID)
	if err != nil {
		return nil, err
	}

	validated, err := validate.Validate(method.Schema, params)
	if err != nil {
		return nil, err
	}
	logger.Debug("Parameter set validated.", "params", len(validated))

	input := method.Handler.NewInput()
	if input != nil && len(validated) > 0 {
		if err := decodeParams(validated, input); err != nil {
			return nil, fmt.Errorf("failed to decode validated parameters for method %q: %w", methodID, err)
		}
	}

	logger.Debug("Calling method handler.", "handler", method.Definition.Lifecycle.OnInvoke)
	handlerFunc := reflect.ValueOf(method.Handler.Fn)
	callArgs := []reflect.Value{reflect.ValueOf(ctx)}

	if data == nil {
		callArgs = append(callArgs, reflect.Zero(handlerFunc.Type().In(1)))
	} else {
		callArgs = append(callArgs, reflect.ValueOf(data))
	}

	if input == nil {
		callArgs = append(callArgs, reflect.Zero(handlerFunc.Type().In(2)))
	} else {
		callArgs = append(callArgs, reflect.ValueOf(input))
	}

	results := handlerFunc.Call(callArgs)
	payload, errResult := results[0].Interface(), results[1].Interface()
	if errResult != nil {
		return nil, &ComputationError{Method: methodID, Err: errResult.(error)}
	}

	logger.Debug("Method handler finished.")
	return payload, nil
}

// decodeParams populates the handler's input struct from the validated
// parameter map via gocty. Parity validation at startup guarantees the
// struct's cty tags match the validated key set exactly.
func decodeParams(validated map[string]cty.Value, input any) error {
	obj := cty.ObjectVal(validated)
	return gocty.FromCtyValue(obj, input)
}
