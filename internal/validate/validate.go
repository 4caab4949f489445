// Package validate checks caller-supplied parameter sets against a method's
// declared parameter schema before invocation.
//
// Validation demands exact key-set equality between the schema and the
// parameter set, then checks every value against its declared constraint
// (type, enum, numeric range). It is a pure function of its inputs: no side
// effects, same inputs always produce the same verdict.
package validate

import (
	"errors"
	"fmt"
	"sort"

	"github.com/statforge/metakit/internal/schema"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

var (
	// ErrMissingParameter is returned when the parameter set lacks a
	// schema-declared name.
	ErrMissingParameter = errors.New("metakit(validate): missing parameter")
	// ErrUnexpectedParameter is returned when the parameter set carries a
	// name the schema does not declare.
	ErrUnexpectedParameter = errors.New("metakit(validate): unexpected parameter")
	// ErrInvalidParameterValue is returned when a supplied value does not
	// satisfy its declared constraint.
	ErrInvalidParameterValue = errors.New("metakit(validate): invalid parameter value")
)

// Error describes a single violation, naming the parameter and the
// constraint the caller must satisfy.
type Error struct {
	Kind       error
	Parameter  string
	Constraint string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Constraint == "" {
		return fmt.Sprintf("%v: %q", e.Kind, e.Parameter)
	}
	return fmt.Sprintf("%v: %q (expected %s)", e.Kind, e.Parameter, e.Constraint)
}

// Unwrap exposes the violation kind for errors.Is.
func (e *Error) Unwrap() error {
	return e.Kind
}

// Validate checks params against sch. On success it returns the validated
// parameter set, with every value converted to its declared type. On
// failure it returns all violations joined into a single error, so the
// caller can correct its input in one pass. Neither input is mutated.
func Validate(sch *schema.ParameterSchema, params map[string]cty.Value) (map[string]cty.Value, error) {
	var errs []error
	validated := make(map[string]cty.Value, sch.Len())

	for _, spec := range sch.Specs() {
		val, ok := params[spec.Name]
		if !ok {
			errs = append(errs, &Error{Kind: ErrMissingParameter, Parameter: spec.Name, Constraint: spec.Constraint()})
			continue
		}
		converted, err := checkValue(spec, val)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		validated[spec.Name] = converted
	}

	// Extra keys, reported in sorted order for determinism.
	var extras []string
	for name := range params {
		if _, ok := sch.Spec(name); !ok {
			extras = append(extras, name)
		}
	}
	sort.Strings(extras)
	for _, name := range extras {
		errs = append(errs, &Error{Kind: ErrUnexpectedParameter, Parameter: name})
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return validated, nil
}

// checkValue converts a single value to its declared type and applies the
// spec's enum and range constraints.
func checkValue(spec schema.ParameterSpec, val cty.Value) (cty.Value, error) {
	violation := func(detail string) error {
		return &Error{
			Kind:       ErrInvalidParameterValue,
			Parameter:  spec.Name,
			Constraint: spec.Constraint() + "; " + detail,
		}
	}

	if val.IsNull() {
		return cty.NilVal, violation("value must not be null")
	}
	if !val.IsKnown() {
		return cty.NilVal, violation("value must be known")
	}

	converted, err := convert.Convert(val, spec.Type)
	if err != nil {
		return cty.NilVal, violation(fmt.Sprintf("got %s", val.Type().FriendlyName()))
	}

	if len(spec.Enum) > 0 {
		found := false
		for _, allowed := range spec.Enum {
			if converted.Equals(allowed).True() {
				found = true
				break
			}
		}
		if !found {
			return cty.NilVal, violation(fmt.Sprintf("got %s", converted.GoString()))
		}
	}

	if spec.Type.Equals(cty.Number) && (spec.Min != nil || spec.Max != nil) {
		f, _ := converted.AsBigFloat().Float64()
		if spec.Min != nil && f < *spec.Min {
			return cty.NilVal, violation(fmt.Sprintf("got %v", f))
		}
		if spec.Max != nil && f > *spec.Max {
			return cty.NilVal, violation(fmt.Sprintf("got %v", f))
		}
	}

	return converted, nil
}
