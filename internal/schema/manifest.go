// Package schema defines the parameter schema model for analysis methods
// and the HCL manifest structures that declare them.
package schema

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// MethodLifecycle defines the mapping from a method's invoke event to a
// registered Go handler function.
type MethodLifecycle struct {
	OnInvoke string `hcl:"on_invoke"`
}

// ParamDefinition declares a single required parameter for a method.
type ParamDefinition struct {
	Name        string         `hcl:"name,label"`
	Type        hcl.Expression `hcl:"type"`
	Description string         `hcl:"description,optional"`
	Enum        hcl.Expression `hcl:"enum,optional"`
	Min         *float64       `hcl:"min,optional"`
	Max         *float64       `hcl:"max,optional"`
}

// MethodDefinition represents the HCL manifest for one analysis method
// within a data category.
type MethodDefinition struct {
	Category    string             `hcl:"category,label"`
	Name        string             `hcl:"name,label"`
	Description string             `hcl:"description,optional"`
	Lifecycle   *MethodLifecycle   `hcl:"lifecycle,block"`
	Params      []*ParamDefinition `hcl:"param,block"`
}

// ManifestConfig represents the top-level structure of a method manifest
// file. A single file may declare several methods.
type ManifestConfig struct {
	Methods []*MethodDefinition `hcl:"method,block"`
	Body    hcl.Body            `hcl:",remain"`
}

// ID returns the method's identifier within its category's namespace,
// e.g. "binary.fixed".
func (d *MethodDefinition) ID() string {
	return d.Category + "." + d.Name
}

// Schema builds the immutable ParameterSchema declared by the definition,
// resolving type expressions and constraint attributes.
func (d *MethodDefinition) Schema(ctx context.Context) (*ParameterSchema, error) {
	specs := make([]ParameterSpec, 0, len(d.Params))
	for _, p := range d.Params {
		ty, err := typeExprToCtyType(ctx, p.Type)
		if err != nil {
			return nil, fmt.Errorf("method %q, param %q: %w", d.ID(), p.Name, err)
		}

		spec := ParameterSpec{
			Name:        p.Name,
			Type:        ty,
			Description: p.Description,
			Min:         p.Min,
			Max:         p.Max,
		}

		if (p.Min != nil || p.Max != nil) && !ty.Equals(cty.Number) {
			return nil, fmt.Errorf("method %q, param %q: min/max constraints require type number, got %s",
				d.ID(), p.Name, ty.FriendlyName())
		}
		if p.Min != nil && p.Max != nil && *p.Min > *p.Max {
			return nil, fmt.Errorf("method %q, param %q: min %v exceeds max %v", d.ID(), p.Name, *p.Min, *p.Max)
		}

		enum, err := enumValues(p.Enum, ty)
		if err != nil {
			return nil, fmt.Errorf("method %q, param %q: %w", d.ID(), p.Name, err)
		}
		spec.Enum = enum

		specs = append(specs, spec)
	}

	sch, err := NewParameterSchema(specs...)
	if err != nil {
		return nil, fmt.Errorf("method %q: %w", d.ID(), err)
	}
	return sch, nil
}

// enumValues evaluates an optional enum expression and converts each
// element to the parameter's declared type.
func enumValues(expr hcl.Expression, ty cty.Type) ([]cty.Value, error) {
	if expr == nil {
		return nil, nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to evaluate enum: %s", diags.Error())
	}
	if val.IsNull() {
		return nil, nil
	}
	if !val.Type().IsTupleType() && !val.Type().IsListType() {
		return nil, fmt.Errorf("enum must be a list of values, got %s", val.Type().FriendlyName())
	}

	var out []cty.Value
	for it := val.ElementIterator(); it.Next(); {
		_, elem := it.Element()
		converted, err := convert.Convert(elem, ty)
		if err != nil {
			return nil, fmt.Errorf("enum value %s is not a valid %s: %w", elem.GoString(), ty.FriendlyName(), err)
		}
		out = append(out, converted)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("enum must not be empty")
	}
	return out, nil
}
