package schema

import (
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// ParameterSpec describes a single required parameter of an analysis
// method: its name, its cty type, and any value constraints declared in
// the method's manifest.
type ParameterSpec struct {
	Name        string
	Type        cty.Type
	Description string

	// Enum, when non-empty, restricts the parameter to one of these values.
	// All values have already been converted to Type.
	Enum []cty.Value

	// Min and Max, when set, bound a number parameter inclusively.
	Min *float64
	Max *float64
}

// Constraint renders the spec's constraint in a human-readable form, used
// when reporting validation failures back to the caller.
func (p ParameterSpec) Constraint() string {
	parts := []string{p.Type.FriendlyName()}
	if len(p.Enum) > 0 {
		vals := make([]string, 0, len(p.Enum))
		for _, v := range p.Enum {
			if v.Type() == cty.String {
				vals = append(vals, v.AsString())
			} else {
				vals = append(vals, v.GoString())
			}
		}
		parts = append(parts, fmt.Sprintf("one of [%s]", strings.Join(vals, ", ")))
	}
	if p.Min != nil {
		parts = append(parts, fmt.Sprintf(">= %v", *p.Min))
	}
	if p.Max != nil {
		parts = append(parts, fmt.Sprintf("<= %v", *p.Max))
	}
	return strings.Join(parts, ", ")
}

// ParameterSchema is the ordered collection of parameters a method
// requires. It is immutable once published: consumers read it through
// accessors and never mutate it.
type ParameterSchema struct {
	specs []ParameterSpec
	index map[string]int
}

// NewParameterSchema builds a schema from the given specs, preserving
// their order. Duplicate parameter names are a declaration error.
func NewParameterSchema(specs ...ParameterSpec) (*ParameterSchema, error) {
	s := &ParameterSchema{
		specs: make([]ParameterSpec, len(specs)),
		index: make(map[string]int, len(specs)),
	}
	copy(s.specs, specs)
	for i, spec := range s.specs {
		if spec.Name == "" {
			return nil, fmt.Errorf("parameter %d has an empty name", i)
		}
		if _, exists := s.index[spec.Name]; exists {
			return nil, fmt.Errorf("duplicate parameter %q in schema", spec.Name)
		}
		s.index[spec.Name] = i
	}
	return s, nil
}

// Len returns the number of declared parameters.
func (s *ParameterSchema) Len() int {
	return len(s.specs)
}

// Specs returns a copy of the declared parameter specs in declaration order.
func (s *ParameterSchema) Specs() []ParameterSpec {
	out := make([]ParameterSpec, len(s.specs))
	copy(out, s.specs)
	return out
}

// Names returns the declared parameter names in declaration order.
func (s *ParameterSchema) Names() []string {
	names := make([]string, len(s.specs))
	for i, spec := range s.specs {
		names[i] = spec.Name
	}
	return names
}

// Spec looks up a parameter spec by name.
func (s *ParameterSchema) Spec(name string) (ParameterSpec, bool) {
	i, ok := s.index[name]
	if !ok {
		return ParameterSpec{}, false
	}
	return s.specs[i], true
}
