package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestNewParameterSchema(t *testing.T) {
	t.Parallel()

	sch, err := NewParameterSchema(
		ParameterSpec{Name: "measure", Type: cty.String},
		ParameterSpec{Name: "conf_level", Type: cty.Number},
	)
	require.NoError(t, err)

	assert.Equal(t, 2, sch.Len())
	assert.Equal(t, []string{"measure", "conf_level"}, sch.Names(), "declaration order is preserved")

	spec, ok := sch.Spec("conf_level")
	require.True(t, ok)
	assert.True(t, spec.Type.Equals(cty.Number))

	_, ok = sch.Spec("nope")
	assert.False(t, ok)
}

func TestNewParameterSchema_Rejections(t *testing.T) {
	t.Parallel()

	_, err := NewParameterSchema(
		ParameterSpec{Name: "measure", Type: cty.String},
		ParameterSpec{Name: "measure", Type: cty.String},
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate parameter")

	_, err = NewParameterSchema(ParameterSpec{Type: cty.String})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty name")
}

func TestParameterSchema_AccessorsCopy(t *testing.T) {
	t.Parallel()

	sch, err := NewParameterSchema(ParameterSpec{Name: "measure", Type: cty.String})
	require.NoError(t, err)

	specs := sch.Specs()
	specs[0].Name = "mutated"
	names := sch.Names()
	names[0] = "mutated"

	// The published schema is read-only; callers mutate copies.
	assert.Equal(t, []string{"measure"}, sch.Names())
	spec, ok := sch.Spec("measure")
	require.True(t, ok)
	assert.Equal(t, "measure", spec.Name)
}

func TestParameterSpec_Constraint(t *testing.T) {
	t.Parallel()

	minV, maxV := 0.5, 0.999
	spec := ParameterSpec{
		Name: "conf_level",
		Type: cty.Number,
		Min:  &minV,
		Max:  &maxV,
	}
	c := spec.Constraint()
	assert.Contains(t, c, "number")
	assert.Contains(t, c, ">= 0.5")
	assert.Contains(t, c, "<= 0.999")

	enumSpec := ParameterSpec{
		Name: "measure",
		Type: cty.String,
		Enum: []cty.Value{cty.StringVal("OR"), cty.StringVal("RR")},
	}
	assert.Contains(t, enumSpec.Constraint(), "one of [OR, RR]")
}
