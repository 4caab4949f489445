package validate

import (
	"errors"
	"maps"
	"testing"

	"github.com/statforge/metakit/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func testSchema(t *testing.T) *schema.ParameterSchema {
	t.Helper()
	minV, maxV := 0.5, 0.999
	sch, err := schema.NewParameterSchema(
		schema.ParameterSpec{
			Name: "measure",
			Type: cty.String,
			Enum: []cty.Value{cty.StringVal("OR"), cty.StringVal("RR"), cty.StringVal("RD")},
		},
		schema.ParameterSpec{
			Name: "conf_level",
			Type: cty.Number,
			Min:  &minV,
			Max:  &maxV,
		},
	)
	require.NoError(t, err)
	return sch
}

func validParams() map[string]cty.Value {
	return map[string]cty.Value{
		"measure":    cty.StringVal("OR"),
		"conf_level": cty.NumberFloatVal(0.95),
	}
}

func TestValidate_Success(t *testing.T) {
	t.Parallel()

	sch := testSchema(t)
	validated, err := Validate(sch, validParams())
	require.NoError(t, err)

	require.Len(t, validated, 2)
	assert.True(t, validated["measure"].Equals(cty.StringVal("OR")).True())
	assert.True(t, validated["conf_level"].Equals(cty.NumberFloatVal(0.95)).True())
}

func TestValidate_ConvertsToDeclaredType(t *testing.T) {
	t.Parallel()

	sch := testSchema(t)
	params := validParams()
	// cty permits string-to-number conversion; the validated set carries
	// the converted value.
	params["conf_level"] = cty.StringVal("0.95")

	validated, err := Validate(sch, params)
	require.NoError(t, err)
	assert.True(t, validated["conf_level"].Type().Equals(cty.Number))
}

func TestValidate_MissingParameter(t *testing.T) {
	t.Parallel()

	sch := testSchema(t)
	params := validParams()
	delete(params, "conf_level")

	_, err := Validate(sch, params)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingParameter)
	assert.Contains(t, err.Error(), "conf_level")
}

func TestValidate_UnexpectedParameter(t *testing.T) {
	t.Parallel()

	sch := testSchema(t)
	params := validParams()
	params["extra"] = cty.NumberIntVal(1)

	_, err := Validate(sch, params)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnexpectedParameter)
	assert.Contains(t, err.Error(), "extra")
}

func TestValidate_InvalidValues(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		mutate  func(map[string]cty.Value)
		wantMsg string
	}{
		{
			name:    "enum violation",
			mutate:  func(p map[string]cty.Value) { p["measure"] = cty.StringVal("HR") },
			wantMsg: "measure",
		},
		{
			name:    "below min",
			mutate:  func(p map[string]cty.Value) { p["conf_level"] = cty.NumberFloatVal(0.3) },
			wantMsg: "conf_level",
		},
		{
			name:    "above max",
			mutate:  func(p map[string]cty.Value) { p["conf_level"] = cty.NumberFloatVal(1.0) },
			wantMsg: "conf_level",
		},
		{
			name:    "wrong type",
			mutate:  func(p map[string]cty.Value) { p["conf_level"] = cty.ListVal([]cty.Value{cty.True}) },
			wantMsg: "conf_level",
		},
		{
			name:    "null value",
			mutate:  func(p map[string]cty.Value) { p["measure"] = cty.NullVal(cty.String) },
			wantMsg: "must not be null",
		},
		{
			name:    "unknown value",
			mutate:  func(p map[string]cty.Value) { p["measure"] = cty.UnknownVal(cty.String) },
			wantMsg: "must be known",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			params := validParams()
			tc.mutate(params)

			_, err := Validate(testSchema(t), params)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidParameterValue)
			assert.Contains(t, err.Error(), tc.wantMsg)

			var verr *Error
			require.True(t, errors.As(err, &verr))
			assert.NotEmpty(t, verr.Parameter)
			assert.NotEmpty(t, verr.Constraint, "violations must name the expected constraint")
		})
	}
}

func TestValidate_AggregatesAllViolations(t *testing.T) {
	t.Parallel()

	sch := testSchema(t)
	params := map[string]cty.Value{
		"measure": cty.StringVal("HR"), // enum violation
		"extra":   cty.True,            // unexpected
		// conf_level missing
	}

	_, err := Validate(sch, params)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidParameterValue)
	assert.ErrorIs(t, err, ErrUnexpectedParameter)
	assert.ErrorIs(t, err, ErrMissingParameter)
}

func TestValidate_PureAndDeterministic(t *testing.T) {
	t.Parallel()

	sch := testSchema(t)
	params := validParams()
	snapshot := maps.Clone(params)

	first, err1 := Validate(sch, params)
	second, err2 := Validate(sch, params)

	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, first, second, "same inputs produce the same verdict")
	assert.Equal(t, snapshot, params, "inputs are not mutated")
	assert.Equal(t, []string{"measure", "conf_level"}, sch.Names(), "schema is read-only")
}
