package continuous

import (
	"context"
	"testing"

	"github.com/statforge/metakit/internal/dataset"
	"github.com/statforge/metakit/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testData() *dataset.Dataset {
	return &dataset.Dataset{
		Title: "toy",
		Continuous: []dataset.ContinuousStudy{
			{Name: "s1", NTreated: 40, MeanTreated: 3.1, SDTreated: 1.2, NControl: 42, MeanControl: 4.0, SDControl: 1.4},
			{Name: "s2", NTreated: 25, MeanTreated: 2.9, SDTreated: 1.1, NControl: 25, MeanControl: 3.8, SDControl: 1.3},
		},
	}
}

func TestOnInvokeContinuousFixed(t *testing.T) {
	t.Parallel()

	out, err := OnInvokeContinuousFixed(context.Background(), testData(), &Input{Measure: "MD", ConfLevel: 0.95})
	require.NoError(t, err)

	result, ok := out.(*stats.PooledResult)
	require.True(t, ok)
	assert.Equal(t, "MD", result.Measure)
	assert.Equal(t, 2, result.K)
	assert.Less(t, result.Estimate, 0.0, "both studies report lower scores under treatment")
	assert.Less(t, result.Lower, result.Upper)
}

func TestOnInvokeContinuousFixed_Errors(t *testing.T) {
	t.Parallel()

	_, err := OnInvokeContinuousFixed(context.Background(), 42, &Input{Measure: "MD", ConfLevel: 0.95})
	require.Error(t, err)

	_, err = OnInvokeContinuousFixed(context.Background(), &dataset.Dataset{}, &Input{Measure: "MD", ConfLevel: 0.95})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no continuous studies")
}
