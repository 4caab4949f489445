package stats

import (
	"math"
	"testing"

	"github.com/statforge/metakit/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func binaryStudy() dataset.BinaryStudy {
	return dataset.BinaryStudy{
		Name:          "trial-1",
		EventsTreated: 10,
		TotalTreated:  100,
		EventsControl: 20,
		TotalControl:  100,
	}
}

func TestBinaryEffect_OR(t *testing.T) {
	t.Parallel()

	// a=10 b=90 c=20 d=80: OR = 800/1800, var = 1/10+1/90+1/20+1/80.
	e, err := BinaryEffect(binaryStudy(), "OR")
	require.NoError(t, err)
	assert.InDelta(t, math.Log(800.0/1800.0), e.Point, 1e-12)
	assert.InDelta(t, 0.1+1.0/90+0.05+0.0125, e.Var, 1e-12)
}

func TestBinaryEffect_RR(t *testing.T) {
	t.Parallel()

	// RR = 0.1/0.2, var = 1/10 - 1/100 + 1/20 - 1/100.
	e, err := BinaryEffect(binaryStudy(), "RR")
	require.NoError(t, err)
	assert.InDelta(t, math.Log(0.5), e.Point, 1e-12)
	assert.InDelta(t, 0.1-0.01+0.05-0.01, e.Var, 1e-12)
}

func TestBinaryEffect_RD(t *testing.T) {
	t.Parallel()

	// RD = 0.1-0.2, var = 10*90/100³ + 20*80/100³.
	e, err := BinaryEffect(binaryStudy(), "RD")
	require.NoError(t, err)
	assert.InDelta(t, -0.1, e.Point, 1e-12)
	assert.InDelta(t, 0.0009+0.0016, e.Var, 1e-12)
}

func TestBinaryEffect_ContinuityCorrection(t *testing.T) {
	t.Parallel()

	s := dataset.BinaryStudy{
		Name:          "zero-cell",
		EventsTreated: 0,
		TotalTreated:  50,
		EventsControl: 5,
		TotalControl:  50,
	}
	e, err := BinaryEffect(s, "OR")
	require.NoError(t, err)
	assert.False(t, math.IsInf(e.Point, 0), "zero cells are corrected, not infinite")
	assert.False(t, math.IsInf(e.Var, 0))
	// Corrected cells: a=0.5 b=50.5 c=5.5 d=45.5.
	assert.InDelta(t, math.Log((0.5*45.5)/(50.5*5.5)), e.Point, 1e-12)
}

func TestBinaryEffect_Rejections(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		study   dataset.BinaryStudy
		measure string
	}{
		{
			name:    "zero total",
			study:   dataset.BinaryStudy{Name: "s", TotalTreated: 0, TotalControl: 10},
			measure: "OR",
		},
		{
			name: "events exceed total",
			study: dataset.BinaryStudy{
				Name: "s", EventsTreated: 20, TotalTreated: 10,
				EventsControl: 1, TotalControl: 10,
			},
			measure: "OR",
		},
		{
			name:    "unsupported measure",
			study:   binaryStudy(),
			measure: "HR",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := BinaryEffect(tc.study, tc.measure)
			require.Error(t, err)
		})
	}
}

func continuousStudy() dataset.ContinuousStudy {
	return dataset.ContinuousStudy{
		Name:        "trial-1",
		NTreated:    10,
		MeanTreated: 12.0,
		SDTreated:   2.0,
		NControl:    10,
		MeanControl: 10.0,
		SDControl:   2.0,
	}
}

func TestContinuousEffect_MD(t *testing.T) {
	t.Parallel()

	e, err := ContinuousEffect(continuousStudy(), "MD")
	require.NoError(t, err)
	assert.InDelta(t, 2.0, e.Point, 1e-12)
	assert.InDelta(t, 4.0/10+4.0/10, e.Var, 1e-12)
}

func TestContinuousEffect_SMD(t *testing.T) {
	t.Parallel()

	// sPooled=2, d=1, df=18, J=1-3/71, g=J; var = 20/100 + g²/40.
	e, err := ContinuousEffect(continuousStudy(), "SMD")
	require.NoError(t, err)
	g := 1.0 - 3.0/71.0
	assert.InDelta(t, g, e.Point, 1e-12)
	assert.InDelta(t, 0.2+g*g/40, e.Var, 1e-12)
}

func TestContinuousEffect_Rejections(t *testing.T) {
	t.Parallel()

	small := continuousStudy()
	small.NControl = 1
	_, err := ContinuousEffect(small, "MD")
	require.Error(t, err)

	flat := continuousStudy()
	flat.SDTreated = 0
	_, err = ContinuousEffect(flat, "MD")
	require.Error(t, err)

	_, err = ContinuousEffect(continuousStudy(), "g")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported continuous measure "g"`)
}
