// Package stats implements the pooled-effect arithmetic that analysis
// methods delegate to. From the dispatch core's point of view this package
// is the external numeric collaborator: it receives validated inputs and
// returns a result or a computation error.
package stats

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrNoStudies is returned when there is nothing to pool.
	ErrNoStudies = errors.New("metakit(stats): no studies to pool")
	// ErrBadVariance is returned when a study effect carries a non-positive
	// or non-finite variance, which would break inverse-variance weighting.
	ErrBadVariance = errors.New("metakit(stats): study variance must be positive and finite")
)

// Effect is one study's effect estimate on the analysis scale (log scale
// for ratio measures) together with its variance.
type Effect struct {
	Point float64
	Var   float64
}

// PooledResult is the summary a pooling method returns to the caller.
// Ratio measures are back-transformed to the reporting scale, so Estimate
// and the confidence bounds are directly interpretable.
type PooledResult struct {
	Measure   string
	Model     string
	K         int
	Estimate  float64
	Lower     float64
	Upper     float64
	ConfLevel float64
	Q         float64
	ISq       float64
	Tau2      float64
}

// String renders the result in a compact single-line form.
func (r *PooledResult) String() string {
	return fmt.Sprintf("%s (%s, k=%d): %.4f [%.4f, %.4f] at %.1f%%, Q=%.3f, I²=%.1f%%",
		r.Measure, r.Model, r.K, r.Estimate, r.Lower, r.Upper, r.ConfLevel*100, r.Q, r.ISq)
}

// NormalQuantile returns the standard normal quantile for probability p,
// 0 < p < 1.
func NormalQuantile(p float64) float64 {
	return math.Sqrt2 * math.Erfinv(2*p-1)
}

func checkEffects(effects []Effect) error {
	if len(effects) == 0 {
		return ErrNoStudies
	}
	for i, e := range effects {
		if !(e.Var > 0) || math.IsInf(e.Var, 0) || math.IsNaN(e.Point) {
			return fmt.Errorf("%w: study %d has point=%v var=%v", ErrBadVariance, i, e.Point, e.Var)
		}
	}
	return nil
}

// PoolFixed combines study effects with inverse-variance weights under the
// fixed-effect model.
func PoolFixed(effects []Effect) (Effect, error) {
	if err := checkEffects(effects); err != nil {
		return Effect{}, err
	}
	var sumW, sumWY float64
	for _, e := range effects {
		w := 1 / e.Var
		sumW += w
		sumWY += w * e.Point
	}
	return Effect{Point: sumWY / sumW, Var: 1 / sumW}, nil
}

// Heterogeneity returns Cochran's Q and the I² statistic (as a percentage)
// for the given study effects.
func Heterogeneity(effects []Effect) (q, isq float64, err error) {
	pooled, err := PoolFixed(effects)
	if err != nil {
		return 0, 0, err
	}
	for _, e := range effects {
		d := e.Point - pooled.Point
		q += d * d / e.Var
	}
	df := float64(len(effects) - 1)
	if df > 0 && q > df {
		isq = 100 * (q - df) / q
	}
	return q, isq, nil
}

// PoolRandom combines study effects under the DerSimonian-Laird
// random-effects model, returning the pooled effect and the between-study
// variance tau².
func PoolRandom(effects []Effect) (Effect, float64, error) {
	if err := checkEffects(effects); err != nil {
		return Effect{}, 0, err
	}

	q, _, err := Heterogeneity(effects)
	if err != nil {
		return Effect{}, 0, err
	}

	var sumW, sumW2 float64
	for _, e := range effects {
		w := 1 / e.Var
		sumW += w
		sumW2 += w * w
	}

	df := float64(len(effects) - 1)
	tau2 := 0.0
	if df > 0 {
		denom := sumW - sumW2/sumW
		if denom > 0 && q > df {
			tau2 = (q - df) / denom
		}
	}

	var sumWStar, sumWStarY float64
	for _, e := range effects {
		w := 1 / (e.Var + tau2)
		sumWStar += w
		sumWStarY += w * e.Point
	}
	return Effect{Point: sumWStarY / sumWStar, Var: 1 / sumWStar}, tau2, nil
}

// ConfidenceInterval returns the two-sided Wald interval for a pooled
// effect at the given confidence level.
func ConfidenceInterval(e Effect, level float64) (lower, upper float64) {
	z := NormalQuantile((1 + level) / 2)
	se := math.Sqrt(e.Var)
	return e.Point - z*se, e.Point + z*se
}

// Summarize assembles a PooledResult from a pooled effect, exponentiating
// the estimate and bounds when the measure lives on the log scale.
func Summarize(measure, model string, pooled Effect, tau2, q, isq float64, k int, level float64) *PooledResult {
	lower, upper := ConfidenceInterval(pooled, level)
	est := pooled.Point
	if logScale(measure) {
		est = math.Exp(est)
		lower = math.Exp(lower)
		upper = math.Exp(upper)
	}
	return &PooledResult{
		Measure:   measure,
		Model:     model,
		K:         k,
		Estimate:  est,
		Lower:     lower,
		Upper:     upper,
		ConfLevel: level,
		Q:         q,
		ISq:       isq,
		Tau2:      tau2,
	}
}

// logScale reports whether pooling for the measure happens on the log scale.
func logScale(measure string) bool {
	switch measure {
	case "OR", "RR":
		return true
	}
	return false
}
