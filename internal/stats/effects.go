package stats

import (
	"fmt"
	"math"

	"github.com/statforge/metakit/internal/dataset"
)

// BinaryEffect computes one study's effect on the analysis scale for the
// given measure (OR, RR, or RD). A 0.5 continuity correction is applied to
// every cell of the 2x2 table when any cell is zero.
func BinaryEffect(s dataset.BinaryStudy, measure string) (Effect, error) {
	if s.TotalTreated <= 0 || s.TotalControl <= 0 {
		return Effect{}, fmt.Errorf("study %q: group totals must be positive", s.Name)
	}
	if s.EventsTreated < 0 || s.EventsControl < 0 ||
		s.EventsTreated > s.TotalTreated || s.EventsControl > s.TotalControl {
		return Effect{}, fmt.Errorf("study %q: event counts must lie within group totals", s.Name)
	}

	a := float64(s.EventsTreated)
	b := float64(s.TotalTreated - s.EventsTreated)
	c := float64(s.EventsControl)
	d := float64(s.TotalControl - s.EventsControl)

	if a == 0 || b == 0 || c == 0 || d == 0 {
		a += 0.5
		b += 0.5
		c += 0.5
		d += 0.5
	}
	n1 := a + b
	n2 := c + d

	switch measure {
	case "OR":
		return Effect{
			Point: math.Log((a * d) / (b * c)),
			Var:   1/a + 1/b + 1/c + 1/d,
		}, nil
	case "RR":
		return Effect{
			Point: math.Log((a / n1) / (c / n2)),
			Var:   1/a - 1/n1 + 1/c - 1/n2,
		}, nil
	case "RD":
		return Effect{
			Point: a/n1 - c/n2,
			Var:   a*b/(n1*n1*n1) + c*d/(n2*n2*n2),
		}, nil
	default:
		return Effect{}, fmt.Errorf("unsupported binary measure %q", measure)
	}
}

// ContinuousEffect computes one study's effect for the given measure: MD
// (raw mean difference) or SMD (standardized mean difference with the
// Hedges small-sample correction).
func ContinuousEffect(s dataset.ContinuousStudy, measure string) (Effect, error) {
	if s.NTreated < 2 || s.NControl < 2 {
		return Effect{}, fmt.Errorf("study %q: each arm needs at least two observations", s.Name)
	}
	if s.SDTreated <= 0 || s.SDControl <= 0 {
		return Effect{}, fmt.Errorf("study %q: standard deviations must be positive", s.Name)
	}

	n1 := float64(s.NTreated)
	n2 := float64(s.NControl)
	v1 := s.SDTreated * s.SDTreated
	v2 := s.SDControl * s.SDControl

	switch measure {
	case "MD":
		return Effect{
			Point: s.MeanTreated - s.MeanControl,
			Var:   v1/n1 + v2/n2,
		}, nil
	case "SMD":
		df := n1 + n2 - 2
		sPooled := math.Sqrt(((n1-1)*v1 + (n2-1)*v2) / df)
		d := (s.MeanTreated - s.MeanControl) / sPooled
		j := 1 - 3/(4*df-1)
		g := j * d
		return Effect{
			Point: g,
			Var:   (n1+n2)/(n1*n2) + g*g/(2*(n1+n2)),
		}, nil
	default:
		return Effect{}, fmt.Errorf("unsupported continuous measure %q", measure)
	}
}
