package hmm

import (
	"math"

	"github.com/udisondev/geomatch/internal/geom"
	"github.com/udisondev/geomatch/internal/roadgraph"
	"github.com/udisondev/geomatch/internal/topology"
	"gonum.org/v1/gonum/stat/distuv"
)

// GaussianEmissionCalculator models the perpendicular distance from an
// observation to a candidate edge's polyline as zero-mean Gaussian noise
// with standard deviation Sigma. When UseDistuv is set, the log-density
// itself is computed via gonum's distuv.Normal rather than the closed-form
// expansion, which matters once callers start composing this with other
// gonum-backed distributions (e.g. a mixture prior) sharing one backend.
type GaussianEmissionCalculator struct {
	Calc      topology.Calculator
	Sigma     float64
	UseDistuv bool
}

// Emit returns -ln(Pr(o|r)) for Pr(o|r) = 1/(sqrt(2*pi)*sigma) *
// exp(-0.5*(d/sigma)^2), where d is the perpendicular distance from o to
// r's polyline.
func (g GaussianEmissionCalculator) Emit(o geom.Point, r roadgraph.Edge) float64 {
	d, _ := g.Calc.DistanceToPolyline(o, r.Polyline)
	if g.UseDistuv {
		dist := distuv.Normal{Mu: 0, Sigma: g.Sigma}
		return -dist.LogProb(d)
	}
	z := d / g.Sigma
	// -ln(Pr) = ln(sqrt(2*pi)*sigma) + 0.5*z^2
	return math.Log(math.Sqrt(2*math.Pi)*g.Sigma) + 0.5*z*z
}

// BayesianEmissionCalculator normalises each candidate's probability
// against the full candidate set C for one observation: Pr(o|r_j) =
// (sum_{k in C} d(o,r_k)) / d(o,r_j), then renormalises so probabilities
// over C sum to 1.
type BayesianEmissionCalculator struct {
	Calc topology.Calculator
}

// EmitAll returns the negative-log emission probability of o for every
// candidate in candidates, in the same order.
func (b BayesianEmissionCalculator) EmitAll(o geom.Point, candidates []roadgraph.Edge) []float64 {
	if len(candidates) == 0 {
		return nil
	}
	dists := make([]float64, len(candidates))
	sum := 0.0
	for i, c := range candidates {
		d, _ := b.Calc.DistanceToPolyline(o, c.Polyline)
		if d == 0 {
			d = b.Calc.Precision()
		}
		dists[i] = d
		sum += d
	}

	raw := make([]float64, len(candidates))
	total := 0.0
	for i, d := range dists {
		raw[i] = sum / d
		total += raw[i]
	}

	out := make([]float64, len(candidates))
	for i, v := range raw {
		p := v / total
		out[i] = -math.Log(p)
	}
	return out
}
