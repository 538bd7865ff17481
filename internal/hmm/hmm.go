// Package hmm holds the probability model used by the map-matching
// decoders: transition probability plug-ins, emission probability
// calculators, and the initial-probability calculator, all expressed as
// negative log-probabilities so that products become sums and a decoder
// minimises instead of maximising.
package hmm

import (
	"math"

	"github.com/udisondev/geomatch/internal/geom"
	"github.com/udisondev/geomatch/internal/roadgraph"
)

// Candidate is a state in the trellis: an edge considered as the vehicle's
// position at one observation index.
type Candidate struct {
	Edge roadgraph.Edge
}

// TransitionPlugin contributes an additive negative-log-probability term
// to a transition from one candidate edge to another.
type TransitionPlugin interface {
	Cost(graph *roadgraph.Graph, from, to roadgraph.Edge, fromBearing, toBearing float64) float64
}

// TopologicalPlugin scores r_ij = infinity if the edges share no endpoint,
// 1 if they're connected (share an endpoint but differ), 0 if identical;
// the contributed cost is -ln(e^-r) = r.
type TopologicalPlugin struct{}

func (TopologicalPlugin) Cost(g *roadgraph.Graph, from, to roadgraph.Edge, _, _ float64) float64 {
	if from.ID == to.ID {
		return 0
	}
	if g.SharesEndpoint(from, to) {
		return 1
	}
	return math.Inf(1)
}

// ConnectedGraphPlugin prunes transitions whose shortest path through the
// graph exceeds Threshold, via a caller-supplied ShortestPath function
// (the path connector's Dijkstra/A* search) returning the path distance.
type ConnectedGraphPlugin struct {
	Threshold    float64
	ShortestPath func(from, to roadgraph.Edge) (distance float64, ok bool)
}

func (p ConnectedGraphPlugin) Cost(_ *roadgraph.Graph, from, to roadgraph.Edge, _, _ float64) float64 {
	if from.ID == to.ID {
		return 0
	}
	dist, ok := p.ShortestPath(from, to)
	if !ok || dist > p.Threshold {
		return math.Inf(1)
	}
	return 0
}

// DirectionPlugin penalises a transition whose change in edge bearing
// contradicts the observation-to-observation bearing, scaled by Weight.
type DirectionPlugin struct {
	Weight float64
}

func (p DirectionPlugin) Cost(_ *roadgraph.Graph, _, _ roadgraph.Edge, fromBearing, toBearing float64) float64 {
	delta := math.Abs(bearingDelta(fromBearing, toBearing))
	return p.Weight * (delta / 180)
}

func bearingDelta(a, b float64) float64 {
	d := math.Mod(b-a+540, 360) - 180
	return d
}

// NoUTurnPlugin forbids edge -> edge.Reverse() transitions unless
// Allowed(to) reports that no alternative successor exists.
type NoUTurnPlugin struct {
	Allowed func(to roadgraph.Edge) bool
}

func (p NoUTurnPlugin) Cost(_ *roadgraph.Graph, from, to roadgraph.Edge, _, _ float64) float64 {
	if to.ID == from.ID+"-rev" || from.ID == to.ID+"-rev" {
		if p.Allowed == nil || !p.Allowed(to) {
			return math.Inf(1)
		}
	}
	return 0
}

// TransitionProbability sums every plug-in's contributed cost, in
// negative-log-probability space.
func TransitionProbability(plugins []TransitionPlugin, g *roadgraph.Graph, from, to roadgraph.Edge, fromBearing, toBearing float64) float64 {
	var total float64
	for _, p := range plugins {
		total += p.Cost(g, from, to, fromBearing, toBearing)
	}
	return total
}

// EmissionCalculator returns the negative-log emission probability of
// observing point o given candidate edge r.
type EmissionCalculator interface {
	Emit(o geom.Point, r roadgraph.Edge) float64
}

// UniformInitialProbability returns the negative-log initial probability
// of starting in any one of n uniformly-likely candidates.
func UniformInitialProbability(n int) float64 {
	if n <= 0 {
		return math.Inf(1)
	}
	return -math.Log(1 / float64(n))
}
