// Package matcher implements the map-matching decoders: ViterbiMapMatcher
// (classical trellis decoding with top-k extraction) and AStarMapMatcher
// (best-first search over (observation, edge) states). Both operate in
// negative log-probability space, so every cost is minimised.
package matcher

import (
	"math"
	"sort"

	"github.com/udisondev/geomatch/internal/geom"
	"github.com/udisondev/geomatch/internal/hmm"
	"github.com/udisondev/geomatch/internal/mmerrors"
	"github.com/udisondev/geomatch/internal/roadgraph"
	"github.com/udisondev/geomatch/internal/topology"
)

// CandidateFinder returns the candidate edges near observation o, within
// radius, queried from the caller's spatial index.
type CandidateFinder func(o geom.Point) []roadgraph.Edge

// ScoredPath is one ranked result from a top-k Viterbi decode: Score is
// the accumulated negative log-probability (lower is better), Edges is
// the winning edge per observation. A null step repeats the previous
// step's edge; an entry is nil only for a null step with no earlier edge
// to repeat.
type ScoredPath struct {
	Score float64
	Edges []*roadgraph.Edge
}

// ViterbiMapMatcher decodes an observation sequence via the classical
// trellis algorithm: every candidate at a step keeps its single best
// predecessor, and Decode returns the paths ending in the TopK lowest-cost
// final candidates. Because only one predecessor is kept per candidate,
// the returned paths all end in different edges; a runner-up route into
// the same final edge is not returned. A null state is used at any step
// where no candidate can be reached from the previous step (in particular
// when the candidate set is empty): it repeats the previous step's best
// state at NullStatePenalty extra cost.
type ViterbiMapMatcher struct {
	Graph              *roadgraph.Graph
	Calc               topology.Calculator
	Plugins            []hmm.TransitionPlugin
	Emission           hmm.EmissionCalculator
	FindCandidates     CandidateFinder
	TopK               int
	NullStatePenalty   float64
}

type viterbiState struct {
	edge *roadgraph.Edge // nil = null state
}

type beamEntry struct {
	score float64
	state viterbiState
	back  int // index into the previous step's beam, -1 if initial
}

// Decode runs the trellis over observations, returning up to TopK scored
// paths ordered by ascending score (best first). Ties in V_i[j] resolve
// toward the predecessor with the lexicographically smaller edge id.
func (m *ViterbiMapMatcher) Decode(observations []geom.Point) ([]ScoredPath, error) {
	if m.Graph == nil {
		return nil, mmerrors.ErrNoGraph
	}
	if len(observations) == 0 {
		return nil, mmerrors.ErrNoObservations
	}
	topK := m.TopK
	if topK <= 0 {
		topK = 1
	}

	steps := make([][]beamEntry, len(observations))

	cands0 := m.FindCandidates(observations[0])
	steps[0] = m.initialBeam(cands0, observations[0])

	for i := 1; i < len(observations); i++ {
		cands := m.FindCandidates(observations[i])
		steps[i] = m.stepBeam(steps[i-1], cands, observations[i-1], observations[i], topK)
	}

	return m.extractTopK(steps, observations, topK), nil
}

func (m *ViterbiMapMatcher) initialBeam(cands []roadgraph.Edge, obs geom.Point) []beamEntry {
	if len(cands) == 0 {
		return []beamEntry{{score: m.NullStatePenalty, state: viterbiState{edge: nil}, back: -1}}
	}
	init := hmm.UniformInitialProbability(len(cands))
	sortEdgesByID(cands)
	entries := make([]beamEntry, len(cands))
	for i := range cands {
		entries[i] = beamEntry{
			score: init + m.Emission.Emit(obs, cands[i]),
			state: viterbiState{edge: &cands[i]},
			back:  -1,
		}
	}
	return entries
}

func (m *ViterbiMapMatcher) stepBeam(prev []beamEntry, cands []roadgraph.Edge, prevObs, obs geom.Point, topK int) []beamEntry {
	if len(cands) == 0 {
		best := bestOf(prev)
		return []beamEntry{{
			score: prev[best].score + m.NullStatePenalty,
			state: prev[best].state,
			back:  best,
		}}
	}
	sortEdgesByID(cands)

	var out []beamEntry
	for ci := range cands {
		to := cands[ci]
		bestScore := math.Inf(1)
		bestBack := -1
		for pi, p := range prev {
			if p.state.edge == nil {
				continue
			}
			fromBearing := m.Calc.InitialBearing(prevObs, obs)
			toBearing := m.Calc.InitialBearing(to.Polyline.Start(), to.Polyline.End())
			trans := hmm.TransitionProbability(m.Plugins, m.Graph, *p.state.edge, to, fromBearing, toBearing)
			score := p.score + trans
			if score < bestScore || (bestBack >= 0 && score == bestScore && lessEdgeID(prev[pi].state.edge, prev[bestBack].state.edge)) {
				bestScore, bestBack = score, pi
			}
		}
		if bestBack == -1 {
			continue
		}
		out = append(out, beamEntry{
			score: bestScore + m.Emission.Emit(obs, to),
			state: viterbiState{edge: &cands[ci]},
			back:  bestBack,
		})
	}
	if len(out) == 0 {
		best := bestOf(prev)
		return []beamEntry{{score: prev[best].score + m.NullStatePenalty, state: prev[best].state, back: best}}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].score < out[j].score })
	return out
}

func bestOf(entries []beamEntry) int {
	best := 0
	for i, e := range entries {
		if e.score < entries[best].score {
			best = i
		}
	}
	return best
}

func lessEdgeID(a, b *roadgraph.Edge) bool {
	if a == nil || b == nil {
		return false
	}
	return a.ID < b.ID
}

func sortEdgesByID(edges []roadgraph.Edge) {
	sort.Slice(edges, func(i, j int) bool { return edges[i].ID < edges[j].ID })
}

// extractTopK follows back-pointers from the final step's topK-best
// entries to build each full path, ordered by ascending score.
func (m *ViterbiMapMatcher) extractTopK(steps [][]beamEntry, observations []geom.Point, topK int) []ScoredPath {
	last := steps[len(steps)-1]
	order := make([]int, len(last))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool { return last[order[i]].score < last[order[j]].score })
	if len(order) > topK {
		order = order[:topK]
	}

	var results []ScoredPath
	for _, startIdx := range order {
		edges := make([]*roadgraph.Edge, len(steps))
		idx := startIdx
		for i := len(steps) - 1; i >= 0; i-- {
			edges[i] = steps[i][idx].state.edge
			idx = steps[i][idx].back
			if idx < 0 {
				break
			}
		}
		results = append(results, ScoredPath{Score: last[startIdx].score, Edges: edges})
	}
	return results
}
