package matcher

import (
	"testing"

	"github.com/udisondev/geomatch/internal/geom"
	"github.com/udisondev/geomatch/internal/hmm"
	"github.com/udisondev/geomatch/internal/mmerrors"
	"github.com/udisondev/geomatch/internal/roadgraph"
	"github.com/udisondev/geomatch/internal/topology"
)

// buildLineGraph makes a three-edge graph along the x-axis:
// e1 (0,0)-(10,0), e2 (10,0)-(20,0), e3 (20,0)-(30,0).
func buildLineGraph() (*roadgraph.Graph, topology.Calculator) {
	calc := topology.NewEuclidean(0)
	g := roadgraph.NewGraph(calc, 0.5)
	g.AddApproximateDirectEdge("e1", geom.NewPolyline([]geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}}))
	g.AddApproximateDirectEdge("e2", geom.NewPolyline([]geom.Point{{X: 10, Y: 0}, {X: 20, Y: 0}}))
	g.AddApproximateDirectEdge("e3", geom.NewPolyline([]geom.Point{{X: 20, Y: 0}, {X: 30, Y: 0}}))
	return g, calc
}

func candidateFinder(g *roadgraph.Graph, radius float64, calc topology.Calculator) CandidateFinder {
	return func(o geom.Point) []roadgraph.Edge {
		var out []roadgraph.Edge
		for _, e := range g.Edges() {
			if d, _ := calc.DistanceToPolyline(o, e.Polyline); d <= radius {
				out = append(out, e)
			}
		}
		return out
	}
}

func TestViterbiMapMatcher_Decode_FollowsStraightLine(t *testing.T) {
	g, calc := buildLineGraph()
	m := &ViterbiMapMatcher{
		Graph:            g,
		Calc:             calc,
		Plugins:          []hmm.TransitionPlugin{hmm.TopologicalPlugin{}},
		Emission:         hmm.GaussianEmissionCalculator{Calc: calc, Sigma: 5},
		FindCandidates:   candidateFinder(g, 3, calc),
		TopK:             1,
		NullStatePenalty: 50,
	}

	observations := []geom.Point{{X: 2, Y: 0.5}, {X: 12, Y: 0.5}, {X: 22, Y: 0.5}}
	paths, err := m.Decode(observations)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(paths) == 0 {
		t.Fatalf("Decode() returned no paths")
	}
	best := paths[0]
	wantIDs := []string{"e1", "e2", "e3"}
	for i, e := range best.Edges {
		if e == nil {
			t.Fatalf("Edges[%d] = nil, want %s", i, wantIDs[i])
		}
		if e.ID != wantIDs[i] {
			t.Errorf("Edges[%d].ID = %q, want %q", i, e.ID, wantIDs[i])
		}
	}
}

func TestViterbiMapMatcher_Decode_NoGraph(t *testing.T) {
	m := &ViterbiMapMatcher{}
	if _, err := m.Decode([]geom.Point{{X: 0, Y: 0}}); err != mmerrors.ErrNoGraph {
		t.Errorf("Decode() error = %v, want ErrNoGraph", err)
	}
}

func TestViterbiMapMatcher_Decode_NoObservations(t *testing.T) {
	g, calc := buildLineGraph()
	m := &ViterbiMapMatcher{Graph: g, Calc: calc, FindCandidates: candidateFinder(g, 1, calc)}
	if _, err := m.Decode(nil); err != mmerrors.ErrNoObservations {
		t.Errorf("Decode() error = %v, want ErrNoObservations", err)
	}
}

func TestAStarMapMatcher_Decode_ReachesGoal(t *testing.T) {
	g, calc := buildLineGraph()
	m := &AStarMapMatcher{
		Graph:           g,
		Calc:            calc,
		Plugins:         []hmm.TransitionPlugin{hmm.TopologicalPlugin{}},
		Emission:        hmm.GaussianEmissionCalculator{Calc: calc, Sigma: 5},
		FindCandidates:  candidateFinder(g, 3, calc),
		DensityConstant: 0.01,
	}

	observations := []geom.Point{{X: 2, Y: 0.5}, {X: 12, Y: 0.5}, {X: 22, Y: 0.5}}
	path, err := m.Decode(observations)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(path) != 3 || path[2] == nil || path[2].ID != "e3" {
		t.Errorf("Decode() final edge = %v, want e3", path)
	}
}
