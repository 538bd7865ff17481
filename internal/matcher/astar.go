package matcher

import (
	"container/heap"
	"strconv"

	"github.com/udisondev/geomatch/internal/geom"
	"github.com/udisondev/geomatch/internal/hmm"
	"github.com/udisondev/geomatch/internal/mmerrors"
	"github.com/udisondev/geomatch/internal/roadgraph"
	"github.com/udisondev/geomatch/internal/topology"
)

// AStarMapMatcher decodes an observation sequence via best-first search
// over (observation index, edge) states, with g = accumulated negative
// log-probability and h = an admissible heuristic (great-circle distance
// from the current observation to the final one, times DensityConstant).
type AStarMapMatcher struct {
	Graph           *roadgraph.Graph
	Calc            topology.Calculator
	Plugins         []hmm.TransitionPlugin
	Emission        hmm.EmissionCalculator
	FindCandidates  CandidateFinder
	DensityConstant float64
}

type astarNode struct {
	obsIndex int
	edge     roadgraph.Edge
	parent   *astarNode
	g, h, f  float64
	index    int
}

type astarHeap []*astarNode

func (h astarHeap) Len() int           { return len(h) }
func (h astarHeap) Less(i, j int) bool { return h[i].f < h[j].f }
func (h astarHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i]; h[i].index = i; h[j].index = j }
func (h *astarHeap) Push(x any) {
	n := x.(*astarNode)
	n.index = len(*h)
	*h = append(*h, n)
}
func (h *astarHeap) Pop() any {
	old := *h
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	node.index = -1
	*h = old[:n-1]
	return node
}

// Decode runs A* search to the final observation index, returning the
// winning edge per observation (nil for indices where the goal path
// passed through no candidate, which Decode never actually produces since
// every expanded node carries a concrete edge).
func (m *AStarMapMatcher) Decode(observations []geom.Point) ([]*roadgraph.Edge, error) {
	if m.Graph == nil {
		return nil, mmerrors.ErrNoGraph
	}
	if len(observations) == 0 {
		return nil, mmerrors.ErrNoObservations
	}
	goalIndex := len(observations) - 1

	open := &astarHeap{}
	heap.Init(open)

	start := observations[0]
	for _, e := range m.FindCandidates(start) {
		n := &astarNode{
			obsIndex: 0,
			edge:     e,
			g:        m.Emission.Emit(start, e),
		}
		n.h = m.heuristic(start, observations[goalIndex])
		n.f = n.g + n.h
		heap.Push(open, n)
	}

	visited := make(map[string]bool)

	for open.Len() > 0 {
		cur := heap.Pop(open).(*astarNode)
		key := nodeKey(cur.obsIndex, cur.edge.ID)
		if visited[key] {
			continue
		}
		visited[key] = true

		if cur.obsIndex == goalIndex {
			return reconstructPath(cur, len(observations)), nil
		}

		nextObs := observations[cur.obsIndex+1]
		fromBearing := m.Calc.InitialBearing(observations[cur.obsIndex], nextObs)
		for _, succ := range m.FindCandidates(nextObs) {
			toBearing := m.Calc.InitialBearing(succ.Polyline.Start(), succ.Polyline.End())
			trans := hmm.TransitionProbability(m.Plugins, m.Graph, cur.edge, succ, fromBearing, toBearing)
			if isInfCost(trans) {
				continue
			}
			child := &astarNode{
				obsIndex: cur.obsIndex + 1,
				edge:     succ,
				parent:   cur,
				g:        cur.g + trans + m.Emission.Emit(nextObs, succ),
			}
			child.h = m.heuristic(nextObs, observations[goalIndex])
			child.f = child.g + child.h
			heap.Push(open, child)
		}
	}
	return nil, nil
}

func (m *AStarMapMatcher) heuristic(from, goal geom.Point) float64 {
	return m.Calc.Distance(from, goal) * m.DensityConstant
}

func isInfCost(v float64) bool {
	return v > 1e300
}

func nodeKey(obsIndex int, edgeID string) string {
	return edgeID + "@" + strconv.Itoa(obsIndex)
}

func reconstructPath(goal *astarNode, n int) []*roadgraph.Edge {
	path := make([]*roadgraph.Edge, n)
	for node := goal; node != nil; node = node.parent {
		e := node.edge
		path[node.obsIndex] = &e
	}
	return path
}
