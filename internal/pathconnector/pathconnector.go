// Package pathconnector bridges gaps between a map matcher's winning
// edges: when consecutive non-null edges don't share a graph node, it runs
// a shortest-path search over the road graph and splices the result in.
package pathconnector

import (
	"container/heap"

	"github.com/udisondev/geomatch/internal/geom"
	"github.com/udisondev/geomatch/internal/roadgraph"
	"github.com/udisondev/geomatch/internal/topology"
)

type pqItem struct {
	node    uint32
	g, h, f float64
	path    []roadgraph.Edge
	index   int
}

type priorityQueue []*pqItem

func (pq priorityQueue) Len() int           { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool { return pq[i].f < pq[j].f }
func (pq priorityQueue) Swap(i, j int)      { pq[i], pq[j] = pq[j], pq[i]; pq[i].index = i; pq[j].index = j }
func (pq *priorityQueue) Push(x any) {
	item := x.(*pqItem)
	item.index = len(*pq)
	*pq = append(*pq, item)
}
func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]
	return item
}

// Connector finds shortest paths over a road graph to splice between
// non-adjacent winning edges. Grounded on the same container/heap
// index-tracking A* pattern the teacher's pathfinder uses.
type Connector struct {
	Graph *roadgraph.Graph
	Calc  topology.Calculator
}

// ShortestPath runs A* (Dijkstra when Calc is nil, since h is then always
// zero) from node from to node to over the graph, returning the edges
// traversed and their total length: the sum of Calc.Distance over each
// edge's segments, or the planar Polyline.Length when Calc is nil. ok is
// false if no path exists.
func (c Connector) ShortestPath(from, to uint32) (edges []roadgraph.Edge, distance float64, ok bool) {
	if from == to {
		return nil, 0, true
	}
	goalPoint := c.nodePoint(to)

	pq := &priorityQueue{}
	heap.Init(pq)
	heap.Push(pq, &pqItem{node: from, g: 0, h: c.heuristic(from, goalPoint), f: c.heuristic(from, goalPoint)})

	best := make(map[uint32]float64)
	best[from] = 0

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(*pqItem)
		if cur.g > best[cur.node] {
			continue
		}
		if cur.node == to {
			return cur.path, cur.g, true
		}
		for _, e := range c.Graph.OutgoingEdges(cur.node) {
			length := e.Polyline.Length()
			if c.Calc != nil {
				length = geodesicLength(c.Calc, e)
			}
			ng := cur.g + length
			if prior, seen := best[e.To]; seen && prior <= ng {
				continue
			}
			best[e.To] = ng
			path := append(append([]roadgraph.Edge{}, cur.path...), e)
			heap.Push(pq, &pqItem{
				node: e.To,
				g:    ng,
				h:    c.heuristic(e.To, goalPoint),
				f:    ng + c.heuristic(e.To, goalPoint),
				path: path,
			})
		}
	}
	return nil, 0, false
}

func (c Connector) heuristic(node uint32, goal geom.Point) float64 {
	if c.Calc == nil {
		return 0
	}
	return c.Calc.Distance(c.nodePoint(node), goal)
}

func (c Connector) nodePoint(node uint32) geom.Point {
	for _, n := range c.Graph.Nodes() {
		if n.ID == node {
			return n.Point
		}
	}
	return geom.Point{}
}

func geodesicLength(calc topology.Calculator, e roadgraph.Edge) float64 {
	var total float64
	e.Polyline.Segments(func(_ int, a, b geom.Point) bool {
		total += calc.Distance(a, b)
		return true
	})
	return total
}

// ConnectGaps fills gaps between consecutive non-null winning edges where
// the first edge's end node is not the next edge's start node, splicing
// the shortest path's edges in between. Edges already consecutive are
// left untouched, and a winner that repeats the previous edge (one edge
// matched to several observations) is emitted once.
func (c Connector) ConnectGaps(winners []*roadgraph.Edge) []roadgraph.Edge {
	var out []roadgraph.Edge
	var prev *roadgraph.Edge
	for _, w := range winners {
		if w == nil {
			continue
		}
		if prev != nil && prev.ID == w.ID {
			continue
		}
		if prev != nil && prev.To != w.From {
			if bridge, _, ok := c.ShortestPath(prev.To, w.From); ok {
				out = append(out, bridge...)
			}
		}
		out = append(out, *w)
		prev = w
	}
	return out
}
