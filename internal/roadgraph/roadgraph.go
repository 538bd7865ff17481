// Package roadgraph builds the NearLineMergeGraph: a road network whose
// nodes are snapped endpoints (within a distance threshold) and whose
// edges carry the polyline geometry matched against observations.
package roadgraph

import (
	"github.com/udisondev/geomatch/internal/geom"
	"github.com/udisondev/geomatch/internal/topology"
)

// Node is a snapped endpoint in the graph.
type Node struct {
	ID    uint32
	Point geom.Point
}

// Edge is a directed road segment between two nodes.
type Edge struct {
	ID       string
	From, To uint32
	Polyline geom.Polyline
}

// Reverse returns a new edge covering the same polyline in the opposite
// direction, with id suffixed "-rev" — the caller adds both to support
// bidirectional traversal.
func (e Edge) Reverse() Edge {
	return Edge{
		ID:       e.ID + "-rev",
		From:     e.To,
		To:       e.From,
		Polyline: e.Polyline.Reverse(),
	}
}

// Graph is a NearLineMergeGraph: addApproximateDirectEdge snaps each
// edge's endpoints to existing nodes within threshold, or creates new
// ones, and indexes edges by their origin node for outgoing-edge lookup.
type Graph struct {
	calc      topology.Calculator
	threshold float64

	nodes    []Node
	edges    map[string]Edge
	outgoing map[uint32][]string
	nextID   uint32
}

// NewGraph builds an empty graph. Endpoints within threshold (in calc's
// native distance unit) are snapped to the same node.
func NewGraph(calc topology.Calculator, threshold float64) *Graph {
	return &Graph{
		calc:      calc,
		threshold: threshold,
		edges:     make(map[string]Edge),
		outgoing:  make(map[uint32][]string),
	}
}

// AddApproximateDirectEdge locates or creates nodes for the polyline's
// start and end, snapping to any existing node within threshold, and
// stores the resulting edge.
func (g *Graph) AddApproximateDirectEdge(id string, pl geom.Polyline) Edge {
	from := g.snapOrCreate(pl.Start())
	to := g.snapOrCreate(pl.End())
	e := Edge{ID: id, From: from, To: to, Polyline: pl}
	g.edges[id] = e
	g.outgoing[from] = append(g.outgoing[from], id)
	return e
}

// AddBidirectionalEdge stores the edge built from pl and its Reverse(),
// both indexed by their origin node —
// the caller's route for bidirectional roads.
func (g *Graph) AddBidirectionalEdge(id string, pl geom.Polyline) (Edge, Edge) {
	fwd := g.AddApproximateDirectEdge(id, pl)
	rev := fwd.Reverse()
	g.edges[rev.ID] = rev
	g.outgoing[rev.From] = append(g.outgoing[rev.From], rev.ID)
	return fwd, rev
}

func (g *Graph) snapOrCreate(p geom.Point) uint32 {
	for _, n := range g.nodes {
		if g.calc.Distance(n.Point, p) <= g.threshold {
			return n.ID
		}
	}
	n := Node{ID: g.nextID, Point: p}
	g.nodes = append(g.nodes, n)
	g.nextID++
	return n.ID
}

// Nodes returns every node in the graph.
func (g *Graph) Nodes() []Node {
	return g.nodes
}

// Edges returns every edge in the graph, in no particular order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, len(g.edges))
	for _, e := range g.edges {
		out = append(out, e)
	}
	return out
}

// Edge looks up an edge by id.
func (g *Graph) Edge(id string) (Edge, bool) {
	e, ok := g.edges[id]
	return e, ok
}

// OutgoingEdges returns the edges whose From node is node.
func (g *Graph) OutgoingEdges(node uint32) []Edge {
	ids := g.outgoing[node]
	out := make([]Edge, 0, len(ids))
	for _, id := range ids {
		out = append(out, g.edges[id])
	}
	return out
}

// SharesEndpoint reports whether edges a and b share a node, used by the
// HMM topological transition plug-in.
func (g *Graph) SharesEndpoint(a, b Edge) bool {
	return a.From == b.From || a.From == b.To || a.To == b.From || a.To == b.To
}
