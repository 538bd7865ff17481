package spatialindex

import (
	"math"

	"github.com/udisondev/geomatch/internal/geom"
)

// DefaultMinObjects and DefaultMaxObjects are the RTree's default fanout
// bounds per node.
const (
	DefaultMinObjects = 2
	DefaultMaxObjects = 8
)

type rtreeEntry struct {
	bounds geom.Region
	region geom.Region // leaf payload; zero value on internal entries
	child  *rtreeNode  // nil on leaf entries
}

type rtreeNode struct {
	entries []rtreeEntry
	leaf    bool
	parent  *rtreeNode
}

func (n *rtreeNode) boundingRegion() geom.Region {
	r := geom.NullRegion()
	for _, e := range n.entries {
		r = r.ExpandToIncludeRegion(e.bounds)
	}
	return r
}

// RTree is a quadratic-split R-tree: chooseLeaf descends by minimum
// enlargement (ties broken by smaller area); overflow triggers splitNode,
// which picks seeds via linear pick-seeds and distributes the rest by
// least enlargement (ties by smaller resulting area, then smaller group
// size); adjustTree propagates MBR tightening and splits up to the root.
type RTree struct {
	root       *rtreeNode
	minObjects int
	maxObjects int
	count      int
}

// NewRTree builds an empty RTree. minObjects/maxObjects <= 0 select the
// package defaults.
func NewRTree(minObjects, maxObjects int) *RTree {
	if minObjects <= 0 {
		minObjects = DefaultMinObjects
	}
	if maxObjects <= 0 {
		maxObjects = DefaultMaxObjects
	}
	return &RTree{
		root:       &rtreeNode{leaf: true},
		minObjects: minObjects,
		maxObjects: maxObjects,
	}
}

func (t *RTree) IsEmpty() bool { return t.count == 0 }

func (t *RTree) Insert(r geom.Region) error {
	leaf := t.chooseLeaf(t.root, r)
	leaf.entries = append(leaf.entries, rtreeEntry{bounds: r, region: r})
	t.count++
	t.adjustTree(leaf)
	return nil
}

// chooseLeaf descends by minimum enlargement to include r, breaking ties
// on the subtree with smaller area.
func (t *RTree) chooseLeaf(n *rtreeNode, r geom.Region) *rtreeNode {
	for !n.leaf {
		bestIdx := -1
		var bestEnlargement, bestArea float64
		for i, e := range n.entries {
			enlargement := e.bounds.EnlargementToInclude(r)
			area := e.bounds.EuclideanArea()
			if bestIdx == -1 || enlargement < bestEnlargement ||
				(enlargement == bestEnlargement && area < bestArea) {
				bestIdx, bestEnlargement, bestArea = i, enlargement, area
			}
		}
		n = n.entries[bestIdx].child
	}
	return n
}

// adjustTree tightens bounding regions from leaf up to the root, splitting
// any node that overflowed maxObjects and propagating a new root when the
// split reaches the top.
func (t *RTree) adjustTree(n *rtreeNode) {
	for {
		if len(n.entries) > t.maxObjects {
			n1, n2 := t.splitNode(n)
			if n.parent == nil {
				newRoot := &rtreeNode{leaf: false}
				newRoot.entries = []rtreeEntry{
					{bounds: n1.boundingRegion(), child: n1},
					{bounds: n2.boundingRegion(), child: n2},
				}
				n1.parent, n2.parent = newRoot, newRoot
				t.root = newRoot
				return
			}
			t.replaceChild(n.parent, n, n1, n2)
			n = n.parent
			continue
		}
		if n.parent == nil {
			return
		}
		t.tightenParentEntry(n)
		n = n.parent
	}
}

func (t *RTree) tightenParentEntry(n *rtreeNode) {
	for i := range n.parent.entries {
		if n.parent.entries[i].child == n {
			n.parent.entries[i].bounds = n.boundingRegion()
			return
		}
	}
}

func (t *RTree) replaceChild(parent, old, n1, n2 *rtreeNode) {
	for i, e := range parent.entries {
		if e.child == old {
			parent.entries[i] = rtreeEntry{bounds: n1.boundingRegion(), child: n1}
			parent.entries = append(parent.entries, rtreeEntry{bounds: n2.boundingRegion(), child: n2})
			n1.parent, n2.parent = parent, parent
			return
		}
	}
}

// splitNode implements Guttman's quadratic split: linear pick-seeds chooses
// the pair of entries with maximum normalised separation across either
// axis; remaining entries are assigned one at a time to whichever group
// needs least enlargement, ties broken by smaller area then smaller group.
func (t *RTree) splitNode(n *rtreeNode) (*rtreeNode, *rtreeNode) {
	seed1, seed2 := linearPickSeeds(n.entries)

	g1 := &rtreeNode{leaf: n.leaf}
	g2 := &rtreeNode{leaf: n.leaf}
	g1.entries = append(g1.entries, n.entries[seed1])
	g2.entries = append(g2.entries, n.entries[seed2])

	assigned := make(map[int]bool, len(n.entries))
	assigned[seed1] = true
	assigned[seed2] = true

	for i, e := range n.entries {
		if assigned[i] {
			continue
		}
		b1 := g1.boundingRegion()
		b2 := g2.boundingRegion()
		enl1 := b1.EnlargementToInclude(e.bounds)
		enl2 := b2.EnlargementToInclude(e.bounds)
		switch {
		case enl1 < enl2:
			g1.entries = append(g1.entries, e)
		case enl2 < enl1:
			g2.entries = append(g2.entries, e)
		case b1.EuclideanArea() < b2.EuclideanArea():
			g1.entries = append(g1.entries, e)
		case b2.EuclideanArea() < b1.EuclideanArea():
			g2.entries = append(g2.entries, e)
		case len(g1.entries) <= len(g2.entries):
			g1.entries = append(g1.entries, e)
		default:
			g2.entries = append(g2.entries, e)
		}
	}

	if !n.leaf {
		for _, e := range g1.entries {
			e.child.parent = g1
		}
		for _, e := range g2.entries {
			e.child.parent = g2
		}
	}
	return g1, g2
}

// linearPickSeeds maximises normalised separation per axis and returns the
// indices of the chosen pair.
func linearPickSeeds(entries []rtreeEntry) (int, int) {
	bestSep := math.Inf(-1)
	i1, i2 := 0, 1
	if len(entries) < 2 {
		return 0, 0
	}

	for _, axis := range []int{0, 1} {
		greatestLowIdx, leastHighIdx := 0, 0
		greatestLow, leastHigh := math.Inf(-1), math.Inf(1)
		rangeLow, rangeHigh := math.Inf(1), math.Inf(-1)
		for i, e := range entries {
			var low, high float64
			if axis == 0 {
				low, high = e.bounds.X, e.bounds.MaxX()
			} else {
				low, high = e.bounds.Y, e.bounds.MaxY()
			}
			rangeLow = math.Min(rangeLow, low)
			rangeHigh = math.Max(rangeHigh, high)
			if low > greatestLow {
				greatestLow, greatestLowIdx = low, i
			}
			if high < leastHigh {
				leastHigh, leastHighIdx = high, i
			}
		}
		width := rangeHigh - rangeLow
		if width <= 0 || greatestLowIdx == leastHighIdx {
			continue
		}
		sep := math.Abs(greatestLow-leastHigh) / width
		if sep > bestSep {
			bestSep = sep
			i1, i2 = greatestLowIdx, leastHighIdx
		}
	}
	if i1 == i2 {
		i1, i2 = 0, 1
	}
	return i1, i2
}

func (t *RTree) Delete(r geom.Region) bool {
	leaf, idx := t.findLeaf(t.root, r)
	if leaf == nil {
		return false
	}
	leaf.entries = append(leaf.entries[:idx], leaf.entries[idx+1:]...)
	t.count--
	t.condenseTree(leaf)
	return true
}

// findLeaf searches by intersection (matching findLeaf's role in
// spec.md's delete description) then confirms exact equality for removal.
func (t *RTree) findLeaf(n *rtreeNode, r geom.Region) (*rtreeNode, int) {
	if n.leaf {
		for i, e := range n.entries {
			if e.region == r {
				return n, i
			}
		}
		return nil, -1
	}
	for _, e := range n.entries {
		if !e.bounds.Intersects(r) && !e.bounds.Contains(r) {
			continue
		}
		if leaf, idx := t.findLeaf(e.child, r); leaf != nil {
			return leaf, idx
		}
	}
	return nil, -1
}

// condenseTree orphans any under-full node's surviving entries and
// reinserts them from the root, then tightens ancestor MBRs.
func (t *RTree) condenseTree(n *rtreeNode) {
	var orphans []rtreeEntry
	cur := n
	for cur.parent != nil {
		parent := cur.parent
		if len(cur.entries) < t.minObjects {
			orphans = append(orphans, cur.entries...)
			t.removeChildEntry(parent, cur)
		} else {
			t.tightenParentEntry(cur)
		}
		cur = parent
	}
	if len(t.root.entries) == 1 && !t.root.leaf {
		t.root = t.root.entries[0].child
		t.root.parent = nil
	}
	for _, e := range orphans {
		if e.child != nil {
			t.reinsertSubtree(e.child)
		} else {
			t.count--
			_ = t.Insert(e.region)
		}
	}
}

func (t *RTree) removeChildEntry(parent, child *rtreeNode) {
	for i, e := range parent.entries {
		if e.child == child {
			parent.entries = append(parent.entries[:i], parent.entries[i+1:]...)
			return
		}
	}
}

func (t *RTree) reinsertSubtree(n *rtreeNode) {
	if n.leaf {
		for _, e := range n.entries {
			t.count--
			_ = t.Insert(e.region)
		}
		return
	}
	for _, e := range n.entries {
		t.reinsertSubtree(e.child)
	}
}

func (t *RTree) Intersects(r geom.Region) bool {
	return t.search(t.root, r, func(geom.Region) bool { return false }) != nil
}

func (t *RTree) Contains(r geom.Region) bool {
	var found *geom.Region
	t.search(t.root, r, func(cand geom.Region) bool {
		if cand.Contains(r) {
			c := cand
			found = &c
			return false
		}
		return true
	})
	return found != nil
}

func (t *RTree) Query(r geom.Region) []geom.Region {
	var out []geom.Region
	t.search(t.root, r, func(cand geom.Region) bool {
		out = append(out, cand)
		return true
	})
	return out
}

// search walks nodes whose bounds intersect r, calling visit on each
// matching leaf region; returns a non-nil sentinel once visit halts early.
func (t *RTree) search(n *rtreeNode, r geom.Region, visit func(geom.Region) bool) *struct{} {
	if !n.boundingRegion().Intersects(r) && !n.boundingRegion().IsNull() {
		return nil
	}
	if n.leaf {
		for _, e := range n.entries {
			if e.region.Intersects(r) {
				if !visit(e.region) {
					return &struct{}{}
				}
			}
		}
		return nil
	}
	for _, e := range n.entries {
		if !e.bounds.Intersects(r) {
			continue
		}
		if res := t.search(e.child, r, visit); res != nil {
			return res
		}
	}
	return nil
}
