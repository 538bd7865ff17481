package spatialindex

import (
	"github.com/udisondev/geomatch/internal/geom"
	"github.com/udisondev/geomatch/internal/mmerrors"
)

// DefaultMaxTreeDepth bounds SuccinctKDTree's implicit addressing depth;
// beyond it, Insert fails with ErrMaximumTreeDepth rather than silently
// overflowing the address space.
const DefaultMaxTreeDepth = 32

// SuccinctKDTree is a level-order, implicitly-addressed k-d tree: node i's
// children live at addresses 2i+1 and 2i+2, matching container/heap's
// binary-heap addressing. Rather than a dense preallocated array (which
// would waste space proportional to how unbalanced the tree has become,
// since only Rebalance keeps it balanced), nodes are stored in a sparse
// map keyed by address.
type SuccinctKDTree struct {
	nodes    map[uint64]geom.Point
	maxDepth int
	count    int
}

// NewSuccinctKDTree builds an empty tree. maxDepth <= 0 selects
// DefaultMaxTreeDepth.
func NewSuccinctKDTree(maxDepth int) *SuccinctKDTree {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxTreeDepth
	}
	return &SuccinctKDTree{nodes: make(map[uint64]geom.Point), maxDepth: maxDepth}
}

func (t *SuccinctKDTree) IsEmpty() bool { return t.count == 0 }

func (t *SuccinctKDTree) Insert(r geom.Region) error {
	p := regionCentre(r)
	addr := uint64(0)
	depth := 0
	for {
		if depth > t.maxDepth {
			return mmerrors.ErrMaximumTreeDepth
		}
		existing, ok := t.nodes[addr]
		if !ok {
			t.nodes[addr] = p
			t.count++
			return nil
		}
		axis := depth % 2
		if axisValue(p, axis) < axisValue(existing, axis) {
			addr = 2*addr + 1
		} else {
			addr = 2*addr + 2
		}
		depth++
	}
}

func (t *SuccinctKDTree) Delete(r geom.Region) bool {
	p := regionCentre(r)
	addr, found := t.findAddr(p)
	if !found {
		return false
	}
	delete(t.nodes, addr)
	t.count--
	t.collapseSubtree(addr)
	return true
}

// collapseSubtree re-inserts every descendant of the now-vacated address,
// since implicit addressing does not allow rotating a child up in place.
func (t *SuccinctKDTree) collapseSubtree(addr uint64) {
	left, right := 2*addr+1, 2*addr+2
	for _, child := range []uint64{left, right} {
		if p, ok := t.nodes[child]; ok {
			delete(t.nodes, child)
			t.count--
			t.collapseSubtree(child)
			_ = t.Insert(geom.NewRegion(p.X, p.Y, 0, 0))
		}
	}
}

func (t *SuccinctKDTree) findAddr(p geom.Point) (uint64, bool) {
	addr := uint64(0)
	depth := 0
	for {
		existing, ok := t.nodes[addr]
		if !ok {
			return 0, false
		}
		if existing.Equals(p) {
			return addr, true
		}
		axis := depth % 2
		if axisValue(p, axis) < axisValue(existing, axis) {
			addr = 2*addr + 1
		} else {
			addr = 2*addr + 2
		}
		depth++
	}
}

// Rebalance rebuilds the tree from its current contents using a balanced
// median-split build, restoring O(log n) depth after a sequence of
// insertions/deletions has skewed it.
func (t *SuccinctKDTree) Rebalance() {
	pts := make([]geom.Point, 0, len(t.nodes))
	for _, p := range t.nodes {
		pts = append(pts, p)
	}
	t.nodes = make(map[uint64]geom.Point, len(pts))
	t.count = 0
	t.rebuildBalanced(pts, 0, 0)
}

func (t *SuccinctKDTree) rebuildBalanced(pts []geom.Point, addr uint64, depth int) {
	if len(pts) == 0 {
		return
	}
	axis := depth % 2
	sortByAxis(pts, axis)
	mid := len(pts) / 2
	t.nodes[addr] = pts[mid]
	t.count++
	t.rebuildBalanced(pts[:mid], 2*addr+1, depth+1)
	t.rebuildBalanced(pts[mid+1:], 2*addr+2, depth+1)
}

func sortByAxis(pts []geom.Point, axis int) {
	for i := 1; i < len(pts); i++ {
		for j := i; j > 0 && axisValue(pts[j], axis) < axisValue(pts[j-1], axis); j-- {
			pts[j], pts[j-1] = pts[j-1], pts[j]
		}
	}
}

func (t *SuccinctKDTree) Intersects(r geom.Region) bool {
	for _, p := range t.nodes {
		if r.ContainsPoint(p) {
			return true
		}
	}
	return false
}

func (t *SuccinctKDTree) Contains(r geom.Region) bool {
	if r.Width != 0 || r.Height != 0 {
		return false
	}
	return t.Intersects(r)
}

func (t *SuccinctKDTree) Query(r geom.Region) []geom.Region {
	var out []geom.Region
	for _, p := range t.nodes {
		if r.ContainsPoint(p) {
			out = append(out, geom.NewRegion(p.X, p.Y, 0, 0))
		}
	}
	return out
}
