package spatialindex

import (
	"container/heap"

	"github.com/udisondev/geomatch/internal/geom"
	"github.com/udisondev/geomatch/internal/geomutil"
)

type kdNode struct {
	point       geom.Point
	left, right *kdNode
	axis        int // 0 = x, 1 = y
}

// KDTree is a 2-D k-d tree over points, built with cyclic-axis quick-select
// median partitioning. Nearest-neighbour search is best-first: the
// frontier heap is ordered by each entry's minimum possible distance to
// the query point. At every branch both children are pushed, the nearer
// one with a zero bound and the farther one with the squared split-plane
// distance, so the far side is expanded only once no closer candidate is
// left. Region insertion uses the region's centre as its point key.
type KDTree struct {
	root      *kdNode
	precision float64
	count     int
}

// NewKDTree builds an empty KDTree. precision is the early-exit bound of
// Nearest: a point within precision of the query is returned as soon as
// it is reached. precision <= 0 disables the early exit.
func NewKDTree(precision float64) *KDTree {
	return &KDTree{precision: precision}
}

func (t *KDTree) IsEmpty() bool { return t.count == 0 }

func (t *KDTree) Insert(r geom.Region) error {
	p := regionCentre(r)
	t.root = insertKD(t.root, p, 0)
	t.count++
	return nil
}

func regionCentre(r geom.Region) geom.Point {
	if r.IsNull() {
		return geom.Point{}
	}
	return geom.NewPoint(r.X+r.Width/2, r.Y+r.Height/2)
}

func insertKD(n *kdNode, p geom.Point, depth int) *kdNode {
	if n == nil {
		return &kdNode{point: p, axis: depth % 2}
	}
	if axisValue(p, n.axis) < axisValue(n.point, n.axis) {
		n.left = insertKD(n.left, p, depth+1)
	} else {
		n.right = insertKD(n.right, p, depth+1)
	}
	return n
}

func axisValue(p geom.Point, axis int) float64 {
	if axis == 0 {
		return p.X
	}
	return p.Y
}

// BuildBalanced replaces the tree's contents with a balanced build from
// points, using quick-select to find the median at each level in expected
// linear time rather than sorting (O(n log n)) or relying on insertion
// order.
func (t *KDTree) BuildBalanced(points []geom.Point) {
	pts := make([]geom.Point, len(points))
	copy(pts, points)
	t.root = buildBalanced(pts, 0)
	t.count = len(pts)
}

func buildBalanced(pts []geom.Point, depth int) *kdNode {
	if len(pts) == 0 {
		return nil
	}
	axis := depth % 2
	mid := len(pts) / 2
	geomutil.QuickSelectPoints(pts, mid, func(a, b geom.Point) bool {
		return axisValue(a, axis) < axisValue(b, axis)
	})
	n := &kdNode{point: pts[mid], axis: axis}
	n.left = buildBalanced(pts[:mid], depth+1)
	n.right = buildBalanced(pts[mid+1:], depth+1)
	return n
}

func (t *KDTree) Delete(r geom.Region) bool {
	p := regionCentre(r)
	var removed bool
	t.root, removed = deleteKD(t.root, p, 0)
	if removed {
		t.count--
	}
	return removed
}

func deleteKD(n *kdNode, p geom.Point, depth int) (*kdNode, bool) {
	if n == nil {
		return nil, false
	}
	if n.point.Equals(p) {
		// Standard k-d deletion: replace with the minimum of the right
		// subtree along this axis (or the left, promoted to right, if the
		// right subtree is empty).
		if n.right != nil {
			minNode := findMin(n.right, n.axis, n.axis)
			n.point = minNode.point
			n.right, _ = deleteKD(n.right, minNode.point, depth+1)
			return n, true
		}
		if n.left != nil {
			minNode := findMin(n.left, n.axis, n.axis)
			n.point = minNode.point
			n.right, _ = deleteKD(n.left, minNode.point, depth+1)
			n.left = nil
			return n, true
		}
		return nil, true
	}
	if axisValue(p, n.axis) < axisValue(n.point, n.axis) {
		var removed bool
		n.left, removed = deleteKD(n.left, p, depth+1)
		return n, removed
	}
	var removed bool
	n.right, removed = deleteKD(n.right, p, depth+1)
	return n, removed
}

func findMin(n *kdNode, axis, depth int) *kdNode {
	if n == nil {
		return nil
	}
	if n.axis == axis {
		if n.left == nil {
			return n
		}
		return findMin(n.left, axis, depth+1)
	}
	candidates := []*kdNode{n}
	if l := findMin(n.left, axis, depth+1); l != nil {
		candidates = append(candidates, l)
	}
	if r := findMin(n.right, axis, depth+1); r != nil {
		candidates = append(candidates, r)
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if axisValue(c.point, axis) < axisValue(best.point, axis) {
			best = c
		}
	}
	return best
}

func (t *KDTree) Intersects(r geom.Region) bool {
	hit := false
	t.rangeSearch(r, func(geom.Point) bool {
		hit = true
		return false
	})
	return hit
}

func (t *KDTree) Contains(r geom.Region) bool {
	// A point index contains a region only if the region degenerates to a
	// single point already stored.
	if r.Width != 0 || r.Height != 0 {
		return false
	}
	return t.Intersects(r)
}

func (t *KDTree) Query(r geom.Region) []geom.Region {
	var out []geom.Region
	t.rangeSearch(r, func(p geom.Point) bool {
		out = append(out, geom.NewRegion(p.X, p.Y, 0, 0))
		return true
	})
	return out
}

func (t *KDTree) rangeSearch(r geom.Region, visit func(geom.Point) bool) {
	var walk func(n *kdNode) bool
	walk = func(n *kdNode) bool {
		if n == nil {
			return true
		}
		if r.ContainsPoint(n.point) {
			if !visit(n.point) {
				return false
			}
		}
		lo, hi := axisBounds(r, n.axis)
		if axisValue(n.point, n.axis) >= lo {
			if !walk(n.left) {
				return false
			}
		}
		if axisValue(n.point, n.axis) <= hi {
			if !walk(n.right) {
				return false
			}
		}
		return true
	}
	walk(t.root)
}

func axisBounds(r geom.Region, axis int) (lo, hi float64) {
	if axis == 0 {
		return r.X, r.MaxX()
	}
	return r.Y, r.MaxY()
}

// kdHeapItem is a best-first search frontier entry: either an unexplored
// subtree (node != nil) or a confirmed candidate point (node == nil).
type kdHeapItem struct {
	minDist float64
	node    *kdNode
	point   geom.Point
	isPoint bool
	index   int
}

type kdFrontier []*kdHeapItem

func (h kdFrontier) Len() int            { return len(h) }
func (h kdFrontier) Less(i, j int) bool  { return h[i].minDist < h[j].minDist }
func (h kdFrontier) Swap(i, j int)       { h[i], h[j] = h[j], h[i]; h[i].index = i; h[j].index = j }
func (h *kdFrontier) Push(x any) {
	item := x.(*kdHeapItem)
	item.index = len(*h)
	*h = append(*h, item)
}
func (h *kdFrontier) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

// Nearest returns the point nearest to query, and whether the tree is
// non-empty. Best-first: the frontier heap orders subtrees and candidate
// points by their minimum possible distance to query; both children of a
// node are pushed, and the far child's split-plane bound keeps it behind
// every closer candidate (the heap ordering does this without an explicit
// bound check per branch). When precision > 0, the first point reached
// within precision of query is returned without further search.
func (t *KDTree) Nearest(query geom.Point) (geom.Point, bool) {
	if t.root == nil {
		return geom.Point{}, false
	}
	frontier := &kdFrontier{}
	heap.Init(frontier)
	heap.Push(frontier, &kdHeapItem{minDist: 0, node: t.root})

	for frontier.Len() > 0 {
		item := heap.Pop(frontier).(*kdHeapItem)
		if item.isPoint {
			return item.point, true
		}
		n := item.node
		d := n.point.DistanceSquaredEuclidean(query)
		if t.precision > 0 && d <= t.precision*t.precision {
			return n.point, true
		}
		heap.Push(frontier, &kdHeapItem{
			minDist: d,
			point:   n.point,
			isPoint: true,
		})

		diff := axisValue(query, n.axis) - axisValue(n.point, n.axis)
		near, far := n.left, n.right
		if diff > 0 {
			near, far = n.right, n.left
		}
		if near != nil {
			heap.Push(frontier, &kdHeapItem{minDist: boundDist(near, query), node: near})
		}
		if far != nil {
			heap.Push(frontier, &kdHeapItem{minDist: diff * diff, node: far})
		}
	}
	return geom.Point{}, false
}

// boundDist returns zero: a subtree's minimum possible distance to any
// query point touching its splitting region is not tracked precisely here
// (no bounding-box per node), so the preferred/near child is always
// explored eagerly; the far child's bound is the split-plane distance,
// computed by the caller.
func boundDist(*kdNode, geom.Point) float64 { return 0 }
