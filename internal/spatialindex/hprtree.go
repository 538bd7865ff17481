package spatialindex

import (
	"sort"

	"github.com/udisondev/geomatch/internal/geom"
	"github.com/udisondev/geomatch/internal/geomutil"
	"github.com/udisondev/geomatch/internal/mmerrors"
)

// DefaultHPRNodeCapacity is the default number of items packed per node
// (and per leaf block) when an HPRTree is built.
const DefaultHPRNodeCapacity = 16

// hilbertLevel is the Hilbert curve order used to rank envelope midpoints;
// 12 gives a 4096x4096 grid of cells, ample resolution relative to typical
// coordinate precision.
const hilbertLevel = 12

// HPRTree is a Hilbert-Packed R-tree: a static, build-once index. Insert
// accumulates items; Build() sorts them by the Hilbert code of their
// envelope midpoint and packs them bottom-up into fixed-size layers,
// storing every node's MBR as four consecutive float64s in one flat array.
// Queries traverse top-down, skipping nodes disjoint from the search
// envelope. Any Insert after Build fails with ErrBuildLocked.
type HPRTree struct {
	capacity  int
	pending   []geom.Region
	built     bool
	nodeBounds     []float64 // MinX, MinY, MaxX, MaxY per node, flattened
	layerStart     []int     // offset (in nodes) of each layer, leaf layer first
	leafRegions    []geom.Region
}

// NewHPRTree builds an empty, unbuilt HPRTree. capacity <= 0 selects
// DefaultHPRNodeCapacity.
func NewHPRTree(capacity int) *HPRTree {
	if capacity <= 0 {
		capacity = DefaultHPRNodeCapacity
	}
	return &HPRTree{capacity: capacity}
}

func (t *HPRTree) IsEmpty() bool {
	if t.built {
		return len(t.leafRegions) == 0
	}
	return len(t.pending) == 0
}

// Insert accumulates r for the next Build call. Fails with ErrBuildLocked
// once the tree has been built.
func (t *HPRTree) Insert(r geom.Region) error {
	if t.built {
		return mmerrors.ErrBuildLocked
	}
	t.pending = append(t.pending, r)
	return nil
}

// Delete is unsupported on a built, static index; it always reports no
// match found. Callers needing mutation should use RTree or RegionQuadTree
// instead.
func (t *HPRTree) Delete(geom.Region) bool { return false }

// Build sorts the accumulated regions by the Hilbert code of their
// envelope midpoint and packs them bottom-up into layers of t.capacity,
// recording each layer's MBR. Calling Build on a tree that is already
// built does nothing.
func (t *HPRTree) Build() {
	if t.built {
		return
	}
	items := make([]geom.Region, len(t.pending))
	copy(items, t.pending)
	sort.Slice(items, func(i, j int) bool {
		return hilbertCode(items[i]) < hilbertCode(items[j])
	})
	t.leafRegions = items
	t.pending = nil
	t.built = true

	t.packLayers()
}

func hilbertCode(r geom.Region) uint64 {
	mid := geom.EnvelopeFromRegion(r).Midpoint()
	// Map coordinates onto the [0, 2^hilbertLevel) grid; geographic and
	// projected coordinates both fit comfortably since only relative
	// ordering across the item set matters for packing.
	side := uint32(1) << hilbertLevel
	x := geomutil.GridCoord(mid.X, side)
	y := geomutil.GridCoord(mid.Y, side)
	return geomutil.HilbertEncode(hilbertLevel, x, y)
}

// packLayers bottom-up packs leafRegions into fixed-size nodes, then packs
// those nodes' MBRs into the next layer, repeating until a single root
// remains. layerStart[0] is the leaf layer's offset; the flat nodeBounds
// array stores every layer concatenated.
func (t *HPRTree) packLayers() {
	t.nodeBounds = nil
	t.layerStart = nil

	layerBounds := packNext(t.leafRegions, t.capacity)

	for {
		t.layerStart = append(t.layerStart, len(t.nodeBounds)/4)
		for _, r := range layerBounds {
			e := geom.EnvelopeFromRegion(r)
			t.nodeBounds = append(t.nodeBounds, e.MinX, e.MinY, e.MaxX, e.MaxY)
		}
		if len(layerBounds) <= 1 {
			return
		}
		layerBounds = packNext(layerBounds, t.capacity)
	}
}

func packNext(items []geom.Region, capacity int) []geom.Region {
	var out []geom.Region
	for i := 0; i < len(items); i += capacity {
		end := i + capacity
		if end > len(items) {
			end = len(items)
		}
		r := geom.NullRegion()
		for _, item := range items[i:end] {
			r = r.ExpandToIncludeRegion(item)
		}
		out = append(out, r)
	}
	return out
}

func (t *HPRTree) boundsAt(node int) geom.Region {
	base := node * 4
	e := geom.Envelope{
		MinX: t.nodeBounds[base],
		MinY: t.nodeBounds[base+1],
		MaxX: t.nodeBounds[base+2],
		MaxY: t.nodeBounds[base+3],
	}
	return e.ToRegion()
}

func (t *HPRTree) Intersects(r geom.Region) bool {
	hit := false
	t.query(r, func(geom.Region) bool {
		hit = true
		return false
	})
	return hit
}

func (t *HPRTree) Contains(r geom.Region) bool {
	hit := false
	t.query(r, func(cand geom.Region) bool {
		if cand.Contains(r) {
			hit = true
			return false
		}
		return true
	})
	return hit
}

func (t *HPRTree) Query(r geom.Region) []geom.Region {
	var out []geom.Region
	t.query(r, func(cand geom.Region) bool {
		out = append(out, cand)
		return true
	})
	return out
}

// query traverses top-down (from the topmost layer to the leaf layer),
// skipping any node whose MBR is disjoint from r, and for the leaf layer
// visiting up to capacity items per block.
func (t *HPRTree) query(r geom.Region, visit func(geom.Region) bool) {
	if !t.built || len(t.leafRegions) == 0 {
		return
	}
	topLayer := len(t.layerStart) - 1
	t.queryLayer(topLayer, 0, r, visit)
}

func (t *HPRTree) queryLayer(layer, indexInLayer int, r geom.Region, visit func(geom.Region) bool) bool {
	node := t.layerStart[layer] + indexInLayer
	if !t.boundsAt(node).Intersects(r) {
		return true
	}
	if layer == 0 {
		start := indexInLayer * t.capacity
		end := start + t.capacity
		if end > len(t.leafRegions) {
			end = len(t.leafRegions)
		}
		for _, cand := range t.leafRegions[start:end] {
			if cand.Intersects(r) {
				if !visit(cand) {
					return false
				}
			}
		}
		return true
	}
	childStart := indexInLayer * t.capacity
	childCount := t.layerSize(layer - 1)
	for c := childStart; c < childStart+t.capacity && c < childCount; c++ {
		if !t.queryLayer(layer-1, c, r, visit) {
			return false
		}
	}
	return true
}

func (t *HPRTree) layerSize(layer int) int {
	if layer == len(t.layerStart)-1 {
		return (len(t.nodeBounds)/4 - t.layerStart[layer])
	}
	return t.layerStart[layer+1] - t.layerStart[layer]
}
