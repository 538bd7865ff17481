// Package hybridindex combines an outer RegionTree, which partitions the
// plane into boundary regions, with a terminal KDTree per boundary region
// for fine-grained point queries within it.
package hybridindex

import (
	"github.com/udisondev/geomatch/internal/geom"
	"github.com/udisondev/geomatch/internal/spatialindex"
)

// DefaultBoundarySize is the default side length of a freshly created
// boundary region, centred on the point that triggered its creation.
const DefaultBoundarySize = 1000.0

// HybridIndex dispatches point operations to a terminal KDTree keyed by
// boundary region. Every boundary region returned by the outer index is
// guaranteed to have a live terminal tree — the invariant this package
// exists to maintain.
type HybridIndex struct {
	outer        spatialindex.RegionTree
	terminals    map[geom.Region]*spatialindex.KDTree
	boundarySize float64
}

// New wraps outer as a hybrid index. boundarySize <= 0 selects
// DefaultBoundarySize.
func New(outer spatialindex.RegionTree, boundarySize float64) *HybridIndex {
	if boundarySize <= 0 {
		boundarySize = DefaultBoundarySize
	}
	return &HybridIndex{
		outer:        outer,
		terminals:    make(map[geom.Region]*spatialindex.KDTree),
		boundarySize: boundarySize,
	}
}

// Insert adds p. If an existing boundary region from the outer index
// contains p, it is delegated to that region's terminal tree; otherwise a
// fresh boundary region centred on p is created, seeded with p, and
// inserted into the outer index.
func (h *HybridIndex) Insert(p geom.Point) error {
	if boundary, ok := h.findBoundary(p); ok {
		return h.terminals[boundary].Insert(pointRegion(p))
	}

	half := h.boundarySize / 2
	boundary := geom.NewRegion(p.X-half, p.Y-half, h.boundarySize, h.boundarySize)
	boundary.Boundary = true
	if err := h.outer.Insert(boundary); err != nil {
		return err
	}
	terminal := spatialindex.NewKDTree(0)
	if err := terminal.Insert(pointRegion(p)); err != nil {
		return err
	}
	h.terminals[boundary] = terminal
	return nil
}

// findBoundary returns the boundary region (and its presence) from the
// outer index that contains p, if any.
func (h *HybridIndex) findBoundary(p geom.Point) (geom.Region, bool) {
	query := pointRegion(p)
	for _, cand := range h.outer.Query(query) {
		if cand.Boundary && cand.ContainsPoint(p) {
			if _, ok := h.terminals[cand]; ok {
				return cand, true
			}
		}
	}
	return geom.Region{}, false
}

func pointRegion(p geom.Point) geom.Region {
	return geom.NewRegion(p.X, p.Y, 0, 0)
}

// Contains reports whether p has been inserted.
func (h *HybridIndex) Contains(p geom.Point) bool {
	boundary, ok := h.findBoundary(p)
	if !ok {
		return false
	}
	return h.terminals[boundary].Intersects(pointRegion(p))
}

// NearestNeighbor returns the point nearest to query within query's
// containing boundary region (the region the outer index's partitioning
// assigned it to), and whether any boundary region covers query at all.
func (h *HybridIndex) NearestNeighbor(query geom.Point) (geom.Point, bool) {
	boundary, ok := h.findBoundary(query)
	if !ok {
		return geom.Point{}, false
	}
	return h.terminals[boundary].Nearest(query)
}

// Query returns every indexed point whose containing boundary region
// intersects r, restricted to points inside r.
func (h *HybridIndex) Query(r geom.Region) []geom.Point {
	var out []geom.Point
	for _, boundary := range h.outer.Query(r) {
		if !boundary.Boundary {
			continue
		}
		terminal, ok := h.terminals[boundary]
		if !ok {
			continue
		}
		for _, pr := range terminal.Query(r) {
			out = append(out, geom.NewPoint(pr.X, pr.Y))
		}
	}
	return out
}
