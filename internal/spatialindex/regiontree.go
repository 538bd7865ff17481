// Package spatialindex provides the RegionTree family: RegionQuadTree,
// RTree, HPRTree, KDTree, SuccinctKDTree, and BPlusTree, all built on internal/geom's
// Region/Point types. Every index is single-threaded — callers needing
// concurrent access must serialise their own calls.
package spatialindex

import "github.com/udisondev/geomatch/internal/geom"

// RegionTree is the common contract every spatial index in this package
// satisfies.
type RegionTree interface {
	// IsEmpty reports whether the index holds no regions.
	IsEmpty() bool

	// Insert adds r to the index.
	Insert(r geom.Region) error

	// Delete removes the first region equal to r. Reports whether a match
	// was found and removed.
	Delete(r geom.Region) bool

	// Intersects reports whether any indexed region intersects r.
	Intersects(r geom.Region) bool

	// Contains reports whether any indexed region fully contains r.
	Contains(r geom.Region) bool

	// Query returns every indexed region that intersects r.
	Query(r geom.Region) []geom.Region
}
