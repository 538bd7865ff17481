package geom

// Region is an axis-aligned rectangle in origin+size form: (X, Y) is the
// lower-left corner, (Width, Height) the extent. A negative Width or Height
// denotes the null region (no area, intersects nothing).
//
// Region also carries two optional tags used by higher layers: Boundary,
// set by the hybrid index (internal/hybridindex) to mark a region as owning
// a terminal k-d tree, and NodeRef, a weak arena index into whichever
// spatial index created the region (0 means "unset"; indexes that use it
// document their own zero-value convention).
type Region struct {
	X, Y, Width, Height float64

	Boundary bool
	NodeRef  uint32
}

// NullRegion returns the canonical null region.
func NullRegion() Region {
	return Region{Width: -1, Height: -1}
}

// IsNull reports whether r is the null region.
func (r Region) IsNull() bool {
	return r.Width < 0 || r.Height < 0
}

// NewRegion constructs a region from an origin and extent. A negative width
// or height produces the null region.
func NewRegion(x, y, width, height float64) Region {
	return Region{X: x, Y: y, Width: width, Height: height}
}

// RegionFromPoints returns the minimum bounding region containing both
// points.
func RegionFromPoints(p, q Point) Region {
	minX, maxX := p.X, q.X
	if minX > maxX {
		minX, maxX = maxX, minX
	}
	minY, maxY := p.Y, q.Y
	if minY > maxY {
		minY, maxY = maxY, minY
	}
	return Region{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// MaxX returns the region's right edge.
func (r Region) MaxX() float64 { return r.X + r.Width }

// MaxY returns the region's top edge.
func (r Region) MaxY() float64 { return r.Y + r.Height }

// EuclideanArea returns width*height, or 0 for the null region.
func (r Region) EuclideanArea() float64 {
	if r.IsNull() {
		return 0
	}
	return r.Width * r.Height
}

// ExpandToIncludePoint returns the smallest region containing both r and p.
// Expanding a null region by a point yields a zero-area region at p;
// expanding further is idempotent if p is already contained.
func (r Region) ExpandToIncludePoint(p Point) Region {
	if r.IsNull() {
		return Region{X: p.X, Y: p.Y, Width: 0, Height: 0}
	}
	minX, maxX := r.X, r.MaxX()
	minY, maxY := r.Y, r.MaxY()
	if p.X < minX {
		minX = p.X
	}
	if p.X > maxX {
		maxX = p.X
	}
	if p.Y < minY {
		minY = p.Y
	}
	if p.Y > maxY {
		maxY = p.Y
	}
	return Region{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// ExpandToIncludeRegion returns the smallest region containing both r and o.
func (r Region) ExpandToIncludeRegion(o Region) Region {
	if o.IsNull() {
		return r
	}
	if r.IsNull() {
		return o
	}
	minX, maxX := min(r.X, o.X), max(r.MaxX(), o.MaxX())
	minY, maxY := min(r.Y, o.Y), max(r.MaxY(), o.MaxY())
	return Region{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// ExpandBy returns r grown by dx on each horizontal side and dy on each
// vertical side (so total width grows by 2*dx).
func (r Region) ExpandBy(dx, dy float64) Region {
	if r.IsNull() {
		return r
	}
	return Region{X: r.X - dx, Y: r.Y - dy, Width: r.Width + 2*dx, Height: r.Height + 2*dy}
}

// Intersects reports whether r and o share any area or boundary point.
func (r Region) Intersects(o Region) bool {
	if r.IsNull() || o.IsNull() {
		return false
	}
	return r.X <= o.MaxX() && r.MaxX() >= o.X && r.Y <= o.MaxY() && r.MaxY() >= o.Y
}

// Contains reports whether o lies entirely within r.
func (r Region) Contains(o Region) bool {
	if r.IsNull() || o.IsNull() {
		return false
	}
	return o.X >= r.X && o.MaxX() <= r.MaxX() && o.Y >= r.Y && o.MaxY() <= r.MaxY()
}

// ContainsPoint reports whether p lies within r (inclusive of the boundary).
func (r Region) ContainsPoint(p Point) bool {
	if r.IsNull() {
		return false
	}
	return p.X >= r.X && p.X <= r.MaxX() && p.Y >= r.Y && p.Y <= r.MaxY()
}

// Intersection returns the overlapping region of r and o, or the null
// region if they do not intersect.
func (r Region) Intersection(o Region) Region {
	if !r.Intersects(o) {
		return NullRegion()
	}
	minX, maxX := max(r.X, o.X), min(r.MaxX(), o.MaxX())
	minY, maxY := max(r.Y, o.Y), min(r.MaxY(), o.MaxY())
	return Region{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// NonIntersectingArea returns the area of r not covered by its intersection
// with o — the part of r's area "wasted" by overlap, used by split
// heuristics that minimise enlargement.
func (r Region) NonIntersectingArea(o Region) float64 {
	return r.EuclideanArea() - r.Intersection(o).EuclideanArea()
}

// EnlargementToInclude returns how much r's area would grow to cover o, used
// by RTree.chooseLeaf to pick the subtree needing least enlargement.
func (r Region) EnlargementToInclude(o Region) float64 {
	return r.ExpandToIncludeRegion(o).EuclideanArea() - r.EuclideanArea()
}

// Compare gives a total lexicographic order on Region (by X, Y, Width,
// Height in turn), used for deterministic tie-breaks.
func (r Region) Compare(o Region) int {
	switch {
	case r.X != o.X:
		return cmpFloat(r.X, o.X)
	case r.Y != o.Y:
		return cmpFloat(r.Y, o.Y)
	case r.Width != o.Width:
		return cmpFloat(r.Width, o.Width)
	default:
		return cmpFloat(r.Height, o.Height)
	}
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
