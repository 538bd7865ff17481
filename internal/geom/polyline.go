package geom

// Polyline is an ordered, owning-by-value sequence of points. Construction
// removes consecutive duplicates so every Polyline is duplicate-free at the
// joint level.
type Polyline struct {
	points []Point
}

// NewPolyline builds a Polyline from pts, removing consecutive duplicates in
// a single O(n) pass.
func NewPolyline(pts []Point) Polyline {
	return Polyline{points: removeConsecutiveDuplicates(pts)}
}

func removeConsecutiveDuplicates(pts []Point) []Point {
	if len(pts) == 0 {
		return nil
	}
	out := make([]Point, 0, len(pts))
	out = append(out, pts[0])
	for i := 1; i < len(pts); i++ {
		if !pts[i].Equals(out[len(out)-1]) {
			out = append(out, pts[i])
		}
	}
	return out
}

// Points returns the polyline's points. The returned slice must not be
// mutated by the caller.
func (pl Polyline) Points() []Point {
	return pl.points
}

// Len returns the number of points.
func (pl Polyline) Len() int {
	return len(pl.points)
}

// IsEmpty reports whether the polyline has no points.
func (pl Polyline) IsEmpty() bool {
	return len(pl.points) == 0
}

// Start returns the first point. Panics if the polyline is empty.
func (pl Polyline) Start() Point {
	return pl.points[0]
}

// End returns the last point. Panics if the polyline is empty.
func (pl Polyline) End() Point {
	return pl.points[len(pl.points)-1]
}

// IsClosed reports whether start and end coincide (for a polyline with more
// than one point).
func (pl Polyline) IsClosed() bool {
	if len(pl.points) < 2 {
		return false
	}
	return pl.Start().Equals(pl.End())
}

// Envelope returns the axis-aligned bounding region of the polyline.
func (pl Polyline) Envelope() Region {
	r := NullRegion()
	for _, p := range pl.points {
		r = r.ExpandToIncludePoint(p)
	}
	return r
}

// Reverse returns a new Polyline with points in reverse order. Out-of-place:
// pl is left unmodified.
func (pl Polyline) Reverse() Polyline {
	n := len(pl.points)
	out := make([]Point, n)
	for i, p := range pl.points {
		out[n-1-i] = p
	}
	return Polyline{points: out}
}

// Append returns a new Polyline with other's points appended after pl's. If
// pl's end point equals other's start point, the duplicate joint is
// coalesced into a single shared vertex.
func (pl Polyline) Append(other Polyline) Polyline {
	if pl.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return pl
	}
	out := make([]Point, 0, len(pl.points)+len(other.points))
	out = append(out, pl.points...)
	rest := other.points
	if pl.End().Equals(other.Start()) {
		rest = rest[1:]
	}
	out = append(out, rest...)
	return Polyline{points: out}
}

// Prepend returns a new Polyline with other's points placed before pl's,
// coalescing a shared joint the same way Append does.
func (pl Polyline) Prepend(other Polyline) Polyline {
	return other.Append(pl)
}

// Length returns the polyline's total Euclidean length (the sum of segment
// lengths). Callers needing geodetic length should sum
// Calculator.Distance over consecutive points instead.
func (pl Polyline) Length() float64 {
	var total float64
	for i := 1; i < len(pl.points); i++ {
		total += pl.points[i-1].DistanceEuclidean(pl.points[i])
	}
	return total
}

// CutAt splits pl into two polylines at splitPoint, which lies on segment
// segmentIndex, inserting splitPoint as a shared vertex between both
// halves. Finding the split point is left to the caller. An out-of-range
// segmentIndex returns pl unchanged and an empty second half.
func (pl Polyline) CutAt(segmentIndex int, splitPoint Point) (before, after Polyline) {
	if segmentIndex < 0 || segmentIndex >= len(pl.points)-1 {
		return pl, Polyline{}
	}
	beforePts := make([]Point, 0, segmentIndex+2)
	beforePts = append(beforePts, pl.points[:segmentIndex+1]...)
	beforePts = append(beforePts, splitPoint)

	afterPts := make([]Point, 0, len(pl.points)-segmentIndex)
	afterPts = append(afterPts, splitPoint)
	afterPts = append(afterPts, pl.points[segmentIndex+1:]...)

	return NewPolyline(beforePts), NewPolyline(afterPts)
}

// CutOnNode splits pl at its nearest existing vertex to p (by Euclidean
// distance), returning the two halves without inserting a new point.
func (pl Polyline) CutOnNode(p Point) (before, after Polyline) {
	if len(pl.points) == 0 {
		return pl, pl
	}
	bestIdx := 0
	bestDist := pl.points[0].DistanceSquaredEuclidean(p)
	for i := 1; i < len(pl.points); i++ {
		d := pl.points[i].DistanceSquaredEuclidean(p)
		if d < bestDist {
			bestDist = d
			bestIdx = i
		}
	}
	return NewPolyline(pl.points[:bestIdx+1]), NewPolyline(pl.points[bestIdx:])
}

// Segments yields the (a, b) endpoint pairs of each consecutive segment, in
// order, stopping early if yield returns false.
func (pl Polyline) Segments(yield func(index int, a, b Point) bool) {
	for i := 1; i < len(pl.points); i++ {
		if !yield(i-1, pl.points[i-1], pl.points[i]) {
			return
		}
	}
}
