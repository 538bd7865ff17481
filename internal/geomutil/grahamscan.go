// Package geomutil holds general-purpose geometric algorithms shared
// across the map-matching pipeline: Graham-scan convex hull, sweep-line
// segment intersection, quick-select, and a Hilbert-curve encoder.
package geomutil

import (
	"math"
	"sort"

	"github.com/udisondev/geomatch/internal/geom"
)

// GrahamScan computes the convex hull of points, using the lowest-Y
// (then lowest-X) point as pivot, sorting the rest by polar angle from the
// pivot (ties broken by farther distance first), and scanning with a
// robust orientation predicate that falls back to exact arithmetic only
// when the fast floating-point estimate is too close to call.
func GrahamScan(points []geom.Point) []geom.Point {
	if len(points) < 3 {
		out := make([]geom.Point, len(points))
		copy(out, points)
		return out
	}

	pivotIdx := 0
	for i, p := range points {
		if p.Y < points[pivotIdx].Y || (p.Y == points[pivotIdx].Y && p.X < points[pivotIdx].X) {
			pivotIdx = i
		}
	}
	pivot := points[pivotIdx]

	rest := make([]geom.Point, 0, len(points)-1)
	for i, p := range points {
		if i != pivotIdx {
			rest = append(rest, p)
		}
	}
	sort.Slice(rest, func(i, j int) bool {
		oi := orientation(pivot, rest[i], rest[j])
		if oi == 0 {
			return pivot.DistanceSquaredEuclidean(rest[i]) > pivot.DistanceSquaredEuclidean(rest[j])
		}
		return oi > 0 // counter-clockwise from pivot
	})

	hull := []geom.Point{pivot, rest[0]}
	for i := 1; i < len(rest); i++ {
		for len(hull) >= 2 && orientation(hull[len(hull)-2], hull[len(hull)-1], rest[i]) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, rest[i])
	}
	return hull
}

// orientationEpsilon bounds the fast floating-point filter: estimates
// whose magnitude falls within it fall back to the exact computation.
const orientationEpsilon = 1e-9

// orientation returns > 0 if a->b->c turns counter-clockwise, < 0 if
// clockwise, 0 if collinear. Uses a fast double-precision estimate first;
// when the estimate's error bound overlaps zero, falls back to compensated
// (higher-precision) summation, in the spirit of Shewchuk's robust
// predicates without pulling in an exact-arithmetic big.Float dependency.
func orientation(a, b, c geom.Point) float64 {
	det := (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
	if math.Abs(det) > orientationEpsilon {
		return sign(det)
	}
	return sign(exactOrientation(a, b, c))
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// exactOrientation recomputes the determinant via Kahan summation to
// recover precision lost to catastrophic cancellation in the fast path.
func exactOrientation(a, b, c geom.Point) float64 {
	terms := []float64{
		(b.X - a.X) * (c.Y - a.Y),
		-(b.Y - a.Y) * (c.X - a.X),
	}
	sum, comp := 0.0, 0.0
	for _, t := range terms {
		y := t - comp
		tSum := sum + y
		comp = (tSum - sum) - y
		sum = tSum
	}
	return sum
}
