package topology

import (
	"math"

	"github.com/udisondev/geomatch/internal/geom"
)

// DefaultEuclideanPrecision is the default equality/early-exit tolerance for
// Euclidean, in the same unit as coordinates (1 micro-unit).
const DefaultEuclideanPrecision = 1e-6

// Euclidean is the planar topology calculator: closed-form projection onto
// segments, no iteration. Zero value uses DefaultEuclideanPrecision.
type Euclidean struct {
	precision float64
}

// NewEuclidean builds a Euclidean calculator with the given precision. A
// precision of 0 selects DefaultEuclideanPrecision.
func NewEuclidean(precision float64) Euclidean {
	if precision <= 0 {
		precision = DefaultEuclideanPrecision
	}
	return Euclidean{precision: precision}
}

func (e Euclidean) Precision() float64 {
	if e.precision <= 0 {
		return DefaultEuclideanPrecision
	}
	return e.precision
}

func (e Euclidean) Distance(p, q geom.Point) float64 {
	return p.DistanceEuclidean(q)
}

func (e Euclidean) DistanceToPolyline(p geom.Point, pl geom.Polyline) (float64, int) {
	best := math.Inf(1)
	bestIdx := -1
	pl.Segments(func(i int, a, b geom.Point) bool {
		onTrack := e.OnTrackClosestPoint(a, b, p)
		if d := onTrack.DistanceEuclidean(p); d < best {
			best = d
			bestIdx = i
		}
		return true
	})
	return best, bestIdx
}

// InitialBearing returns atan2(dx, dy) in degrees, normalised to [0, 360).
// Note the argument order: bearing is measured clockwise from north (+y),
// so dx is the sine term and dy the cosine term.
func (e Euclidean) InitialBearing(p, q geom.Point) float64 {
	dx := q.X - p.X
	dy := q.Y - p.Y
	deg := math.Atan2(dx, dy) * 180 / math.Pi
	if deg < 0 {
		deg += 360
	}
	return deg
}

func (e Euclidean) Destination(p geom.Point, bearingDeg, d float64) geom.Point {
	rad := bearingDeg * math.Pi / 180
	return geom.NewPoint(p.X+d*math.Sin(rad), p.Y+d*math.Cos(rad))
}

// OnTrackClosestPoint projects p onto segment a-b using the parametric form
// r = AC·AB / |AB|^2, clamped to [0, 1] when the projection falls outside
// the segment.
func (e Euclidean) OnTrackClosestPoint(a, b, p geom.Point) geom.Point {
	abx, aby := b.X-a.X, b.Y-a.Y
	l2 := abx*abx + aby*aby
	if l2 == 0 {
		return a
	}
	acx, acy := p.X-a.X, p.Y-a.Y
	r := (acx*abx + acy*aby) / l2
	if r < 0 {
		r = 0
	} else if r > 1 {
		r = 1
	}
	return geom.NewPoint(a.X+r*abx, a.Y+r*aby)
}

// AlongTrackDistance returns the Euclidean distance from a to the
// perpendicular projection of p on segment a-b (clamped to the segment).
func (e Euclidean) AlongTrackDistance(a, b, p geom.Point) float64 {
	onTrack := e.OnTrackClosestPoint(a, b, p)
	return a.DistanceEuclidean(onTrack)
}

// signedPerpendicularDistance implements the spec's closed-form
// s = ((Ay−Cy)(Bx−Ax)−(Ax−Cx)(By−Ay)) / L^2, distance = |s|*L.
func signedPerpendicularDistance(a, b, c geom.Point) float64 {
	l2 := a.DistanceSquaredEuclidean(b)
	if l2 == 0 {
		return a.DistanceEuclidean(c)
	}
	l := math.Sqrt(l2)
	s := ((a.Y-c.Y)*(b.X-a.X) - (a.X-c.X)*(b.Y-a.Y)) / l2
	return math.Abs(s) * l
}

// Intersection finds the first pair of crossing segments between poly1 and
// poly2 and returns their intersection point.
func (e Euclidean) Intersection(poly1, poly2 geom.Polyline) (geom.Point, bool) {
	var found geom.Point
	ok := false
	poly1.Segments(func(_ int, a1, b1 geom.Point) bool {
		poly2.Segments(func(_ int, a2, b2 geom.Point) bool {
			if pt, hit := segmentIntersection(a1, b1, a2, b2); hit {
				found, ok = pt, true
				return false
			}
			return true
		})
		return !ok
	})
	return found, ok
}

func segmentIntersection(p1, p2, p3, p4 geom.Point) (geom.Point, bool) {
	d1x, d1y := p2.X-p1.X, p2.Y-p1.Y
	d2x, d2y := p4.X-p3.X, p4.Y-p3.Y
	denom := d1x*d2y - d1y*d2x
	if denom == 0 {
		return geom.Point{}, false
	}
	dx, dy := p3.X-p1.X, p3.Y-p1.Y
	t := (dx*d2y - dy*d2x) / denom
	u := (dx*d1y - dy*d1x) / denom
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return geom.Point{}, false
	}
	return geom.NewPoint(p1.X+t*d1x, p1.Y+t*d1y), true
}

func (e Euclidean) Compare(p, q geom.Point) int {
	return p.Compare(q)
}
