package topology

import (
	"math"

	"github.com/udisondev/geomatch/internal/geom"
)

// EarthRadiusMeters is the mean radius used for the spherical approximation
// to the WGS-84 ellipsoid. Distances and bearings computed against it are
// accurate to within metres over the distances map matching operates on
// (single road segments), well inside the default Geoidal precision.
const EarthRadiusMeters = 6371000.0

// DefaultGeoidalPrecision is the default convergence bound for the iterative
// on-track/intersection solvers, and the default Point equality tolerance.
const DefaultGeoidalPrecision = 0.1 // metres

// maxOnTrackIterations bounds the on-track closest point iteration; the
// ping-pong guard normally converges in well under this.
const maxOnTrackIterations = 50

// Geoidal is the WGS-84 topology calculator: points are (lon, lat) degrees
// carried in geom.Point as (X, Y). Distance and bearing use the orthodromic
// (great-circle) formulas; onTrackClosestPoint and Intersection use the
// iterative cross-track/along-track scheme from Ed Williams' Aviation
// Formulary, which the spec's algorithm is drawn from.
type Geoidal struct {
	precision float64
}

// NewGeoidal builds a Geoidal calculator with the given precision in
// metres. A precision of 0 selects DefaultGeoidalPrecision.
func NewGeoidal(precision float64) *Geoidal {
	if precision <= 0 {
		precision = DefaultGeoidalPrecision
	}
	return &Geoidal{precision: precision}
}

func (g *Geoidal) Precision() float64 {
	if g.precision <= 0 {
		return DefaultGeoidalPrecision
	}
	return g.precision
}

func toRad(deg float64) float64 { return deg * math.Pi / 180 }
func toDeg(rad float64) float64 { return rad * 180 / math.Pi }

// Distance returns the orthodromic (great-circle) distance between p and q,
// in metres, via the haversine formula.
func (g *Geoidal) Distance(p, q geom.Point) float64 {
	lat1, lat2 := toRad(p.Y), toRad(q.Y)
	dLat := toRad(q.Y - p.Y)
	dLon := toRad(q.X - p.X)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusMeters * c
}

func (g *Geoidal) DistanceToPolyline(p geom.Point, pl geom.Polyline) (float64, int) {
	best := math.Inf(1)
	bestIdx := -1
	pl.Segments(func(i int, a, b geom.Point) bool {
		onTrack := g.OnTrackClosestPoint(a, b, p)
		if d := g.Distance(onTrack, p); d < best {
			best = d
			bestIdx = i
		}
		return true
	})
	return best, bestIdx
}

// InitialBearing returns the initial azimuth from p to q, degrees clockwise
// from true north, normalised to [0, 360).
func (g *Geoidal) InitialBearing(p, q geom.Point) float64 {
	lat1, lat2 := toRad(p.Y), toRad(q.Y)
	dLon := toRad(q.X - p.X)
	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)
	deg := toDeg(math.Atan2(y, x))
	if deg < 0 {
		deg += 360
	}
	return deg
}

// Destination solves the direct geodesic problem: the point reached by
// travelling distance d metres along bearingDeg from p.
func (g *Geoidal) Destination(p geom.Point, bearingDeg, d float64) geom.Point {
	lat1 := toRad(p.Y)
	lon1 := toRad(p.X)
	brng := toRad(bearingDeg)
	delta := d / EarthRadiusMeters

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(delta) + math.Cos(lat1)*math.Sin(delta)*math.Cos(brng))
	lon2 := lon1 + math.Atan2(
		math.Sin(brng)*math.Sin(delta)*math.Cos(lat1),
		math.Cos(delta)-math.Sin(lat1)*math.Sin(lat2),
	)
	return geom.NewPoint(normalizeLon(toDeg(lon2)), toDeg(lat2))
}

func normalizeLon(deg float64) float64 {
	for deg > 180 {
		deg -= 360
	}
	for deg < -180 {
		deg += 360
	}
	return deg
}

func bearingDelta(a, b float64) float64 {
	d := math.Mod(b-a+540, 360) - 180
	return d
}

// OnTrackClosestPoint iterates the cross-track/along-track scheme from a
// current point that starts at A: compute the bearing from it to P and the
// track bearing at it, derive cross-track distance xtd, then along-track
// distance atd (the first iteration's formula differs from subsequent
// ones), step the current point along the track by atd, and repeat until
// |atd| falls below the precision.
// A ping-pong guard halves the step whenever the same atd value recurs.
// Finally, if the bearing from an endpoint to the computed point differs
// from the bearing to the other endpoint by more than 90°, the result is
// snapped to that endpoint (the projection fell off the segment).
func (g *Geoidal) OnTrackClosestPoint(a, b, p geom.Point) geom.Point {
	if a.Equals(b) {
		return a
	}
	dAB := g.Distance(a, b)
	if dAB == 0 {
		return a
	}
	thetaAB := g.InitialBearing(a, b)

	cur := a
	var prevATD float64
	havePrev := false
	step := 1.0

	for i := 0; i < maxOnTrackIterations; i++ {
		dAP := g.Distance(cur, p)
		if dAP == 0 {
			break
		}
		thetaAP := g.InitialBearing(cur, p)
		thetaTrack := thetaAB
		if !cur.Equals(a) {
			thetaTrack = math.Mod(g.InitialBearing(cur, a)+180, 360)
		}

		R := EarthRadiusMeters
		dApR := dAP / R
		delta := toRad(bearingDelta(thetaTrack, thetaAP))
		xtd := math.Asin(clamp(math.Sin(dApR)*math.Sin(delta), -1, 1)) * R

		var atd float64
		if i == 0 {
			num := math.Sin((math.Pi/2 + delta) / 2)
			den := math.Sin((math.Pi/2 - delta) / 2)
			atd = 2 * R * math.Atan(safeDiv(num, den)*math.Tan((dApR-xtd/R)/2))
		} else {
			atd = R * math.Atan(math.Cos(delta)*math.Tan(dApR))
		}

		if havePrev && math.Abs(atd-prevATD) < 1e-9 {
			step *= 0.5
		}
		prevATD = atd
		havePrev = true

		if math.Abs(atd) < g.Precision() {
			break
		}

		cur = g.Destination(cur, thetaTrack, atd*step)
	}

	// Clamp to the segment if the projection overshoots either endpoint.
	if bearingDiffExceeds90(g.InitialBearing(a, cur), thetaAB) {
		return a
	}
	thetaBA := g.InitialBearing(b, a)
	if bearingDiffExceeds90(g.InitialBearing(b, cur), thetaBA) {
		return b
	}
	return cur
}

func bearingDiffExceeds90(brg, ref float64) bool {
	return math.Abs(bearingDelta(ref, brg)) > 90
}

func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// AlongTrackDistance returns the distance from a to the on-track projection
// of p, along the great circle through a and b.
func (g *Geoidal) AlongTrackDistance(a, b, p geom.Point) float64 {
	onTrack := g.OnTrackClosestPoint(a, b, p)
	return g.Distance(a, onTrack)
}

// Intersection finds the first pair of crossing segments between poly1 and
// poly2 via pairwise great-circle intersection, flipping the tentative
// azimuth when the candidate point is off-track to avoid the antipodal
// solution.
func (g *Geoidal) Intersection(poly1, poly2 geom.Polyline) (geom.Point, bool) {
	var found geom.Point
	ok := false
	poly1.Segments(func(_ int, a1, b1 geom.Point) bool {
		poly2.Segments(func(_ int, a2, b2 geom.Point) bool {
			if pt, hit := g.segmentIntersection(a1, b1, a2, b2); hit {
				found, ok = pt, true
				return false
			}
			return true
		})
		return !ok
	})
	return found, ok
}

func (g *Geoidal) segmentIntersection(p1, p2, p3, p4 geom.Point) (geom.Point, bool) {
	// Great-circle normal vectors (cross product of ECEF-like unit vectors)
	// give the two antipodal intersection points of the circles through
	// each segment; pick whichever lies within both segments' bearing span.
	n1 := crossUnit(p1, p2)
	n2 := crossUnit(p3, p4)
	ix, iy, iz := cross(n1, n2)
	norm := math.Sqrt(ix*ix + iy*iy + iz*iz)
	if norm == 0 {
		return geom.Point{}, false
	}
	ix, iy, iz = ix/norm, iy/norm, iz/norm

	for _, sign := range []float64{1, -1} {
		cand := geom.NewPoint(
			toDeg(math.Atan2(sign*iy, sign*ix)),
			toDeg(math.Asin(clamp(sign*iz, -1, 1))),
		)
		if onSegment(g, p1, p2, cand) && onSegment(g, p3, p4, cand) {
			return cand, true
		}
	}
	return geom.Point{}, false
}

func crossUnit(p, q geom.Point) [3]float64 {
	a := toECEF(p)
	b := toECEF(q)
	x, y, z := cross(a, b)
	return [3]float64{x, y, z}
}

func toECEF(p geom.Point) [3]float64 {
	lat, lon := toRad(p.Y), toRad(p.X)
	return [3]float64{
		math.Cos(lat) * math.Cos(lon),
		math.Cos(lat) * math.Sin(lon),
		math.Sin(lat),
	}
}

func cross(a, b [3]float64) (x, y, z float64) {
	return a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0]
}

func onSegment(g *Geoidal, a, b, p geom.Point) bool {
	dAB := g.Distance(a, b)
	if dAB < g.Precision() {
		return g.Distance(a, p) < g.Precision()
	}
	atd := g.AlongTrackDistance(a, b, p)
	xtdBound := g.Precision()
	on := g.OnTrackClosestPoint(a, b, p)
	return atd >= -xtdBound && atd <= dAB+xtdBound && g.Distance(on, p) < 1.0
}

func (g *Geoidal) Compare(p, q geom.Point) int {
	return p.Compare(q)
}
