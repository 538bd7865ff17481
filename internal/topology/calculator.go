// Package topology supplies the distance, bearing, and on-track-projection
// primitives that the rest of geomatch builds on: spatial index ordering,
// HMM emission probabilities, the path connector's edge costs, and the
// polyline simplifier's perpendicular-distance test all go through a single
// Calculator capability set with Euclidean and Geoidal (WGS-84) variants.
package topology

import "github.com/udisondev/geomatch/internal/geom"

// Calculator is the full topology capability set. It is a superset of
// geom.Calculator (which only needs Distance) so that both Euclidean and
// Geoidal values satisfy geom.Calculator structurally.
type Calculator interface {
	// Distance returns the distance between two points, in the
	// implementation's native unit (metres for Geoidal).
	Distance(p, q geom.Point) float64

	// DistanceToPolyline returns the minimum distance from p to any point
	// on pl, and the index of the segment achieving it.
	DistanceToPolyline(p geom.Point, pl geom.Polyline) (dist float64, segmentIndex int)

	// InitialBearing returns the initial bearing from p to q, in degrees,
	// normalised to [0, 360).
	InitialBearing(p, q geom.Point) float64

	// Destination returns the point reached by travelling distance d along
	// bearing (degrees) from p.
	Destination(p geom.Point, bearingDeg, d float64) geom.Point

	// OnTrackClosestPoint returns the point on segment a-b nearest to p.
	OnTrackClosestPoint(a, b, p geom.Point) geom.Point

	// AlongTrackDistance returns the distance from a to the projection of p
	// onto segment a-b, measured along the segment. Non-negative and at
	// most Distance(a, b).
	AlongTrackDistance(a, b, p geom.Point) float64

	// Intersection returns the intersection point of polylines poly1 and
	// poly2, if one exists.
	Intersection(poly1, poly2 geom.Polyline) (geom.Point, bool)

	// Compare imposes a total order over points, consistent with
	// geom.Point.Compare for Euclidean and with great-circle ordering for
	// Geoidal.
	Compare(p, q geom.Point) int

	// Precision returns the implementation's tolerance: the default
	// equality precision and nearest-neighbour early-exit bound.
	Precision() float64
}

var (
	_ Calculator     = Euclidean{}
	_ Calculator     = (*Geoidal)(nil)
	_ geom.Calculator = Euclidean{}
	_ geom.Calculator = (*Geoidal)(nil)
)
