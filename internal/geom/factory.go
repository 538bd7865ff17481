package geom

// Calculator is the subset of the topology calculator capability set that
// the geometry kernel itself depends on. internal/topology defines the full
// interface; this local copy avoids an import cycle (topology imports geom
// for Point/Polyline, so geom cannot import topology back).
type Calculator interface {
	Distance(p, q Point) float64
}

// GeometryFactory produces Points and Polylines bound to a single topology
// calculator. There is no package-level singleton factory — every caller
// constructs and threads its own, per spec's removal of the source's global
// GeometryFactory (see DESIGN.md Open Questions).
type GeometryFactory struct {
	calc Calculator
}

// NewGeometryFactory builds a factory around calc.
func NewGeometryFactory(calc Calculator) *GeometryFactory {
	return &GeometryFactory{calc: calc}
}

// Calculator returns the factory's bound topology calculator.
func (f *GeometryFactory) Calculator() Calculator {
	return f.calc
}

// Point constructs a Point. The factory does no validation beyond what
// Point itself guarantees (finite doubles are the caller's responsibility).
func (f *GeometryFactory) Point(x, y float64) Point {
	return NewPoint(x, y)
}

// Polyline constructs a Polyline, removing consecutive duplicates.
func (f *GeometryFactory) Polyline(pts []Point) Polyline {
	return NewPolyline(pts)
}

// Distance returns the factory's calculator's distance between p and q.
func (f *GeometryFactory) Distance(p, q Point) float64 {
	return f.calc.Distance(p, q)
}
