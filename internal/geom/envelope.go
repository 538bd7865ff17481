package geom

import "math"

// Envelope is a 2-D rectangle stored as min/max per axis, distinct from
// Region (origin+size). HPRTree uses Envelope for its flat nodeBounds
// storage: four consecutive float64s per node, laid out MinX, MinY, MaxX,
// MaxY.
type Envelope struct {
	MinX, MinY, MaxX, MaxY float64
}

// NullEnvelope returns the sentinel empty envelope (all infinities, oriented
// so that ExpandToInclude on it behaves like starting from nothing).
func NullEnvelope() Envelope {
	return Envelope{
		MinX: math.Inf(1), MinY: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
	}
}

// IsNull reports whether e is the null envelope.
func (e Envelope) IsNull() bool {
	return e.MinX > e.MaxX || e.MinY > e.MaxY
}

// EnvelopeFromRegion converts a Region to its Envelope form.
func EnvelopeFromRegion(r Region) Envelope {
	if r.IsNull() {
		return NullEnvelope()
	}
	return Envelope{MinX: r.X, MinY: r.Y, MaxX: r.MaxX(), MaxY: r.MaxY()}
}

// ToRegion converts e back to origin+size Region form.
func (e Envelope) ToRegion() Region {
	if e.IsNull() {
		return NullRegion()
	}
	return Region{X: e.MinX, Y: e.MinY, Width: e.MaxX - e.MinX, Height: e.MaxY - e.MinY}
}

// ExpandToInclude returns the smallest envelope containing both e and o.
func (e Envelope) ExpandToInclude(o Envelope) Envelope {
	if o.IsNull() {
		return e
	}
	if e.IsNull() {
		return o
	}
	return Envelope{
		MinX: min(e.MinX, o.MinX), MinY: min(e.MinY, o.MinY),
		MaxX: max(e.MaxX, o.MaxX), MaxY: max(e.MaxY, o.MaxY),
	}
}

// Intersects reports whether e and o overlap.
func (e Envelope) Intersects(o Envelope) bool {
	if e.IsNull() || o.IsNull() {
		return false
	}
	return e.MinX <= o.MaxX && e.MaxX >= o.MinX && e.MinY <= o.MaxY && e.MaxY >= o.MinY
}

// Midpoint returns the envelope's centre point, used by the HPR-tree to
// compute each item's Hilbert sort key.
func (e Envelope) Midpoint() Point {
	return Point{X: (e.MinX + e.MaxX) / 2, Y: (e.MinY + e.MaxY) / 2}
}
