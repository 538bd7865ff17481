package geom

import "testing"

func TestEnvelope_FromRegionRoundTrip(t *testing.T) {
	r := NewRegion(1, 2, 3, 4)
	e := EnvelopeFromRegion(r)
	got := e.ToRegion()
	if got != r {
		t.Errorf("round-trip = %+v, want %+v", got, r)
	}
}

func TestEnvelope_ExpandToInclude(t *testing.T) {
	a := EnvelopeFromRegion(NewRegion(0, 0, 10, 10))
	b := EnvelopeFromRegion(NewRegion(5, -5, 10, 10))
	got := a.ExpandToInclude(b)
	want := Envelope{MinX: 0, MinY: -5, MaxX: 15, MaxY: 10}
	if got != want {
		t.Errorf("ExpandToInclude() = %+v, want %+v", got, want)
	}
}

func TestEnvelope_Intersects(t *testing.T) {
	a := EnvelopeFromRegion(NewRegion(0, 0, 10, 10))
	b := EnvelopeFromRegion(NewRegion(9, 9, 10, 10))
	c := EnvelopeFromRegion(NewRegion(20, 20, 1, 1))
	if !a.Intersects(b) {
		t.Errorf("expected overlapping envelopes to intersect")
	}
	if a.Intersects(c) {
		t.Errorf("expected disjoint envelopes not to intersect")
	}
}

func TestEnvelope_Midpoint(t *testing.T) {
	e := EnvelopeFromRegion(NewRegion(0, 0, 10, 10))
	got := e.Midpoint()
	want := NewPoint(5, 5)
	if got != want {
		t.Errorf("Midpoint() = %+v, want %+v", got, want)
	}
}

func TestEnvelope_NullIsNull(t *testing.T) {
	if !NullEnvelope().IsNull() {
		t.Errorf("NullEnvelope() should report IsNull")
	}
	if EnvelopeFromRegion(NewRegion(0, 0, 1, 1)).IsNull() {
		t.Errorf("non-null envelope reported IsNull")
	}
}
