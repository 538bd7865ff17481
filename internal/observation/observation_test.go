package observation

import (
	"errors"
	"testing"
	"time"

	"github.com/udisondev/geomatch/internal/mmerrors"
)

func TestSequence_Validate_EmptyRejected(t *testing.T) {
	var s Sequence
	if err := s.Validate(); !errors.Is(err, mmerrors.ErrNoObservations) {
		t.Errorf("Validate() = %v, want ErrNoObservations", err)
	}
}

func TestSequence_Validate_NonMonotonicRejected(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := Sequence{Observations: []Observation{
		{Timestamp: base},
		{Timestamp: base.Add(-time.Second)},
	}}
	if err := s.Validate(); !errors.Is(err, mmerrors.ErrBadArgument) {
		t.Errorf("Validate() = %v, want ErrBadArgument", err)
	}
}

func TestSequence_Validate_MonotonicAccepted(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := Sequence{Observations: []Observation{
		{Timestamp: base},
		{Timestamp: base.Add(time.Second)},
		{Timestamp: base.Add(2 * time.Second)},
	}}
	if err := s.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestFromWKTPoints_BuildsSequence(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	seq, err := FromWKTPoints([]WKTPoint{
		{WKT: "POINT(0 0)", Timestamp: base},
		{WKT: "POINT(1 1)", Timestamp: base.Add(time.Second)},
	})
	if err != nil {
		t.Fatalf("FromWKTPoints() error = %v", err)
	}
	if len(seq.Observations) != 2 {
		t.Fatalf("FromWKTPoints() len = %d, want 2", len(seq.Observations))
	}
	pts := seq.Points()
	if pts[1].X != 1 || pts[1].Y != 1 {
		t.Errorf("FromWKTPoints() second point = %v, want (1,1)", pts[1])
	}
}

func TestFromWKTPoints_PropagatesParseError(t *testing.T) {
	_, err := FromWKTPoints([]WKTPoint{{WKT: "not wkt"}})
	if err == nil {
		t.Error("FromWKTPoints() with malformed WKT: want error, got nil")
	}
}
