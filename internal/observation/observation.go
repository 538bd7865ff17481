// Package observation holds the timestamped GPS fix type consumed by the
// map-matching decoders, plus the validation and WKT-backed loading used by
// the CLI and tests.
package observation

import (
	"fmt"
	"time"

	"github.com/udisondev/geomatch/internal/geom"
	"github.com/udisondev/geomatch/internal/mmerrors"
	"github.com/udisondev/geomatch/internal/wkt"
)

// Observation is a single noisy location fix.
type Observation struct {
	Point     geom.Point
	Timestamp time.Time
}

// Sequence is an ordered run of observations from one trip.
type Sequence struct {
	Observations []Observation
}

// Validate checks that the sequence is non-empty and that its timestamps
// never decrease (equal timestamps are accepted); a map match over an
// empty or time-reversed sequence is undefined and rejected up front
// rather than producing a nonsense route.
func (s Sequence) Validate() error {
	if len(s.Observations) == 0 {
		return mmerrors.ErrNoObservations
	}
	for i := 1; i < len(s.Observations); i++ {
		prev, cur := s.Observations[i-1], s.Observations[i]
		if cur.Timestamp.Before(prev.Timestamp) {
			return fmt.Errorf("%w: observation %d at %s comes before observation %d at %s",
				mmerrors.ErrBadArgument, i, cur.Timestamp, i-1, prev.Timestamp)
		}
	}
	return nil
}

// Points returns the sequence's geometry only, in order.
func (s Sequence) Points() []geom.Point {
	pts := make([]geom.Point, len(s.Observations))
	for i, o := range s.Observations {
		pts[i] = o.Point
	}
	return pts
}

// WKTPoint pairs a WKT POINT literal with its fix time, the shape FromWKTPoints
// consumes.
type WKTPoint struct {
	WKT       string
	Timestamp time.Time
}

// FromWKTPoints builds a Sequence from WKT POINT literals, in the order
// given. Returns an error from the first literal that fails to parse.
func FromWKTPoints(pts []WKTPoint) (Sequence, error) {
	obs := make([]Observation, len(pts))
	for i, p := range pts {
		pt, err := wkt.ParsePoint(p.WKT)
		if err != nil {
			return Sequence{}, fmt.Errorf("observation %d: %w", i, err)
		}
		obs[i] = Observation{Point: pt, Timestamp: p.Timestamp}
	}
	return Sequence{Observations: obs}, nil
}
