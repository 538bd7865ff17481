package kalman

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/udisondev/geomatch/internal/geom"
	"github.com/udisondev/geomatch/internal/mmerrors"
	"github.com/udisondev/geomatch/internal/observation"
)

func TestConstantVelocityFilter_Smooth_PreservesLength(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	obs := []observation.Observation{
		{Point: geom.NewPoint(0, 0), Timestamp: base},
		{Point: geom.NewPoint(1, 0.1), Timestamp: base.Add(time.Second)},
		{Point: geom.NewPoint(2, -0.1), Timestamp: base.Add(2 * time.Second)},
		{Point: geom.NewPoint(3, 0.05), Timestamp: base.Add(3 * time.Second)},
	}

	f := NewConstantVelocityFilter(0.1, 1.0)
	got, err := f.Smooth(context.Background(), obs)
	if err != nil {
		t.Fatalf("Smooth() error = %v", err)
	}
	if len(got) != len(obs) {
		t.Fatalf("Smooth() len = %d, want %d", len(got), len(obs))
	}
	if !got[0].Point.Equals(obs[0].Point) {
		t.Errorf("Smooth() first point = %v, want %v (unchanged seed)", got[0].Point, obs[0].Point)
	}
}

func TestConstantVelocityFilter_Smooth_EmptyRejected(t *testing.T) {
	f := NewConstantVelocityFilter(0.1, 1.0)
	if _, err := f.Smooth(context.Background(), nil); !errors.Is(err, mmerrors.ErrNoObservations) {
		t.Errorf("Smooth() = %v, want ErrNoObservations", err)
	}
}

func TestConstantVelocityFilter_Smooth_RespectsCancellation(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	obs := make([]observation.Observation, 5)
	for i := range obs {
		obs[i] = observation.Observation{Point: geom.NewPoint(float64(i), 0), Timestamp: base.Add(time.Duration(i) * time.Second)}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := NewConstantVelocityFilter(0.1, 1.0)
	if _, err := f.Smooth(ctx, obs); !errors.Is(err, mmerrors.ErrCancelled) {
		t.Errorf("Smooth() = %v, want ErrCancelled", err)
	}
}

func TestConstantVelocityFilter_Smooth_SmoothsNoise(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	// A straight line with a single noisy outlier; the smoothed estimate at
	// that point should land closer to the line than the raw outlier did.
	obs := []observation.Observation{
		{Point: geom.NewPoint(0, 0), Timestamp: base},
		{Point: geom.NewPoint(1, 0), Timestamp: base.Add(time.Second)},
		{Point: geom.NewPoint(2, 5), Timestamp: base.Add(2 * time.Second)}, // outlier
		{Point: geom.NewPoint(3, 0), Timestamp: base.Add(3 * time.Second)},
		{Point: geom.NewPoint(4, 0), Timestamp: base.Add(4 * time.Second)},
	}
	f := NewConstantVelocityFilter(0.01, 2.0)
	got, err := f.Smooth(context.Background(), obs)
	if err != nil {
		t.Fatalf("Smooth() error = %v", err)
	}
	if got[2].Point.Y >= obs[2].Point.Y {
		t.Errorf("Smooth() outlier Y = %v, want pulled below raw %v", got[2].Point.Y, obs[2].Point.Y)
	}
}
