package topology

import (
	"math"
	"testing"

	"github.com/udisondev/geomatch/internal/geom"
)

func TestEuclidean_OnTrackClosestPoint_Clamps(t *testing.T) {
	e := NewEuclidean(0)
	a := geom.NewPoint(0, 0)
	b := geom.NewPoint(10, 0)

	tests := []struct {
		name string
		p    geom.Point
		want geom.Point
	}{
		{"interior projection", geom.NewPoint(5, 3), geom.NewPoint(5, 0)},
		{"before a clamps to a", geom.NewPoint(-5, 1), a},
		{"after b clamps to b", geom.NewPoint(15, 1), b},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.OnTrackClosestPoint(a, b, tt.p)
			if !got.EqualsTolerant(tt.want, 1e-9) {
				t.Errorf("OnTrackClosestPoint() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEuclidean_InitialBearing_Normalized(t *testing.T) {
	e := NewEuclidean(0)
	tests := []struct {
		name string
		p, q geom.Point
		want float64
	}{
		{"due north", geom.NewPoint(0, 0), geom.NewPoint(0, 10), 0},
		{"due east", geom.NewPoint(0, 0), geom.NewPoint(10, 0), 90},
		{"due south", geom.NewPoint(0, 0), geom.NewPoint(0, -10), 180},
		{"due west", geom.NewPoint(0, 0), geom.NewPoint(-10, 0), 270},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.InitialBearing(tt.p, tt.q)
			if got < 0 || got >= 360 {
				t.Errorf("bearing %v not normalized to [0, 360)", got)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("InitialBearing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEuclidean_AlongTrackDistance_BoundedByLength(t *testing.T) {
	e := NewEuclidean(0)
	a := geom.NewPoint(0, 0)
	b := geom.NewPoint(10, 0)
	length := e.Distance(a, b)

	for _, p := range []geom.Point{
		geom.NewPoint(5, 5), geom.NewPoint(-5, 5), geom.NewPoint(20, -5),
	} {
		atd := e.AlongTrackDistance(a, b, p)
		if atd < 0 || atd > length+1e-9 {
			t.Errorf("AlongTrackDistance(%v) = %v, want in [0, %v]", p, atd, length)
		}
	}
}

func TestEuclidean_Intersection_CrossingSegments(t *testing.T) {
	e := NewEuclidean(0)
	poly1 := geom.NewPolyline([]geom.Point{{X: 0, Y: 5}, {X: 10, Y: 5}})
	poly2 := geom.NewPolyline([]geom.Point{{X: 5, Y: 0}, {X: 5, Y: 10}})

	got, ok := e.Intersection(poly1, poly2)
	if !ok {
		t.Fatalf("expected an intersection")
	}
	want := geom.NewPoint(5, 5)
	if !got.EqualsTolerant(want, 1e-9) {
		t.Errorf("Intersection() = %v, want %v", got, want)
	}
}

func TestEuclidean_Intersection_ParallelNoHit(t *testing.T) {
	e := NewEuclidean(0)
	poly1 := geom.NewPolyline([]geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}})
	poly2 := geom.NewPolyline([]geom.Point{{X: 0, Y: 5}, {X: 10, Y: 5}})

	if _, ok := e.Intersection(poly1, poly2); ok {
		t.Errorf("expected no intersection between parallel segments")
	}
}
