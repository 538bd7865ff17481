package geomutil

import (
	"testing"

	"github.com/udisondev/geomatch/internal/geom"
)

func TestFindIntersections_CrossingPair(t *testing.T) {
	segs := []Segment{
		{A: geom.Point{X: 0, Y: 0}, B: geom.Point{X: 10, Y: 10}, Index: 0},
		{A: geom.Point{X: 0, Y: 10}, B: geom.Point{X: 10, Y: 0}, Index: 1},
	}
	got := FindIntersections(segs)
	if len(got) != 1 {
		t.Fatalf("FindIntersections() len = %d, want 1: %v", len(got), got)
	}
	want := geom.Point{X: 5, Y: 5}
	if !got[0].Point.EqualsTolerant(want, 1e-9) {
		t.Errorf("FindIntersections() point = %v, want %v", got[0].Point, want)
	}
}

func TestFindIntersections_NonCrossingSegmentsReportNothing(t *testing.T) {
	segs := []Segment{
		{A: geom.Point{X: 0, Y: 0}, B: geom.Point{X: 1, Y: 0}, Index: 0},
		{A: geom.Point{X: 0, Y: 5}, B: geom.Point{X: 1, Y: 5}, Index: 1},
	}
	got := FindIntersections(segs)
	if len(got) != 0 {
		t.Errorf("FindIntersections() len = %d, want 0: %v", len(got), got)
	}
}

func TestFindIntersections_ParallelSegmentsReportNothing(t *testing.T) {
	segs := []Segment{
		{A: geom.Point{X: 0, Y: 0}, B: geom.Point{X: 10, Y: 0}, Index: 0},
		{A: geom.Point{X: 0, Y: 1}, B: geom.Point{X: 10, Y: 1}, Index: 1},
	}
	got := FindIntersections(segs)
	if len(got) != 0 {
		t.Errorf("FindIntersections() len = %d, want 0 for parallel segments", len(got))
	}
}

func TestFindIntersections_MultipleCrossingsAllReported(t *testing.T) {
	segs := []Segment{
		{A: geom.Point{X: 0, Y: 5}, B: geom.Point{X: 20, Y: 5}, Index: 0},
		{A: geom.Point{X: 2, Y: 0}, B: geom.Point{X: 2, Y: 10}, Index: 1},
		{A: geom.Point{X: 8, Y: 0}, B: geom.Point{X: 8, Y: 10}, Index: 2},
	}
	got := FindIntersections(segs)
	if len(got) != 2 {
		t.Fatalf("FindIntersections() len = %d, want 2: %v", len(got), got)
	}
}
