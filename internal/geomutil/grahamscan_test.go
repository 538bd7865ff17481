package geomutil

import (
	"testing"

	"github.com/udisondev/geomatch/internal/geom"
)

func TestGrahamScan_Square(t *testing.T) {
	pts := []geom.Point{
		{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}, {X: 0, Y: 4},
		{X: 2, Y: 2}, // interior point, must be dropped
	}
	hull := GrahamScan(pts)
	if len(hull) != 4 {
		t.Fatalf("GrahamScan() len = %d, want 4 hull vertices: %v", len(hull), hull)
	}
	for _, h := range hull {
		if h.Equals(geom.Point{X: 2, Y: 2}) {
			t.Errorf("GrahamScan() kept interior point %v", h)
		}
	}
}

func TestGrahamScan_FewerThanThreePoints(t *testing.T) {
	pts := []geom.Point{{X: 0, Y: 0}, {X: 1, Y: 1}}
	hull := GrahamScan(pts)
	if len(hull) != 2 {
		t.Errorf("GrahamScan() len = %d, want 2 (pass-through for degenerate input)", len(hull))
	}
}

func TestGrahamScan_CollinearPointsDoNotBreakScan(t *testing.T) {
	pts := []geom.Point{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 2},
	}
	hull := GrahamScan(pts)
	if len(hull) < 3 {
		t.Fatalf("GrahamScan() len = %d, want at least 3", len(hull))
	}
}

func TestOrientation_Signs(t *testing.T) {
	ccw := orientation(geom.Point{X: 0, Y: 0}, geom.Point{X: 1, Y: 0}, geom.Point{X: 1, Y: 1})
	if ccw <= 0 {
		t.Errorf("orientation() = %v, want > 0 for counter-clockwise turn", ccw)
	}
	cw := orientation(geom.Point{X: 0, Y: 0}, geom.Point{X: 1, Y: 1}, geom.Point{X: 1, Y: 0})
	if cw >= 0 {
		t.Errorf("orientation() = %v, want < 0 for clockwise turn", cw)
	}
	collinear := orientation(geom.Point{X: 0, Y: 0}, geom.Point{X: 1, Y: 0}, geom.Point{X: 2, Y: 0})
	if collinear != 0 {
		t.Errorf("orientation() = %v, want 0 for collinear points", collinear)
	}
}
