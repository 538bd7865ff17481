package hybridindex

import (
	"testing"

	"github.com/udisondev/geomatch/internal/geom"
	"github.com/udisondev/geomatch/internal/spatialindex"
)

func newTestIndex() *HybridIndex {
	outer := spatialindex.NewRegionQuadTree(geom.NewRegion(-10000, -10000, 20000, 20000), 4, 16)
	return New(outer, 100)
}

func TestHybridIndex_InsertAndContains(t *testing.T) {
	h := newTestIndex()
	p := geom.NewPoint(5, 5)
	if err := h.Insert(p); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if !h.Contains(p) {
		t.Errorf("expected inserted point to be contained")
	}
	if h.Contains(geom.NewPoint(9999, 9999)) {
		t.Errorf("expected far-away point not to be contained")
	}
}

func TestHybridIndex_DelegatesWithinSameBoundary(t *testing.T) {
	h := newTestIndex()
	a := geom.NewPoint(0, 0)
	b := geom.NewPoint(1, 1)
	if err := h.Insert(a); err != nil {
		t.Fatalf("Insert(a) error = %v", err)
	}
	if err := h.Insert(b); err != nil {
		t.Fatalf("Insert(b) error = %v", err)
	}
	if len(h.terminals) != 1 {
		t.Errorf("expected both nearby points to share one boundary region, got %d regions", len(h.terminals))
	}
}

func TestHybridIndex_NearestNeighbor(t *testing.T) {
	h := newTestIndex()
	for _, p := range []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 10}, {X: 3, Y: 3}} {
		if err := h.Insert(p); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}
	got, ok := h.NearestNeighbor(geom.NewPoint(2, 2))
	if !ok {
		t.Fatalf("NearestNeighbor() found nothing")
	}
	want := geom.NewPoint(3, 3)
	if got != want {
		t.Errorf("NearestNeighbor() = %v, want %v", got, want)
	}
}
