package spatialindex

import (
	"testing"

	"github.com/udisondev/geomatch/internal/geom"
)

// newTrees returns one instance of every RegionTree implementation, so the
// common contract can be exercised identically across all of them.
func newTrees(t *testing.T) map[string]RegionTree {
	hpr := NewHPRTree(4)
	return map[string]RegionTree{
		"RegionQuadTree":  NewRegionQuadTree(geom.NewRegion(-100, -100, 200, 200), 2, 10),
		"RTree":           NewRTree(2, 4),
		"KDTree":          NewKDTree(0),
		"SuccinctKDTree":  NewSuccinctKDTree(0),
		"BPlusTree":       NewBPlusTree(4),
		"HPRTree":         hpr,
	}
}

func TestRegionTree_EmptyOnConstruction(t *testing.T) {
	for name, tree := range newTrees(t) {
		t.Run(name, func(t *testing.T) {
			if !tree.IsEmpty() {
				t.Errorf("%s: expected new tree to be empty", name)
			}
		})
	}
}

func TestRegionTree_InsertAndQuery(t *testing.T) {
	regions := []geom.Region{
		geom.NewRegion(0, 0, 1, 1),
		geom.NewRegion(5, 5, 1, 1),
		geom.NewRegion(10, 10, 1, 1),
	}

	for name, tree := range newTrees(t) {
		t.Run(name, func(t *testing.T) {
			for _, r := range regions {
				if err := tree.Insert(r); err != nil {
					t.Fatalf("%s: Insert() error = %v", name, err)
				}
			}
			if hpr, ok := tree.(*HPRTree); ok {
				hpr.Build()
			}
			if tree.IsEmpty() {
				t.Errorf("%s: expected non-empty tree after inserts", name)
			}

			query := geom.NewRegion(-1, -1, 3, 3)
			if !tree.Intersects(query) {
				t.Errorf("%s: expected query region to intersect an inserted region", name)
			}
			got := tree.Query(query)
			if len(got) == 0 {
				t.Errorf("%s: Query() returned no regions, want at least one", name)
			}

			farAway := geom.NewRegion(1000, 1000, 1, 1)
			if tree.Intersects(farAway) {
				t.Errorf("%s: expected far-away region not to intersect", name)
			}
		})
	}
}

func TestRegionTree_Contains(t *testing.T) {
	outer := geom.NewRegion(0, 0, 10, 10)

	for name, ctor := range map[string]func() RegionTree{
		"RegionQuadTree": func() RegionTree { return NewRegionQuadTree(geom.NewRegion(-100, -100, 200, 200), 2, 10) },
		"RTree":          func() RegionTree { return NewRTree(2, 4) },
		"BPlusTree":      func() RegionTree { return NewBPlusTree(4) },
	} {
		t.Run(name, func(t *testing.T) {
			tree := ctor()
			if err := tree.Insert(outer); err != nil {
				t.Fatalf("Insert() error = %v", err)
			}
			inner := geom.NewRegion(2, 2, 2, 2)
			if !tree.Contains(inner) {
				t.Errorf("%s: expected outer region to contain inner region", name)
			}
		})
	}
}

func TestRegionTree_Delete(t *testing.T) {
	for name, tree := range map[string]RegionTree{
		"RegionQuadTree": NewRegionQuadTree(geom.NewRegion(-100, -100, 200, 200), 2, 10),
		"RTree":          NewRTree(2, 4),
		"KDTree":         NewKDTree(0),
		"SuccinctKDTree": NewSuccinctKDTree(0),
		"BPlusTree":      NewBPlusTree(4),
	} {
		t.Run(name, func(t *testing.T) {
			r := geom.NewRegion(1, 1, 1, 1)
			if err := tree.Insert(r); err != nil {
				t.Fatalf("Insert() error = %v", err)
			}
			if !tree.Delete(r) {
				t.Errorf("%s: Delete() = false, want true for an inserted region", name)
			}
			if tree.Delete(r) {
				t.Errorf("%s: second Delete() = true, want false (already removed)", name)
			}
		})
	}
}

func TestHPRTree_InsertAfterBuildFails(t *testing.T) {
	hpr := NewHPRTree(4)
	_ = hpr.Insert(geom.NewRegion(0, 0, 1, 1))
	hpr.Build()

	if err := hpr.Insert(geom.NewRegion(1, 1, 1, 1)); err == nil {
		t.Errorf("expected Insert after Build to fail with ErrBuildLocked")
	}
}

func TestKDTree_Nearest(t *testing.T) {
	kd := NewKDTree(0)
	points := []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 10}, {X: 3, Y: 3}}
	for _, p := range points {
		if err := kd.Insert(geom.NewRegion(p.X, p.Y, 0, 0)); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}
	got, ok := kd.Nearest(geom.NewPoint(2, 2))
	if !ok {
		t.Fatalf("Nearest() found nothing")
	}
	want := geom.NewPoint(3, 3)
	if got != want {
		t.Errorf("Nearest() = %v, want %v", got, want)
	}
}
