package geom

import "testing"

type euclideanCalc struct{}

func (euclideanCalc) Distance(p, q Point) float64 {
	return p.DistanceEuclidean(q)
}

func TestGeometryFactory_Distance(t *testing.T) {
	f := NewGeometryFactory(euclideanCalc{})
	p := f.Point(0, 0)
	q := f.Point(3, 4)
	if got := f.Distance(p, q); got != 5 {
		t.Errorf("Distance() = %v, want 5", got)
	}
}

func TestGeometryFactory_Polyline_RemovesDuplicates(t *testing.T) {
	f := NewGeometryFactory(euclideanCalc{})
	pl := f.Polyline([]Point{{0, 0}, {0, 0}, {1, 1}})
	if pl.Len() != 2 {
		t.Errorf("Len() = %d, want 2", pl.Len())
	}
}
