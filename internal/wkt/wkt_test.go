package wkt

import (
	"testing"

	"github.com/udisondev/geomatch/internal/geom"
)

func TestParsePoint_TolerantOfWhitespace(t *testing.T) {
	cases := []string{"POINT(1 2)", "  POINT ( 1   2 )  ", "point(1 2)"}
	want := geom.NewPoint(1, 2)
	for _, c := range cases {
		got, err := ParsePoint(c)
		if err != nil {
			t.Fatalf("ParsePoint(%q) error = %v", c, err)
		}
		if !got.Equals(want) {
			t.Errorf("ParsePoint(%q) = %v, want %v", c, got, want)
		}
	}
}

func TestParsePoint_WrongCoordinateCount(t *testing.T) {
	if _, err := ParsePoint("POINT(1 2 3)"); err == nil {
		t.Error("ParsePoint() with 3 coordinates: want error, got nil")
	}
}

func TestFormatPoint_RoundTrips(t *testing.T) {
	p := geom.NewPoint(12.5, -7.25)
	s := FormatPoint(p)
	got, err := ParsePoint(s)
	if err != nil {
		t.Fatalf("ParsePoint(FormatPoint(p)) error = %v", err)
	}
	if !got.Equals(p) {
		t.Errorf("round trip = %v, want %v", got, p)
	}
}

func TestParseLineString_MultipleVertices(t *testing.T) {
	got, err := ParseLineString("LINESTRING(0 0, 1 1, 2 0)")
	if err != nil {
		t.Fatalf("ParseLineString() error = %v", err)
	}
	if got.Len() != 3 {
		t.Fatalf("ParseLineString() len = %d, want 3", got.Len())
	}
	if !got.Start().Equals(geom.NewPoint(0, 0)) || !got.End().Equals(geom.NewPoint(2, 0)) {
		t.Errorf("ParseLineString() = %v", got.Points())
	}
}

func TestParseLineString_Empty(t *testing.T) {
	got, err := ParseLineString("LINESTRING()")
	if err != nil {
		t.Fatalf("ParseLineString() error = %v", err)
	}
	if !got.IsEmpty() {
		t.Errorf("ParseLineString() = %v, want empty", got.Points())
	}
}

func TestFormatLineString_RoundTrips(t *testing.T) {
	pl := geom.NewPolyline([]geom.Point{{X: 0, Y: 0}, {X: 3, Y: 4}})
	s := FormatLineString(pl)
	got, err := ParseLineString(s)
	if err != nil {
		t.Fatalf("ParseLineString(FormatLineString(pl)) error = %v", err)
	}
	if got.Len() != pl.Len() {
		t.Errorf("round trip len = %d, want %d", got.Len(), pl.Len())
	}
}

func TestParsePoint_MalformedInput(t *testing.T) {
	cases := []string{"POINT 1 2", "LINESTRING(1 2)", "POINT(1)"}
	for _, c := range cases {
		if _, err := ParsePoint(c); err == nil {
			t.Errorf("ParsePoint(%q): want error, got nil", c)
		}
	}
}
