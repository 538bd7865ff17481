// Package wkt implements a minimal, whitespace-tolerant WKT codec for
// POINT and LINESTRING geometries. Hand-written rather than built on a
// third-party WKT library: every candidate in the ecosystem (orb's
// encoding/wkt among them) carries its own Point/LineString types that
// would compete with internal/geom's, for a surface that is really just
// four small functions.
package wkt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/udisondev/geomatch/internal/geom"
)

// ParsePoint parses a WKT "POINT(x y)" literal, tolerant of surrounding and
// interior whitespace.
func ParsePoint(s string) (geom.Point, error) {
	body, err := unwrap(s, "POINT")
	if err != nil {
		return geom.Point{}, err
	}
	coords := strings.Fields(body)
	if len(coords) != 2 {
		return geom.Point{}, fmt.Errorf("wkt: POINT expects 2 coordinates, got %d in %q", len(coords), s)
	}
	x, y, err := parseXY(coords[0], coords[1])
	if err != nil {
		return geom.Point{}, fmt.Errorf("wkt: %w", err)
	}
	return geom.NewPoint(x, y), nil
}

// FormatPoint renders p as a WKT "POINT(x y)" literal.
func FormatPoint(p geom.Point) string {
	return fmt.Sprintf("POINT(%s %s)", formatFloat(p.X), formatFloat(p.Y))
}

// ParseLineString parses a WKT "LINESTRING(x1 y1, x2 y2, ...)" literal.
func ParseLineString(s string) (geom.Polyline, error) {
	body, err := unwrap(s, "LINESTRING")
	if err != nil {
		return geom.Polyline{}, err
	}
	if strings.TrimSpace(body) == "" {
		return geom.NewPolyline(nil), nil
	}
	pairs := strings.Split(body, ",")
	pts := make([]geom.Point, 0, len(pairs))
	for i, pair := range pairs {
		coords := strings.Fields(strings.TrimSpace(pair))
		if len(coords) != 2 {
			return geom.Polyline{}, fmt.Errorf("wkt: LINESTRING vertex %d expects 2 coordinates, got %d in %q", i, len(coords), s)
		}
		x, y, err := parseXY(coords[0], coords[1])
		if err != nil {
			return geom.Polyline{}, fmt.Errorf("wkt: %w", err)
		}
		pts = append(pts, geom.NewPoint(x, y))
	}
	return geom.NewPolyline(pts), nil
}

// FormatLineString renders pl as a WKT "LINESTRING(x1 y1, x2 y2, ...)"
// literal.
func FormatLineString(pl geom.Polyline) string {
	pts := pl.Points()
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = formatFloat(p.X) + " " + formatFloat(p.Y)
	}
	return "LINESTRING(" + strings.Join(parts, ", ") + ")"
}

func unwrap(s, tag string) (string, error) {
	trimmed := strings.TrimSpace(s)
	upper := strings.ToUpper(trimmed)
	if !strings.HasPrefix(upper, tag) {
		return "", fmt.Errorf("wkt: expected %s, got %q", tag, s)
	}
	rest := strings.TrimSpace(trimmed[len(tag):])
	if !strings.HasPrefix(rest, "(") || !strings.HasSuffix(rest, ")") {
		return "", fmt.Errorf("wkt: malformed %s literal %q", tag, s)
	}
	return strings.TrimSpace(rest[1 : len(rest)-1]), nil
}

func parseXY(xs, ys string) (x, y float64, err error) {
	x, err = strconv.ParseFloat(xs, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parsing X %q: %w", xs, err)
	}
	y, err = strconv.ParseFloat(ys, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parsing Y %q: %w", ys, err)
	}
	return x, y, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
