// Package simplify implements iterative Ramer-Douglas-Peucker polyline
// simplification using internal/topology's on-track closest point as the
// perpendicular-distance primitive.
package simplify

import (
	"github.com/udisondev/geomatch/internal/geom"
	"github.com/udisondev/geomatch/internal/topology"
)

type span struct {
	start, end int
}

// RDP simplifies pl to within tolerance (in calc's native distance unit),
// using an explicit stack of (startIndex, endIndex) spans rather than
// recursion. For each span, the point with the greatest perpendicular
// distance from the chord start-end is found via calc.OnTrackClosestPoint;
// if that distance is within tolerance every interior point is dropped,
// otherwise the span splits at the farthest point and both halves are
// pushed back onto the stack.
func RDP(calc topology.Calculator, pl geom.Polyline, tolerance float64) geom.Polyline {
	pts := pl.Points()
	if len(pts) < 3 {
		return pl
	}

	keep := make([]bool, len(pts))
	keep[0] = true
	keep[len(pts)-1] = true

	stack := []span{{0, len(pts) - 1}}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if s.end-s.start < 2 {
			continue
		}

		a, b := pts[s.start], pts[s.end]
		farIdx := -1
		farDist := 0.0
		for i := s.start + 1; i < s.end; i++ {
			onTrack := calc.OnTrackClosestPoint(a, b, pts[i])
			d := calc.Distance(onTrack, pts[i])
			if d > farDist {
				farDist = d
				farIdx = i
			}
		}

		if farIdx == -1 || farDist <= tolerance {
			continue
		}
		keep[farIdx] = true
		stack = append(stack, span{s.start, farIdx}, span{farIdx, s.end})
	}

	out := make([]geom.Point, 0, len(pts))
	for i, p := range pts {
		if keep[i] {
			out = append(out, p)
		}
	}
	return geom.NewPolyline(out)
}
