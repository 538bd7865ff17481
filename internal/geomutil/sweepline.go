package geomutil

import (
	"container/heap"
	"sort"

	"github.com/udisondev/geomatch/internal/geom"
)

// Segment is a single edge of a polyline or a standalone line segment,
// tagged with an index into whatever slice the caller built it from so
// intersection results can be traced back to their source.
type Segment struct {
	A, B  geom.Point
	Index int
}

// Intersection is a single sweep-line finding: the point where segment I
// crosses segment J.
type Intersection struct {
	I, J  int
	Point geom.Point
}

// FindIntersections runs a Bentley-Ottmann-style sweep over segs, reporting
// every pairwise crossing. Events are endpoints sorted lexicographically by
// X then Y; the active set is scanned directly rather than maintained as a
// balanced order-statistics tree, which is simpler and fine for the segment
// counts a road network's candidate-edge set produces (dozens, not
// millions). For large sweep sets the classic structure would replace the
// linear scan below with a higher-order structure.
func FindIntersections(segs []Segment) []Intersection {
	events := buildEvents(segs)
	h := &eventHeap{}
	heap.Init(h)
	for _, e := range events {
		heap.Push(h, e)
	}

	var active []Segment
	var out []Intersection
	for h.Len() > 0 {
		e := heap.Pop(h).(sweepEvent)
		switch e.kind {
		case eventStart:
			for _, other := range active {
				if other.Index == e.seg.Index {
					continue
				}
				if pt, ok := segmentIntersection(e.seg, other); ok {
					out = append(out, Intersection{I: e.seg.Index, J: other.Index, Point: pt})
				}
			}
			active = append(active, e.seg)
		case eventEnd:
			for i, s := range active {
				if s.Index == e.seg.Index {
					active = append(active[:i], active[i+1:]...)
					break
				}
			}
		}
	}
	return out
}

type eventKind int

const (
	eventStart eventKind = iota
	eventEnd
)

type sweepEvent struct {
	x, y float64
	kind eventKind
	seg  Segment
}

type eventHeap []sweepEvent

func (h eventHeap) Len() int { return len(h) }
func (h eventHeap) Less(i, j int) bool {
	if h[i].x != h[j].x {
		return h[i].x < h[j].x
	}
	return h[i].y < h[j].y
}
func (h eventHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *eventHeap) Push(x any)        { *h = append(*h, x.(sweepEvent)) }
func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}

func buildEvents(segs []Segment) []sweepEvent {
	events := make([]sweepEvent, 0, len(segs)*2)
	for _, s := range segs {
		left, right := s.A, s.B
		if right.Compare(left) < 0 {
			left, right = right, left
		}
		events = append(events,
			sweepEvent{x: left.X, y: left.Y, kind: eventStart, seg: s},
			sweepEvent{x: right.X, y: right.Y, kind: eventEnd, seg: s},
		)
	}
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].x != events[j].x {
			return events[i].x < events[j].x
		}
		return events[i].y < events[j].y
	})
	return events
}

// segmentIntersection finds the crossing point of two segments via
// parametric line intersection, reporting only proper interior crossings
// (parallel and purely-endpoint-touching segments are excluded since those
// are not the gap cases the road network's self-intersection check cares
// about).
func segmentIntersection(a, b Segment) (geom.Point, bool) {
	r := geom.Point{X: a.B.X - a.A.X, Y: a.B.Y - a.A.Y}
	s := geom.Point{X: b.B.X - b.A.X, Y: b.B.Y - b.A.Y}
	denom := cross(r, s)
	if denom == 0 {
		return geom.Point{}, false
	}
	qp := geom.Point{X: b.A.X - a.A.X, Y: b.A.Y - a.A.Y}
	t := cross(qp, s) / denom
	u := cross(qp, r) / denom
	if t <= 0 || t >= 1 || u <= 0 || u >= 1 {
		return geom.Point{}, false
	}
	return geom.Point{X: a.A.X + t*r.X, Y: a.A.Y + t*r.Y}, true
}

func cross(p, q geom.Point) float64 {
	return p.X*q.Y - p.Y*q.X
}
