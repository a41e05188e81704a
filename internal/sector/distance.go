package sector

import (
	"math"

	"github.com/ctessum/geom"
)

// bufferedNeighbors reports whether a and b, each grown outward by buffer,
// would intersect. For the disjoint sector polygons this is equivalent to
// their minimum boundary distance being at most twice the buffer, with
// overlap or containment counting as distance zero.
func bufferedNeighbors(a, b geom.Polygonal, buffer float64) bool {
	if !boundsOverlap(a.Bounds(), b.Bounds(), 2*buffer) {
		return false
	}
	return minPolygonalDistance(a, b) <= 2*buffer
}

func boundsOverlap(a, b *geom.Bounds, margin float64) bool {
	return a.Min.X-margin <= b.Max.X && b.Min.X-margin <= a.Max.X &&
		a.Min.Y-margin <= b.Max.Y && b.Min.Y-margin <= a.Max.Y
}

// minPolygonalDistance returns the minimum distance between the boundaries
// of a and b, or 0 when either contains a vertex of the other.
func minPolygonalDistance(a, b geom.Polygonal) float64 {
	if anyVertexInside(a, b) || anyVertexInside(b, a) {
		return 0
	}
	min := math.Inf(1)
	for _, pa := range a.Polygons() {
		for _, ra := range pa {
			for _, pb := range b.Polygons() {
				for _, rb := range pb {
					if d := minRingDistance(ra, rb); d < min {
						min = d
						if min == 0 {
							return 0
						}
					}
				}
			}
		}
	}
	return min
}

func anyVertexInside(a, b geom.Polygonal) bool {
	for _, p := range a.Polygons() {
		for _, ring := range p {
			for _, pt := range ring {
				if pt.Within(b) == geom.Inside {
					return true
				}
			}
		}
	}
	return false
}

func minRingDistance(a, b []geom.Point) float64 {
	min := math.Inf(1)
	for i := range a {
		a1 := a[i]
		a2 := a[(i+1)%len(a)]
		for j := range b {
			b1 := b[j]
			b2 := b[(j+1)%len(b)]
			if d := segmentDistance(a1, a2, b1, b2); d < min {
				min = d
			}
		}
	}
	return min
}

// segmentDistance returns the minimum distance between segments p1p2 and
// q1q2.
func segmentDistance(p1, p2, q1, q2 geom.Point) float64 {
	if segmentsIntersect(p1, p2, q1, q2) {
		return 0
	}
	d := pointSegmentDistance(p1, q1, q2)
	if v := pointSegmentDistance(p2, q1, q2); v < d {
		d = v
	}
	if v := pointSegmentDistance(q1, p1, p2); v < d {
		d = v
	}
	if v := pointSegmentDistance(q2, p1, p2); v < d {
		d = v
	}
	return d
}

func pointSegmentDistance(p, a, b geom.Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	l2 := dx*dx + dy*dy
	t := 0.0
	if l2 > 0 {
		t = ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / l2
		t = math.Max(0, math.Min(1, t))
	}
	cx, cy := a.X+t*dx, a.Y+t*dy
	return math.Hypot(p.X-cx, p.Y-cy)
}

func segmentsIntersect(p1, p2, q1, q2 geom.Point) bool {
	d1 := cross(q1, q2, p1)
	d2 := cross(q1, q2, p2)
	d3 := cross(p1, p2, q1)
	d4 := cross(p1, p2, q2)
	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	return (d1 == 0 && onSegment(q1, q2, p1)) ||
		(d2 == 0 && onSegment(q1, q2, p2)) ||
		(d3 == 0 && onSegment(p1, p2, q1)) ||
		(d4 == 0 && onSegment(p1, p2, q2))
}

func cross(a, b, c geom.Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

func onSegment(a, b, p geom.Point) bool {
	return math.Min(a.X, b.X) <= p.X && p.X <= math.Max(a.X, b.X) &&
		math.Min(a.Y, b.Y) <= p.Y && p.Y <= math.Max(a.Y, b.Y)
}
