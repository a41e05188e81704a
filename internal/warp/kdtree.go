package warp

import (
	"gonum.org/v1/gonum/spatial/kdtree"

	"github.com/glideline-data/reach.report/internal/grid"
)

// maskPoint is one source pixel center in target coordinates carrying its
// value category. Nearest-neighbor lookups over these reproduce the zero
// and no-data channels without blending.
type maskPoint struct {
	x, y float64
	cat  grid.Category
}

func (p maskPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(maskPoint)
	switch d {
	case 0:
		return p.x - q.x
	default:
		return p.y - q.y
	}
}

func (p maskPoint) Dims() int { return 2 }

func (p maskPoint) Distance(c kdtree.Comparable) float64 {
	q := c.(maskPoint)
	dx, dy := p.x-q.x, p.y-q.y
	return dx*dx + dy*dy
}

type maskPoints []maskPoint

func (p maskPoints) Index(i int) kdtree.Comparable        { return p[i] }
func (p maskPoints) Len() int                             { return len(p) }
func (p maskPoints) Pivot(d kdtree.Dim) int               { return maskPlane{maskPoints: p, Dim: d}.Pivot() }
func (p maskPoints) Slice(start, end int) kdtree.Interface { return p[start:end] }

// maskPlane is the sort plane required by kdtree.Partition.
type maskPlane struct {
	kdtree.Dim
	maskPoints
}

func (p maskPlane) Less(i, j int) bool {
	switch p.Dim {
	case 0:
		return p.maskPoints[i].x < p.maskPoints[j].x
	default:
		return p.maskPoints[i].y < p.maskPoints[j].y
	}
}

func (p maskPlane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }

func (p maskPlane) Slice(start, end int) kdtree.SortSlicer {
	p.maskPoints = p.maskPoints[start:end]
	return p
}

func (p maskPlane) Swap(i, j int) {
	p.maskPoints[i], p.maskPoints[j] = p.maskPoints[j], p.maskPoints[i]
}
