package warp

import (
	"math"

	"github.com/fogleman/delaunay"
)

// linearInterpolate scatters (pts, vals) onto the regular target grid via
// Delaunay triangulation and barycentric interpolation, the same scheme
// scattered linear interpolation uses everywhere else. Cells outside the
// convex hull of pts keep NaN. dst is indexed [row][col] with row 0 north.
func linearInterpolate(pts []delaunay.Point, vals []float64, dst [][]float64, originX, topY, cellSize float64) error {
	if len(pts) < 3 {
		// Not enough points to span any area; everything stays missing.
		return nil
	}
	tri, err := delaunay.Triangulate(pts)
	if err != nil {
		return err
	}

	nrows := len(dst)
	if nrows == 0 {
		return nil
	}
	ncols := len(dst[0])

	for t := 0; t < len(tri.Triangles); t += 3 {
		i0, i1, i2 := tri.Triangles[t], tri.Triangles[t+1], tri.Triangles[t+2]
		a, b, c := pts[i0], pts[i1], pts[i2]
		va, vb, vc := vals[i0], vals[i1], vals[i2]

		det := (b.Y-c.Y)*(a.X-c.X) + (c.X-b.X)*(a.Y-c.Y)
		if det == 0 {
			continue // degenerate triangle
		}

		minX := math.Min(a.X, math.Min(b.X, c.X))
		maxX := math.Max(a.X, math.Max(b.X, c.X))
		minY := math.Min(a.Y, math.Min(b.Y, c.Y))
		maxY := math.Max(a.Y, math.Max(b.Y, c.Y))

		// Index ranges of target cell centers inside the triangle's bbox.
		colLo := int(math.Floor((minX-originX)/cellSize - 0.5))
		colHi := int(math.Ceil((maxX-originX)/cellSize - 0.5))
		rowLo := int(math.Floor((topY-maxY)/cellSize - 0.5))
		rowHi := int(math.Ceil((topY-minY)/cellSize - 0.5))
		if colLo < 0 {
			colLo = 0
		}
		if rowLo < 0 {
			rowLo = 0
		}
		if colHi > ncols-1 {
			colHi = ncols - 1
		}
		if rowHi > nrows-1 {
			rowHi = nrows - 1
		}

		const eps = 1e-9
		for row := rowLo; row <= rowHi; row++ {
			y := topY - (float64(row)+0.5)*cellSize
			for col := colLo; col <= colHi; col++ {
				x := originX + (float64(col)+0.5)*cellSize
				w0 := ((b.Y-c.Y)*(x-c.X) + (c.X-b.X)*(y-c.Y)) / det
				w1 := ((c.Y-a.Y)*(x-c.X) + (a.X-c.X)*(y-c.Y)) / det
				w2 := 1 - w0 - w1
				if w0 < -eps || w1 < -eps || w2 < -eps {
					continue
				}
				dst[row][col] = w0*va + w1*vb + w2*vc
			}
		}
	}
	return nil
}
