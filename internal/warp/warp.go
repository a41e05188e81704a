// Package warp reprojects a reachability grid from its local projected CRS
// to geographic coordinates at a caller-supplied resolution.
//
// The three value categories are resampled through two different kernels:
// real values blend through scattered linear interpolation, while the zero
// (ground/boundary) and no-data channels are resampled nearest-neighbor so
// category membership stays crisp at boundaries. The composed output gives
// the zero channel final say, then no-data, then interpolated values.
package warp

import (
	"fmt"
	"math"

	"github.com/fogleman/delaunay"
	"gonum.org/v1/gonum/spatial/kdtree"

	"github.com/glideline-data/reach.report/internal/crs"
	"github.com/glideline-data/reach.report/internal/grid"
	"github.com/glideline-data/reach.report/internal/progress"
)

// DefaultTargetCellSize is the default output resolution in degrees,
// roughly 100 m at mid latitudes.
const DefaultTargetCellSize = 0.0009

// Options configures a reprojection.
type Options struct {
	// TargetCellSize is the output cell size in degrees. Zero means
	// DefaultTargetCellSize.
	TargetCellSize float64
	// Subset, when non-nil, clips the output extent to these geographic
	// bounds (pixel-center coordinates).
	Subset *grid.Extent
	// Progress receives status lines. Nil discards them.
	Progress progress.Sink
}

// Reproject transforms src from srcProj4 to geographic WGS84.
//
// When src contains no valid cells the result is an all-no-data grid over
// the transformed source extent, not an error: nothing was reachable.
func Reproject(src *grid.Grid, srcProj4 string, opts Options) (*grid.Grid, error) {
	res := opts.TargetCellSize
	if res <= 0 {
		res = DefaultTargetCellSize
	}
	fwd, err := crs.Transform(srcProj4, crs.Geographic)
	if err != nil {
		return nil, err
	}

	// Transform every source pixel center once, classifying as we go.
	full := make(maskPoints, 0, src.NRows*src.NCols)
	valid := make([]delaunay.Point, 0, src.NRows*src.NCols)
	vals := make([]float64, 0, src.NRows*src.NCols)
	for r := 0; r < src.NRows; r++ {
		for c := 0; c < src.NCols; c++ {
			x, y := src.CellCenter(r, c)
			lon, lat, err := fwd(x, y)
			if err != nil {
				return nil, fmt.Errorf("transform cell (%d,%d): %w", r, c, err)
			}
			v := src.Data[r][c]
			cat := src.Category(v)
			full = append(full, maskPoint{x: lon, y: lat, cat: cat})
			if cat == grid.CategoryValid {
				valid = append(valid, delaunay.Point{X: lon, Y: lat})
				vals = append(vals, v)
			}
		}
	}
	progress.Emit(opts.Progress, "warp: %d of %d cells valid", len(valid), len(full))

	// Output extent: the valid cells' span, or the whole transformed grid
	// when nothing is valid.
	var ext grid.Extent
	if len(valid) > 0 {
		ext = grid.Extent{MinX: valid[0].X, MinY: valid[0].Y, MaxX: valid[0].X, MaxY: valid[0].Y}
		for _, p := range valid[1:] {
			ext = ext.Union(grid.Extent{MinX: p.X, MinY: p.Y, MaxX: p.X, MaxY: p.Y})
		}
	} else {
		ext = grid.Extent{MinX: full[0].x, MinY: full[0].y, MaxX: full[0].x, MaxY: full[0].y}
		for _, p := range full[1:] {
			ext = ext.Union(grid.Extent{MinX: p.x, MinY: p.y, MaxX: p.x, MaxY: p.y})
		}
	}
	if opts.Subset != nil {
		ext = ext.Intersect(*opts.Subset)
		if ext.Empty() {
			return nil, fmt.Errorf("subset bounds do not overlap the source extent")
		}
	}

	ncols := int(math.Ceil((ext.MaxX - ext.MinX) / res))
	nrows := int(math.Ceil((ext.MaxY - ext.MinY) / res))
	if ncols < 1 {
		ncols = 1
	}
	if nrows < 1 {
		nrows = 1
	}
	topY := ext.MaxY
	out := grid.New(grid.Header{
		NCols:     ncols,
		NRows:     nrows,
		XLLCorner: ext.MinX,
		YLLCorner: topY - float64(nrows)*res,
		CellSize:  res,
		NoData:    src.NoData,
	})

	if len(valid) == 0 {
		progress.Emit(opts.Progress, "warp: no valid cells, emitting all-no-data grid")
		return out, nil
	}

	// Pass 1: linear interpolation of the valid channel.
	interp := make([][]float64, nrows)
	for r := range interp {
		row := make([]float64, ncols)
		for c := range row {
			row[c] = math.NaN()
		}
		interp[r] = row
	}
	if err := linearInterpolate(valid, vals, interp, ext.MinX, topY, res); err != nil {
		return nil, fmt.Errorf("interpolate valid cells: %w", err)
	}

	// Pass 2: nearest-neighbor category lookup over the full source grid.
	tree := kdtree.New(full, false)
	for r := 0; r < nrows; r++ {
		for c := 0; c < ncols; c++ {
			x, y := out.CellCenter(r, c)
			got, _ := tree.Nearest(maskPoint{x: x, y: y})
			cat := got.(maskPoint).cat

			v := interp[r][c]
			if math.IsNaN(v) {
				v = src.NoData
			}
			// Category overlays: no-data beats the interpolated value,
			// the zero marker beats everything.
			if cat == grid.CategoryNoData {
				v = src.NoData
			}
			if cat == grid.CategoryZero {
				v = 0
			}
			out.Data[r][c] = v
		}
	}
	return out, nil
}

// ResampleCategories runs only the nearest-neighbor category pass of
// Reproject, classifying every cell of target by its nearest source cell.
// Running it on a grid against itself is the identity on categories.
func ResampleCategories(src *grid.Grid, target grid.Header) []grid.Category {
	full := make(maskPoints, 0, src.NRows*src.NCols)
	for r := 0; r < src.NRows; r++ {
		for c := 0; c < src.NCols; c++ {
			x, y := src.CellCenter(r, c)
			full = append(full, maskPoint{x: x, y: y, cat: src.Category(src.Data[r][c])})
		}
	}
	tree := kdtree.New(full, false)
	cats := make([]grid.Category, target.NRows*target.NCols)
	for r := 0; r < target.NRows; r++ {
		for c := 0; c < target.NCols; c++ {
			x, y := target.CellCenter(r, c)
			got, _ := tree.Nearest(maskPoint{x: x, y: y})
			cats[r*target.NCols+c] = got.(maskPoint).cat
		}
	}
	return cats
}
