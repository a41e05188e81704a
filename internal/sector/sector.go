// Package sector turns the fusion engine's provenance raster into colored
// map features: one polygon (possibly with holes, possibly multi-part) per
// contributing source, colored so neighboring sectors differ.
package sector

import (
	"fmt"
	"math"
	"sort"

	"github.com/ctessum/geom"
	"github.com/fogleman/contourmap"

	"github.com/glideline-data/reach.report/internal/grid"
	"github.com/glideline-data/reach.report/internal/progress"
)

// Feature is one extracted sector.
type Feature struct {
	SectorID int            // provenance id from the sectors raster
	Geom     geom.Polygonal // sector geometry in the raster's CRS
	Color    int            // palette index; set by Color
}

// Options configures sector extraction.
type Options struct {
	// MinArea drops trace loops smaller than this area. The unit is the
	// square of the raster's coordinate unit: m² for a projected sectors
	// raster, deg² for a geographic one. Callers must pick the threshold
	// to match; there is no default that suits both.
	MinArea float64
	// SimplifyTol is the vertex-reduction tolerance in raster coordinate
	// units. Zero means 3x the cell size.
	SimplifyTol float64
	// Progress receives status lines. Nil discards them.
	Progress progress.Sink
}

// Extract traces every distinct provenance id in g into polygon features.
// Ids are processed in ascending order so output is reproducible.
func Extract(g *grid.Grid, opts Options) ([]*Feature, error) {
	tol := opts.SimplifyTol
	if tol <= 0 {
		tol = 3 * g.CellSize
	}

	ids := distinctIDs(g)
	progress.Emit(opts.Progress, "sector: %d distinct sector ids", len(ids))

	var features []*Feature
	for _, id := range ids {
		polys := tracePolygons(g, id)
		polys = filterByArea(polys, opts.MinArea)
		for i, p := range polys {
			polys[i] = simplifyPolygon(p, tol)
		}
		donut := buildDonuts(polys)
		if donut == nil {
			progress.Emit(opts.Progress, "sector: id %d left no geometry after filtering", id)
			continue
		}
		features = append(features, &Feature{SectorID: id, Geom: donut})
	}
	if len(features) == 0 {
		return nil, fmt.Errorf("no sectors above the %g area threshold", opts.MinArea)
	}
	return features, nil
}

// distinctIDs returns the sorted distinct non-no-data cell values of g.
func distinctIDs(g *grid.Grid) []int {
	seen := make(map[int]bool)
	for _, row := range g.Data {
		for _, v := range row {
			if v == g.NoData {
				continue
			}
			seen[int(math.Round(v))] = true
		}
	}
	ids := make([]int, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// tracePolygons runs marching squares on the binary mask (cell == id) at
// the half level and converts each closed loop to a map-coordinate
// polygon.
func tracePolygons(g *grid.Grid, id int) []geom.Polygon {
	mask := make([]float64, g.NRows*g.NCols)
	for r, row := range g.Data {
		for c, v := range row {
			if v != g.NoData && int(math.Round(v)) == id {
				mask[r*g.NCols+c] = 1
			}
		}
	}
	m := contourmap.FromFloat64s(g.NCols, g.NRows, mask).Closed()
	contours := m.Contours(0.5)

	polys := make([]geom.Polygon, 0, len(contours))
	for _, contour := range contours {
		if len(contour) < 3 {
			continue
		}
		ring := make([]geom.Point, 0, len(contour))
		for _, pt := range contour {
			// Contour coordinates are fractional (col, row) indices in the
			// closed map's frame, which pads the grid by one cell on every
			// side; integer positions minus that pad sit on pixel centers.
			x := g.XLLCorner + (pt.X-0.5)*g.CellSize
			y := g.YLLCorner + (float64(g.NRows)-pt.Y+0.5)*g.CellSize
			ring = append(ring, geom.Point{X: x, Y: y})
		}
		polys = append(polys, geom.Polygon{ring})
	}
	return polys
}

func filterByArea(polys []geom.Polygon, minArea float64) []geom.Polygon {
	if minArea <= 0 {
		return polys
	}
	out := polys[:0]
	for _, p := range polys {
		if math.Abs(p.Area()) > minArea {
			out = append(out, p)
		}
	}
	return out
}

// simplifyPolygon reduces vertex count where the geometry library supports
// it, otherwise returns the polygon unchanged.
func simplifyPolygon(p geom.Polygon, tol float64) geom.Polygon {
	type simplifier interface {
		Simplify(tolerance float64) geom.Geom
	}
	var g geom.Geom = p
	s, ok := g.(simplifier)
	if !ok {
		return p
	}
	switch sp := s.Simplify(tol).(type) {
	case geom.Polygon:
		if len(sp) > 0 && len(sp[0]) >= 3 {
			return sp
		}
	}
	return p
}

// buildDonuts reconstructs polygons-with-holes from the flat loop list and
// collects them into one (possibly multi-part) geometry. Candidates are
// sorted by descending area first so an outer loop is always consumed
// before the holes nested inside it.
func buildDonuts(polys []geom.Polygon) geom.Polygonal {
	if len(polys) == 0 {
		return nil
	}
	sort.Slice(polys, func(i, j int) bool {
		return math.Abs(polys[i].Area()) > math.Abs(polys[j].Area())
	})

	var donuts []geom.Polygonal
	remaining := polys
	for len(remaining) > 0 {
		outer := remaining[0]
		remaining = remaining[1:]

		var donut geom.Polygonal = outer
		keep := remaining[:0]
		for _, cand := range remaining {
			if polygonContains(outer, cand) {
				donut = donut.Difference(cand)
			} else {
				keep = append(keep, cand)
			}
		}
		remaining = keep
		donuts = append(donuts, donut)
	}

	if len(donuts) == 1 {
		return donuts[0]
	}
	// Disjoint donuts stay distinct parts; a Union would splice the second
	// donut's rings into the first polygon as siblings.
	var mp geom.MultiPolygon
	for _, d := range donuts {
		mp = append(mp, d.Polygons()...)
	}
	return mp
}

// polygonContains reports whether inner lies inside outer. Trace loops of
// one id never partially overlap, so testing a single vertex is exact.
func polygonContains(outer geom.Polygon, inner geom.Polygon) bool {
	if len(inner) == 0 || len(inner[0]) == 0 {
		return false
	}
	return inner[0][0].Within(outer) == geom.Inside
}
