// Package preview renders a grid as a heatmap PNG for quick visual
// inspection of intermediate pipeline outputs.
package preview

import (
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/glideline-data/reach.report/internal/grid"
)

// gridXYZ adapts a grid to the plotter.GridXYZ interface. No-data cells
// surface as NaN so the heatmap leaves them blank.
type gridXYZ struct {
	g *grid.Grid
}

func (q gridXYZ) Dims() (int, int) { return q.g.NCols, q.g.NRows }

func (q gridXYZ) Z(c, r int) float64 {
	// Plot rows run south to north; grid rows run north to south.
	v := q.g.Data[q.g.NRows-1-r][c]
	if q.g.IsNoData(v) {
		return math.NaN()
	}
	return v
}

func (q gridXYZ) X(c int) float64 {
	x, _ := q.g.CellCenter(0, c)
	return x
}

func (q gridXYZ) Y(r int) float64 {
	_, y := q.g.CellCenter(q.g.NRows-1-r, 0)
	return y
}

// Save renders g as a heatmap PNG at the given path.
func Save(g *grid.Grid, title, path string) error {
	if g.NCols == 0 || g.NRows == 0 {
		return fmt.Errorf("cannot preview an empty grid")
	}

	pal := palette.Heat(12, 1)
	hm := plotter.NewHeatMap(gridXYZ{g}, pal)

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"
	p.Add(hm)

	width := 8 * vg.Inch
	height := width * vg.Length(g.NRows) / vg.Length(g.NCols)
	if err := p.Save(width, height, path); err != nil {
		return fmt.Errorf("failed to save preview: %w", err)
	}
	return nil
}
