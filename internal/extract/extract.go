// Package extract cuts a square terrain window around an airfield out of a
// geographic DEM and projects it onto a local transverse-Mercator grid,
// producing the projected.asc + crs.txt pair the per-airfield reachability
// computation consumes.
package extract

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/glideline-data/reach.report/internal/crs"
	"github.com/glideline-data/reach.report/internal/grid"
	"github.com/glideline-data/reach.report/internal/progress"
)

// DefaultCellSize is the projected window resolution in meters.
const DefaultCellSize = 100

// Options configures a window extraction.
type Options struct {
	// RadiusKm is the half-size of the square window. See RadiusKm for the
	// value derived from glide parameters.
	RadiusKm float64
	// CellSize is the projected cell size in meters. Zero means
	// DefaultCellSize.
	CellSize float64
	// NoData is the sentinel for cells outside the DEM. Zero value is
	// respected, so set it explicitly; the cmd uses -9999.
	NoData float64
	// Progress receives status lines. Nil discards them.
	Progress progress.Sink
}

// RadiusKm returns the window half-size that covers everywhere reachable
// from the given altitude at the given glide ratio, plus a margin.
func RadiusKm(glideRatio, maxAltitudeM float64) float64 {
	return glideRatio*maxAltitudeM/1000 + 1
}

// Window samples dem bilinearly onto a transverse-Mercator grid centered
// on the airfield. It returns the projected grid and the proj4 string of
// its CRS. Cells outside the DEM, or touching a no-data DEM cell, become
// no-data.
func Window(dem *grid.Grid, af Airfield, opts Options) (*grid.Grid, string, error) {
	cell := opts.CellSize
	if cell <= 0 {
		cell = DefaultCellSize
	}
	if opts.RadiusKm <= 0 {
		return nil, "", fmt.Errorf("window radius must be positive, got %g", opts.RadiusKm)
	}
	tm := crs.LocalTM(af.Lon, af.Lat)
	inv, err := crs.Transform(tm, crs.Geographic)
	if err != nil {
		return nil, "", err
	}

	radius := opts.RadiusKm * 1000
	n := int(math.Ceil(2 * radius / cell))
	out := grid.New(grid.Header{
		NCols:     n,
		NRows:     n,
		XLLCorner: -radius,
		YLLCorner: -radius,
		CellSize:  cell,
		NoData:    opts.NoData,
	})

	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			x, y := out.CellCenter(r, c)
			lon, lat, err := inv(x, y)
			if err != nil {
				return nil, "", fmt.Errorf("inverse transform cell (%d,%d): %w", r, c, err)
			}
			if v, ok := sampleBilinear(dem, lon, lat); ok {
				out.Data[r][c] = v
			}
		}
	}
	progress.Emit(opts.Progress, "extract: %s window %dx%d at %gm", af.Name, n, n, cell)
	return out, tm, nil
}

// WriteAirfieldFolder extracts the window for af and writes
// <dir>/<name>/projected.asc plus <dir>/<name>/crs.txt.
func WriteAirfieldFolder(dem *grid.Grid, af Airfield, opts Options, dir string) error {
	g, tm, err := Window(dem, af, opts)
	if err != nil {
		return fmt.Errorf("extract %s: %w", af.Name, err)
	}
	folder := filepath.Join(dir, af.Name)
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return err
	}
	if err := g.WriteFile(filepath.Join(folder, "projected.asc")); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(folder, "crs.txt"), []byte(tm+"\n"), 0o644)
}

// sampleBilinear interpolates dem at geographic (lon, lat). The second
// return is false outside the DEM or next to a no-data cell.
func sampleBilinear(dem *grid.Grid, lon, lat float64) (float64, bool) {
	top := dem.YLLCorner + float64(dem.NRows)*dem.CellSize
	fc := (lon-dem.XLLCorner)/dem.CellSize - 0.5
	fr := (top-lat)/dem.CellSize - 0.5

	c0 := int(math.Floor(fc))
	r0 := int(math.Floor(fr))
	if c0 < 0 || r0 < 0 || c0+1 >= dem.NCols || r0+1 >= dem.NRows {
		return 0, false
	}
	tx := fc - float64(c0)
	ty := fr - float64(r0)

	v00 := dem.Data[r0][c0]
	v01 := dem.Data[r0][c0+1]
	v10 := dem.Data[r0+1][c0]
	v11 := dem.Data[r0+1][c0+1]
	if dem.IsNoData(v00) || dem.IsNoData(v01) || dem.IsNoData(v10) || dem.IsNoData(v11) {
		return 0, false
	}
	return (1-ty)*((1-tx)*v00+tx*v01) + ty*((1-tx)*v10+tx*v11), true
}
