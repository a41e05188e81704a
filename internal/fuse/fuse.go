// Package fuse composites many same-CRS reachability grids into one global
// grid under minimum-wins semantics, recording per-cell provenance.
//
// Smaller values mean "closer/better", so across all sources covering a
// cell the smallest non-no-data value is kept, and a parallel provenance
// grid records the index of the source that supplied it. Provenance ids
// follow the order of the sources slice; callers that need reproducible
// sector ids must pass a stably ordered slice.
package fuse

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/glideline-data/reach.report/internal/grid"
	"github.com/glideline-data/reach.report/internal/progress"
)

// ErrNoSources means no source grid could contribute to the fusion, so no
// global output would be meaningful.
var ErrNoSources = errors.New("no usable fusion sources")

// Source is one contributing grid.
type Source struct {
	ID   string // stable identifier, typically the airfield name
	Path string // grid file location
}

// Placement records where a source landed in the global grid, or why it
// was left out. A skipped source never aborts the fusion.
type Placement struct {
	Source
	Index   int // provenance id of this source
	RowOff  int
	ColOff  int
	Skipped bool
	Reason  string
}

// Options configures a fusion.
type Options struct {
	// Bounds, when non-nil, clips the global extent to these pixel-center
	// bounds. Sources falling wholly or partly outside are skipped.
	Bounds *grid.Extent
	// Progress receives status lines. Nil discards them.
	Progress progress.Sink
}

// Result is the output of one fusion pass.
type Result struct {
	Fused      *grid.Grid // minimum-wins composite
	Sectors    *grid.Grid // provenance id per cell, no-data where no source won
	Placements []Placement
}

// Fuse merges the sources into one global grid plus its provenance grid.
//
// Source files are streamed row by row, so peak memory is the two global
// grids plus one row buffer. Per-source failures (unreadable file,
// mismatched cell size, out-of-bounds placement) downgrade to a logged
// skip; Fuse only fails when no source at all was usable.
func Fuse(sources []Source, opts Options) (*Result, error) {
	if len(sources) == 0 {
		return nil, ErrNoSources
	}

	placements := make([]Placement, len(sources))
	headers := make([]grid.Header, len(sources))
	for i, src := range sources {
		placements[i] = Placement{Source: src, Index: i}
		h, err := grid.ReadHeaderFile(src.Path)
		if err != nil {
			placements[i].Skipped = true
			placements[i].Reason = fmt.Sprintf("read header: %v", err)
			progress.Emit(opts.Progress, "fuse: skipping %s: %s", src.ID, placements[i].Reason)
			continue
		}
		headers[i] = h
	}

	// The first readable source fixes the shared cell size and the global
	// no-data sentinel.
	ref := -1
	for i := range sources {
		if !placements[i].Skipped {
			ref = i
			break
		}
	}
	if ref < 0 {
		return nil, ErrNoSources
	}
	cellSize := headers[ref].CellSize
	noData := headers[ref].NoData

	var ext grid.Extent
	first := true
	for i := range sources {
		if placements[i].Skipped {
			continue
		}
		if relDiff(headers[i].CellSize, cellSize) > 1e-9 {
			placements[i].Skipped = true
			placements[i].Reason = fmt.Sprintf("cellsize %g does not match %g", headers[i].CellSize, cellSize)
			progress.Emit(opts.Progress, "fuse: skipping %s: %s", sources[i].ID, placements[i].Reason)
			continue
		}
		if first {
			ext = headers[i].CenterExtent()
			first = false
		} else {
			ext = ext.Union(headers[i].CenterExtent())
		}
	}
	if first {
		return nil, ErrNoSources
	}
	if opts.Bounds != nil {
		ext = snapToLattice(ext, *opts.Bounds, cellSize)
		if ext.Empty() {
			return nil, fmt.Errorf("%w: bounds exclude every source", ErrNoSources)
		}
	}

	ncols := int(math.Round((ext.MaxX-ext.MinX)/cellSize)) + 1
	nrows := int(math.Round((ext.MaxY-ext.MinY)/cellSize)) + 1
	h := grid.Header{
		NCols:     ncols,
		NRows:     nrows,
		XLLCorner: ext.MinX - cellSize/2,
		YLLCorner: ext.MinY - cellSize/2,
		CellSize:  cellSize,
		NoData:    noData,
	}
	fused := grid.New(h)
	sectors := grid.New(h)
	progress.Emit(opts.Progress, "fuse: global grid %dx%d origin (%g, %g)", ncols, nrows, h.XLLCorner, h.YLLCorner)

	merged := 0
	for i, src := range sources {
		if placements[i].Skipped {
			continue
		}
		sh := headers[i]
		se := sh.CenterExtent()
		colOff := int(math.Round((se.MinX - ext.MinX) / cellSize))
		rowOff := int(math.Round((ext.MaxY - se.MaxY) / cellSize))
		if colOff < 0 || rowOff < 0 || colOff+sh.NCols > ncols || rowOff+sh.NRows > nrows {
			placements[i].Skipped = true
			placements[i].Reason = fmt.Sprintf("placement (%d,%d) size %dx%d outside global %dx%d",
				rowOff, colOff, sh.NRows, sh.NCols, nrows, ncols)
			progress.Emit(opts.Progress, "fuse: skipping %s: %s", src.ID, placements[i].Reason)
			continue
		}
		placements[i].RowOff = rowOff
		placements[i].ColOff = colOff

		if err := mergeSource(src, sh, i, fused, sectors, rowOff, colOff); err != nil {
			placements[i].Skipped = true
			placements[i].Reason = err.Error()
			progress.Emit(opts.Progress, "fuse: skipping %s: %v", src.ID, err)
			continue
		}
		merged++
		progress.Emit(opts.Progress, "fuse: merged %s at (%d,%d)", src.ID, rowOff, colOff)
	}
	if merged == 0 {
		return nil, ErrNoSources
	}

	// Zero is a boundary marker, never a meaningful merged reachability
	// value; missing must never be represented by 0 either.
	for r := range fused.Data {
		for c := range fused.Data[r] {
			if fused.Data[r][c] == 0 {
				fused.Data[r][c] = noData
			}
		}
	}

	return &Result{Fused: fused, Sectors: sectors, Placements: placements}, nil
}

// mergeSource streams one source grid into the global grids.
func mergeSource(src Source, sh grid.Header, index int, fused, sectors *grid.Grid, rowOff, colOff int) error {
	f, err := os.Open(src.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = grid.ReadRows(f, func(row int, values []float64) error {
		gr := rowOff + row
		fRow := fused.Data[gr]
		sRow := sectors.Data[gr]
		for c, v := range values {
			if v == sh.NoData {
				continue
			}
			gc := colOff + c
			cur := fRow[gc]
			if cur != fused.NoData && v >= cur {
				continue
			}
			fRow[gc] = v
			if v == 0 {
				// The ground/boundary marker is excluded from sectors.
				sRow[gc] = sectors.NoData
			} else {
				sRow[gc] = float64(index)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("stream %s: %w", src.Path, err)
	}
	return nil
}

// snapToLattice clips ext to bounds, keeping the result on the
// pixel-center lattice anchored at ext.MinX/MinY so integer placement
// offsets survive the clip.
func snapToLattice(ext, bounds grid.Extent, cellSize float64) grid.Extent {
	out := ext
	if bounds.MinX > ext.MinX {
		out.MinX = ext.MinX + cellSize*math.Ceil((bounds.MinX-ext.MinX)/cellSize)
	}
	if bounds.MinY > ext.MinY {
		out.MinY = ext.MinY + cellSize*math.Ceil((bounds.MinY-ext.MinY)/cellSize)
	}
	if bounds.MaxX < ext.MaxX {
		out.MaxX = ext.MinX + cellSize*math.Floor((bounds.MaxX-ext.MinX)/cellSize)
	}
	if bounds.MaxY < ext.MaxY {
		out.MaxY = ext.MinY + cellSize*math.Floor((bounds.MaxY-ext.MinY)/cellSize)
	}
	return out
}

func relDiff(a, b float64) float64 {
	d := math.Abs(a - b)
	m := math.Max(math.Abs(a), math.Abs(b))
	if m == 0 {
		return 0
	}
	return d / m
}
