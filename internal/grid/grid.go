// Package grid implements the ASCII grid interchange format used between
// every stage of the reachability pipeline: a six-line header (ncols, nrows,
// xllcorner, yllcorner, cellsize, NODATA_value) followed by one line of
// whitespace-separated cell values per row, row 0 being the northernmost.
//
// Cell (row, col) covers the square whose center is at
//
//	x = XLLCorner + (col+0.5)*CellSize
//	y = YLLCorner + (NRows-row-0.5)*CellSize
package grid

// Header describes the shape and georeferencing of a grid. XLLCorner and
// YLLCorner are the coordinates of the lower-left corner of the lower-left
// cell, not of its center.
type Header struct {
	NCols     int
	NRows     int
	XLLCorner float64
	YLLCorner float64
	CellSize  float64
	NoData    float64
}

// Grid is a header plus its cell matrix. Data[0] is the northernmost row.
type Grid struct {
	Header
	Data [][]float64
}

// Category classifies a cell value. The three categories carry distinct
// meaning through reprojection and fusion: a computed quantity, an explicit
// ground/boundary marker, and "never computed".
type Category int

const (
	CategoryValid Category = iota
	CategoryZero
	CategoryNoData
)

// Category returns the value category of v under this header's sentinel.
func (h Header) Category(v float64) Category {
	switch {
	case v == h.NoData:
		return CategoryNoData
	case v == 0:
		return CategoryZero
	default:
		return CategoryValid
	}
}

// IsNoData reports whether v is the no-data sentinel.
func (h Header) IsNoData(v float64) bool { return v == h.NoData }

// CellCenter returns the map coordinates of the center of cell (row, col).
func (h Header) CellCenter(row, col int) (x, y float64) {
	x = h.XLLCorner + (float64(col)+0.5)*h.CellSize
	y = h.YLLCorner + (float64(h.NRows)-float64(row)-0.5)*h.CellSize
	return x, y
}

// Extent is an axis-aligned bounding box over pixel-center coordinates.
type Extent struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// CenterExtent returns the extent spanned by the grid's pixel centers.
func (h Header) CenterExtent() Extent {
	return Extent{
		MinX: h.XLLCorner + 0.5*h.CellSize,
		MinY: h.YLLCorner + 0.5*h.CellSize,
		MaxX: h.XLLCorner + (float64(h.NCols)-0.5)*h.CellSize,
		MaxY: h.YLLCorner + (float64(h.NRows)-0.5)*h.CellSize,
	}
}

// Union grows e to cover o.
func (e Extent) Union(o Extent) Extent {
	if o.MinX < e.MinX {
		e.MinX = o.MinX
	}
	if o.MinY < e.MinY {
		e.MinY = o.MinY
	}
	if o.MaxX > e.MaxX {
		e.MaxX = o.MaxX
	}
	if o.MaxY > e.MaxY {
		e.MaxY = o.MaxY
	}
	return e
}

// Intersect clips e to o. The result may be empty; see Empty.
func (e Extent) Intersect(o Extent) Extent {
	if o.MinX > e.MinX {
		e.MinX = o.MinX
	}
	if o.MinY > e.MinY {
		e.MinY = o.MinY
	}
	if o.MaxX < e.MaxX {
		e.MaxX = o.MaxX
	}
	if o.MaxY < e.MaxY {
		e.MaxY = o.MaxY
	}
	return e
}

// Empty reports whether the extent covers no area.
func (e Extent) Empty() bool { return e.MinX > e.MaxX || e.MinY > e.MaxY }

// New allocates a grid for h with every cell set to the no-data sentinel.
func New(h Header) *Grid {
	g := &Grid{Header: h, Data: make([][]float64, h.NRows)}
	for r := range g.Data {
		row := make([]float64, h.NCols)
		for c := range row {
			row[c] = h.NoData
		}
		g.Data[r] = row
	}
	return g
}
