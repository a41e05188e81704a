package sector

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/ctessum/geom"
	"github.com/stretchr/testify/require"

	"github.com/glideline-data/reach.report/internal/grid"
)

func square(x, y, side float64) geom.Polygon {
	return geom.Polygon{{
		{X: x, Y: y},
		{X: x + side, Y: y},
		{X: x + side, Y: y + side},
		{X: x, Y: y + side},
	}}
}

// One large square plus one fully-contained smaller square of the same id
// must reconstruct to a single donut: one exterior ring, one interior
// ring, area = outer minus inner.
func TestBuildDonutsSquareWithHole(t *testing.T) {
	outer := square(0, 0, 10)
	inner := square(3, 3, 4)

	donut := buildDonuts([]geom.Polygon{inner, outer}) // order must not matter
	require.NotNil(t, donut)

	polys := donut.Polygons()
	require.Len(t, polys, 1, "expected a single polygon part")
	require.Len(t, polys[0], 2, "expected one exterior and one interior ring")
	require.InDelta(t, 100-16, math.Abs(donut.Area()), 1e-9)
}

func TestBuildDonutsDisjointStaysSeparate(t *testing.T) {
	a := square(0, 0, 2)
	b := square(10, 10, 2)
	u := buildDonuts([]geom.Polygon{a, b})
	require.NotNil(t, u)
	require.InDelta(t, 8, math.Abs(u.Area()), 1e-9)
	require.Len(t, u.Polygons(), 2)
}

// A single marked cell must trace to a loop centered on that cell's map
// center, with the loop confined to the cell's footprint. Guards the
// pad-aware index-to-map conversion.
func TestTracePolygonsGeoreference(t *testing.T) {
	g := grid.New(grid.Header{NCols: 6, NRows: 6, XLLCorner: 100, YLLCorner: 50, CellSize: 1, NoData: -9999})
	g.Data[2][3] = 1

	polys := tracePolygons(g, 1)
	require.Len(t, polys, 1)

	// Cell (row 2, col 3) spans x 103..104 and y 53..54, center (103.5, 53.5).
	b := polys[0].Bounds()
	require.InDelta(t, 103.5, (b.Min.X+b.Max.X)/2, 1e-9)
	require.InDelta(t, 53.5, (b.Min.Y+b.Max.Y)/2, 1e-9)
	require.GreaterOrEqual(t, b.Min.X, 103.0-1e-9)
	require.LessOrEqual(t, b.Max.X, 104.0+1e-9)
	require.GreaterOrEqual(t, b.Min.Y, 53.0-1e-9)
	require.LessOrEqual(t, b.Max.Y, 54.0+1e-9)
}

func sectorsGrid() *grid.Grid {
	g := grid.New(grid.Header{NCols: 12, NRows: 8, XLLCorner: 0, YLLCorner: 0, CellSize: 1, NoData: -9999})
	// Sector 0: 3x3 block. Sector 1: 3x3 block further east.
	for r := 2; r <= 4; r++ {
		for c := 1; c <= 3; c++ {
			g.Data[r][c] = 0
		}
		for c := 7; c <= 9; c++ {
			g.Data[r][c] = 1
		}
	}
	// Single-pixel noise that the area filter must drop.
	g.Data[6][5] = 0
	return g
}

func TestExtractTracesAndFilters(t *testing.T) {
	g := sectorsGrid()
	feats, err := Extract(g, Options{MinArea: 1.5, SimplifyTol: 0.01})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(feats) != 2 {
		t.Fatalf("got %d features, want 2", len(feats))
	}
	if feats[0].SectorID != 0 || feats[1].SectorID != 1 {
		t.Fatalf("sector ids = %d,%d want 0,1", feats[0].SectorID, feats[1].SectorID)
	}
	for _, f := range feats {
		area := math.Abs(f.Geom.Area())
		if area < 4 || area > 16 {
			t.Errorf("sector %d area %g outside the plausible band for a 3x3 block", f.SectorID, area)
		}
		// The noise pixel would have shown up as a second part of sector 0.
		if len(f.Geom.Polygons()) != 1 {
			t.Errorf("sector %d has %d parts, want 1", f.SectorID, len(f.Geom.Polygons()))
		}
	}
}

func TestExtractAllFiltered(t *testing.T) {
	g := sectorsGrid()
	_, err := Extract(g, Options{MinArea: 1e6})
	if err == nil {
		t.Fatal("expected error when every polygon is below the area threshold")
	}
}

func TestWriteGeoJSON(t *testing.T) {
	feats := []*Feature{
		{SectorID: 0, Geom: square(0, 0, 1), Color: 2},
		{SectorID: 3, Geom: square(5, 5, 1), Color: 0},
	}
	path := filepath.Join(t.TempDir(), "sectors.geojson")
	require.NoError(t, WriteGeoJSON(feats, path, ""))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	var fc struct {
		Type     string `json:"type"`
		Features []struct {
			Geometry struct {
				Type string `json:"type"`
			} `json:"geometry"`
			Properties map[string]float64 `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(b, &fc))
	require.Equal(t, "FeatureCollection", fc.Type)
	require.Len(t, fc.Features, 2)
	require.Equal(t, "Polygon", fc.Features[0].Geometry.Type)
	require.Equal(t, float64(2), fc.Features[0].Properties["color_id"])
	require.Equal(t, float64(3), fc.Features[1].Properties["id"])
}

// A sector made of two disjoint parts must serialize as a MultiPolygon
// with one polygon per part, never as one polygon with the second part
// demoted to an interior ring.
func TestWriteGeoJSONMultiPart(t *testing.T) {
	multi := buildDonuts([]geom.Polygon{square(0, 0, 2), square(10, 10, 2)})
	require.Len(t, multi.Polygons(), 2)

	path := filepath.Join(t.TempDir(), "multi.geojson")
	require.NoError(t, WriteGeoJSON([]*Feature{{SectorID: 0, Geom: multi}}, path, ""))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	var fc struct {
		Features []struct {
			Geometry struct {
				Type        string          `json:"type"`
				Coordinates [][][][]float64 `json:"coordinates"`
			} `json:"geometry"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(b, &fc))
	require.Len(t, fc.Features, 1)
	require.Equal(t, "MultiPolygon", fc.Features[0].Geometry.Type)
	require.Len(t, fc.Features[0].Geometry.Coordinates, 2)
	for _, part := range fc.Features[0].Geometry.Coordinates {
		require.Len(t, part, 1, "each disjoint part carries only its exterior ring")
	}
}
