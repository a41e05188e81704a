package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/glideline-data/reach.report/internal/grid"
)

func testGrids() (*grid.Grid, *grid.Grid) {
	h := grid.Header{NCols: 4, NRows: 4, XLLCorner: 0, YLLCorner: 0, CellSize: 1, NoData: -9999}
	fused := grid.New(h)
	sectors := grid.New(h)
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			fused.Data[r][c] = float64(100 + 10*r + c)
			sectors.Data[r][c] = float64(c % 2)
		}
	}
	fused.Data[0][0] = h.NoData
	sectors.Data[0][0] = h.NoData
	return fused, sectors
}

func TestWriteReport(t *testing.T) {
	fused, sectors := testGrids()
	path := filepath.Join(t.TempDir(), "report.html")

	if err := Write(fused, sectors, []string{"meadow", "strip"}, path); err != nil {
		t.Fatalf("Write: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	html := string(raw)
	if !strings.Contains(html, "Minimum arrival altitude") {
		t.Error("report is missing the altitude histogram")
	}
	if !strings.Contains(html, "Winning source per cell") {
		t.Error("report is missing the source counts chart")
	}
	if !strings.Contains(html, "meadow") {
		t.Error("report does not label sources by name")
	}
}

func TestWriteReportAllNoData(t *testing.T) {
	h := grid.Header{NCols: 2, NRows: 2, XLLCorner: 0, YLLCorner: 0, CellSize: 1, NoData: -9999}
	fused := grid.New(h)
	sectors := grid.New(h)
	path := filepath.Join(t.TempDir(), "report.html")

	if err := Write(fused, sectors, nil, path); err == nil {
		t.Fatal("expected error for a grid with no valid cells")
	}
}

func TestSourceCountsUnnamedSource(t *testing.T) {
	_, sectors := testGrids()
	bar := sourceCounts(sectors, []string{"meadow"})
	if bar == nil {
		t.Fatal("nil chart")
	}
}
