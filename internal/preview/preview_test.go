package preview

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/glideline-data/reach.report/internal/grid"
)

func testGrid() *grid.Grid {
	g := grid.New(grid.Header{NCols: 6, NRows: 4, XLLCorner: 10, YLLCorner: 40, CellSize: 0.5, NoData: -9999})
	for r := range g.Data {
		for c := range g.Data[r] {
			g.Data[r][c] = float64(r*10 + c)
		}
	}
	g.Data[1][1] = g.NoData
	return g
}

func TestGridXYZ(t *testing.T) {
	q := gridXYZ{testGrid()}

	cols, rows := q.Dims()
	if cols != 6 || rows != 4 {
		t.Fatalf("Dims() = (%d, %d), want (6, 4)", cols, rows)
	}

	// Plot row 0 is the southernmost grid row, row 3 the northernmost.
	if got := q.Z(0, 0); got != 30 {
		t.Errorf("Z(0, 0) = %g, want 30", got)
	}
	if got := q.Z(2, 3); got != 2 {
		t.Errorf("Z(2, 3) = %g, want 2", got)
	}
	if got := q.Z(1, 2); !math.IsNaN(got) {
		t.Errorf("Z at no-data cell = %g, want NaN", got)
	}

	if got := q.X(0); got != 10.25 {
		t.Errorf("X(0) = %g, want 10.25", got)
	}
	if got := q.Y(0); got != 40.25 {
		t.Errorf("Y(0) = %g, want 40.25", got)
	}
	if got := q.Y(3); got != 41.75 {
		t.Errorf("Y(3) = %g, want 41.75", got)
	}
}

func TestSaveWritesPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preview.png")
	if err := Save(testGrid(), "merged", path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat preview: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("preview file is empty")
	}
}

func TestSaveEmptyGrid(t *testing.T) {
	g := &grid.Grid{}
	if err := Save(g, "empty", filepath.Join(t.TempDir(), "x.png")); err == nil {
		t.Fatal("expected error for empty grid")
	}
}
