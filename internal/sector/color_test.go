package sector

import (
	"errors"
	"strings"
	"testing"

	"github.com/glideline-data/reach.report/internal/progress"
)

func TestBufferedNeighbors(t *testing.T) {
	a := square(0, 0, 2)
	b := square(5, 0, 2) // gap of 3 between boundaries
	if bufferedNeighbors(a, b, 1) {
		t.Error("gap 3, buffers 1+1: should not touch")
	}
	if !bufferedNeighbors(a, b, 1.6) {
		t.Error("gap 3, buffers 1.6+1.6: should touch")
	}
	if !bufferedNeighbors(a, square(1, 1, 2), 0) {
		t.Error("overlapping squares must be neighbors at zero buffer")
	}
	if !bufferedNeighbors(square(0, 0, 10), square(4, 4, 1), 0) {
		t.Error("containment must count as adjacency")
	}
}

func TestAssignColorsValid(t *testing.T) {
	// A 4-cycle: 2-colorable.
	adj := [][]int{{1, 3}, {0, 2}, {1, 3}, {0, 2}}
	colors, err := assignColors(adj, 2, 1000)
	if err != nil {
		t.Fatalf("assignColors: %v", err)
	}
	for u, nbs := range adj {
		for _, v := range nbs {
			if colors[u] == colors[v] {
				t.Fatalf("adjacent nodes %d,%d share color %d", u, v, colors[u])
			}
		}
	}
}

func TestAssignColorsBudgetExhausted(t *testing.T) {
	// Complete graph K4 needs 4 colors; with 3 the search must fail, and a
	// one-attempt budget fails immediately.
	adj := [][]int{{1, 2, 3}, {0, 2, 3}, {0, 1, 3}, {0, 1, 2}}
	if _, err := assignColors(adj, 3, 1); !errors.Is(err, ErrBudgetExhausted) {
		t.Fatalf("want ErrBudgetExhausted, got %v", err)
	}
	if _, err := assignColors(adj, 3, 1_000_000); !errors.Is(err, ErrBudgetExhausted) {
		t.Fatalf("uncolorable graph must surface as exhausted budget, got %v", err)
	}
}

func TestAssignColorsGreedyOverflows(t *testing.T) {
	// K4 with a 2-color palette: greedy must allocate beyond the palette
	// rather than fail.
	adj := [][]int{{1, 2, 3}, {0, 2, 3}, {0, 1, 3}, {0, 1, 2}}
	colors := map[int]int{}
	assignColorsGreedy(adj, 2, colors)
	if len(colors) != 4 {
		t.Fatalf("greedy left nodes uncolored: %v", colors)
	}
	beyond := 0
	for _, c := range colors {
		if c >= 2 {
			beyond++
		}
	}
	if beyond == 0 {
		t.Fatal("expected overflow colors beyond the palette")
	}
}

func TestColorEndToEnd(t *testing.T) {
	// Four squares in a row, 1 apart; buffer 1 chains each to the next.
	feats := []*Feature{
		{SectorID: 0, Geom: square(0, 0, 2)},
		{SectorID: 1, Geom: square(3, 0, 2)},
		{SectorID: 2, Geom: square(6, 0, 2)},
		{SectorID: 3, Geom: square(9, 0, 2)},
	}
	fallback := Color(feats, ColorOptions{Palette: 3, Buffer: 1})
	if fallback {
		t.Fatal("chain of four is trivially 3-colorable, fallback unexpected")
	}
	for i := 0; i < 3; i++ {
		if feats[i].Color == feats[i+1].Color {
			t.Errorf("neighbors %d,%d share color %d", i, i+1, feats[i].Color)
		}
	}
	for _, f := range feats {
		if f.Color < 0 || f.Color > 2 {
			t.Errorf("sector %d color %d outside palette", f.SectorID, f.Color)
		}
	}
}

func TestColorFallbackIsLogged(t *testing.T) {
	// Four mutually-adjacent squares (pairwise within buffer reach) with a
	// 3-color palette and a tiny budget force the fallback path.
	feats := []*Feature{
		{SectorID: 0, Geom: square(0, 0, 1)},
		{SectorID: 1, Geom: square(1.5, 0, 1)},
		{SectorID: 2, Geom: square(0, 1.5, 1)},
		{SectorID: 3, Geom: square(1.5, 1.5, 1)},
	}
	var logged []string
	sink := progress.Sink(func(format string, args ...interface{}) {
		logged = append(logged, format)
	})
	fallback := Color(feats, ColorOptions{Palette: 3, Buffer: 2, MaxAttempts: 2, Progress: sink})
	if !fallback {
		t.Fatal("expected greedy fallback with budget 2 on K4")
	}
	found := false
	for _, msg := range logged {
		if strings.Contains(msg, "greedy") {
			found = true
		}
	}
	if !found {
		t.Fatalf("fallback degradation was not logged: %v", logged)
	}
	for _, f := range feats {
		if f.Color < 0 {
			t.Errorf("sector %d left uncolored", f.SectorID)
		}
	}
}
