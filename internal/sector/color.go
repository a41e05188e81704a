package sector

import (
	"errors"

	"github.com/ctessum/geom"

	"github.com/glideline-data/reach.report/internal/progress"
)

// ErrBudgetExhausted reports that backtracking hit its attempt ceiling
// before finding a complete valid coloring. Color recovers from it with a
// greedy pass; it reaches callers only through assignColors.
var ErrBudgetExhausted = errors.New("coloring attempt budget exhausted")

// ColorOptions configures sector coloring.
type ColorOptions struct {
	// Palette is the number of colors K; assignments are 0..K-1 unless the
	// greedy fallback has to allocate beyond the palette. Zero means 7.
	Palette int
	// Buffer is the outward expansion, in raster coordinate units, applied
	// to each geometry for the adjacency test.
	Buffer float64
	// MaxAttempts bounds the backtracking search. Zero means 10000.
	MaxAttempts int
	// Progress receives status lines. Nil discards them.
	Progress progress.Sink
}

// Color assigns a color id to every feature so buffered neighbors differ,
// falling back to a greedy pass if the backtracking budget runs out. The
// fallback may reuse a neighbor's color or allocate colors beyond the
// palette; that degradation is logged, never fatal. Returns true when the
// fallback was taken.
func Color(features []*Feature, opts ColorOptions) bool {
	k := opts.Palette
	if k <= 0 {
		k = 7
	}
	maxAttempts := opts.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 10000
	}

	geoms := make([]geom.Polygonal, len(features))
	for i, f := range features {
		geoms[i] = f.Geom
	}
	adj := buildAdjacency(geoms, opts.Buffer)

	colors, err := assignColors(adj, k, maxAttempts)
	fallback := false
	if err != nil {
		fallback = true
		progress.Emit(opts.Progress, "sector: %v; falling back to greedy coloring (adjacent sectors may share a color)", err)
		assignColorsGreedy(adj, k, colors)
	}
	for i, f := range features {
		f.Color = colors[i]
	}
	return fallback
}

// buildAdjacency returns, for each geometry, the indices of its buffered
// neighbors.
func buildAdjacency(geoms []geom.Polygonal, buffer float64) [][]int {
	adj := make([][]int, len(geoms))
	for i := 0; i < len(geoms); i++ {
		for j := i + 1; j < len(geoms); j++ {
			if bufferedNeighbors(geoms[i], geoms[j], buffer) {
				adj[i] = append(adj[i], j)
				adj[j] = append(adj[j], i)
			}
		}
	}
	return adj
}

// assignColors searches for a complete valid K-coloring by depth-first
// backtracking. On ErrBudgetExhausted the returned map holds the partial
// assignment reached when the budget ran out.
func assignColors(adj [][]int, k, maxAttempts int) (map[int]int, error) {
	colors := make(map[int]int, len(adj))
	attempts := 0

	var place func(node int) (bool, error)
	place = func(node int) (bool, error) {
		attempts++
		if attempts > maxAttempts {
			return false, ErrBudgetExhausted
		}
		if node == len(adj) {
			return true, nil
		}
		for color := 0; color < k; color++ {
			if !colorSafe(adj, colors, node, color) {
				continue
			}
			colors[node] = color
			ok, err := place(node + 1)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
			delete(colors, node) // backtrack
		}
		return false, nil
	}

	ok, err := place(0)
	if err != nil {
		return colors, err
	}
	if !ok {
		// The graph genuinely has no K-coloring within the budget walked;
		// treat like an exhausted budget so the fallback completes it.
		return colors, ErrBudgetExhausted
	}
	return colors, nil
}

func colorSafe(adj [][]int, colors map[int]int, node, color int) bool {
	for _, nb := range adj[node] {
		if c, ok := colors[nb]; ok && c == color {
			return false
		}
	}
	return true
}

// assignColorsGreedy completes a partial coloring: each uncolored node
// takes any palette color unused by already-colored neighbors, or a fresh
// color beyond the palette when none is free.
func assignColorsGreedy(adj [][]int, k int, colors map[int]int) {
	next := k // first overflow color
	for _, c := range colors {
		if c >= next {
			next = c + 1
		}
	}
	for node := range adj {
		if _, ok := colors[node]; ok {
			continue
		}
		forbidden := make(map[int]bool, len(adj[node]))
		for _, nb := range adj[node] {
			if c, ok := colors[nb]; ok {
				forbidden[c] = true
			}
		}
		assigned := false
		for c := 0; c < k; c++ {
			if !forbidden[c] {
				colors[node] = c
				assigned = true
				break
			}
		}
		if !assigned {
			colors[node] = next
			next++
		}
	}
}
