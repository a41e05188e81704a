// Command warp reprojects per-airfield grids from their local CRS to
// geographic coordinates. For every airfield folder under the input
// directory it reads crs.txt and rewrites output_sub.asc as
// output_sub4326.asc (and local.asc as local4326.asc when present).
package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/glideline-data/reach.report/internal/config"
	"github.com/glideline-data/reach.report/internal/crs"
	"github.com/glideline-data/reach.report/internal/grid"
	"github.com/glideline-data/reach.report/internal/warp"
)

// warpTargets maps input file names to their reprojected counterparts.
var warpTargets = map[string]string{
	"output_sub.asc": "output_sub4326.asc",
	"local.asc":      "local4326.asc",
}

func main() {
	var dir string
	var configPath string

	flag.StringVar(&dir, "dir", "airfields", "directory of per-airfield folders")
	flag.StringVar(&configPath, "config", "", "pipeline config JSON (optional)")
	flag.Parse()

	cfg := config.EmptyPipelineConfig()
	if configPath != "" {
		var err error
		cfg, err = config.LoadPipelineConfig(configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Fatalf("read dir: %v", err)
	}

	var folders []string
	for _, e := range entries {
		if e.IsDir() {
			folders = append(folders, e.Name())
		}
	}
	sort.Strings(folders)

	var warped int
	for _, name := range folders {
		folder := filepath.Join(dir, name)
		n, err := warpFolder(folder, cfg.GetTargetCellSizeDeg())
		if err != nil {
			log.Fatalf("warp %s: %v", name, err)
		}
		warped += n
	}

	fmt.Printf("reprojected %d grids in %d folders\n", warped, len(folders))
}

// warpFolder reprojects the known grids in one airfield folder. Folders
// without a crs.txt are skipped silently so unrelated directories can sit
// next to airfield folders.
func warpFolder(folder string, cellSize float64) (int, error) {
	srcProj4, err := crs.ReadFile(filepath.Join(folder, "crs.txt"))
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	var warped int
	for in, out := range warpTargets {
		src, err := grid.ReadFile(filepath.Join(folder, in))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return warped, err
		}

		dst, err := warp.Reproject(src, srcProj4, warp.Options{
			TargetCellSize: cellSize,
			Progress:       log.Printf,
		})
		if err != nil {
			return warped, fmt.Errorf("%s: %w", in, err)
		}
		if err := dst.WriteFile(filepath.Join(folder, out)); err != nil {
			return warped, err
		}
		warped++
	}
	return warped, nil
}
