// Command fuse merges the reprojected per-airfield grids under a
// directory into one minimum-wins composite plus a provenance grid, and
// optionally records the run in a catalog database and renders an HTML
// report.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/glideline-data/reach.report/internal/catalog"
	"github.com/glideline-data/reach.report/internal/config"
	"github.com/glideline-data/reach.report/internal/fuse"
	"github.com/glideline-data/reach.report/internal/grid"
	"github.com/glideline-data/reach.report/internal/report"
	"github.com/glideline-data/reach.report/internal/version"
)

func main() {
	var dir string
	var mergedPath string
	var sectorsPath string
	var configPath string
	var catalogPath string
	var reportPath string
	var showVersion bool

	flag.StringVar(&dir, "dir", "airfields", "directory of per-airfield folders")
	flag.StringVar(&mergedPath, "merged", "merged.asc", "output path for the fused grid")
	flag.StringVar(&sectorsPath, "sectors", "sectors.asc", "output path for the provenance grid")
	flag.StringVar(&configPath, "config", "", "pipeline config JSON (optional)")
	flag.StringVar(&catalogPath, "catalog", "", "sqlite catalog to record the run in (optional)")
	flag.StringVar(&reportPath, "report", "", "HTML report output path (optional)")
	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Println(version.String())
		return
	}

	cfg := config.EmptyPipelineConfig()
	if configPath != "" {
		var err error
		cfg, err = config.LoadPipelineConfig(configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
	}

	sources, err := discoverSources(dir)
	if err != nil {
		log.Fatalf("discover sources: %v", err)
	}
	if len(sources) == 0 {
		log.Fatalf("no output_sub4326.asc files under %s", dir)
	}

	opts := fuse.Options{Progress: log.Printf}
	if cfg.FusionMinLon != nil {
		opts.Bounds = &grid.Extent{
			MinX: *cfg.FusionMinLon,
			MinY: *cfg.FusionMinLat,
			MaxX: *cfg.FusionMaxLon,
			MaxY: *cfg.FusionMaxLat,
		}
	}

	var cat *catalog.Catalog
	var runID string
	if catalogPath != "" {
		cat, err = catalog.NewCatalog(catalogPath)
		if err != nil {
			log.Fatalf("open catalog: %v", err)
		}
		defer cat.Close()
		runID, err = cat.CreateRun(dir)
		if err != nil {
			log.Fatalf("create run: %v", err)
		}
	}

	res, err := fuse.Fuse(sources, opts)
	if err != nil {
		if cat != nil {
			_ = cat.FinishRun(runID, "failed")
		}
		log.Fatalf("fuse: %v", err)
	}

	if err := res.Fused.WriteFile(mergedPath); err != nil {
		log.Fatalf("write merged grid: %v", err)
	}
	if err := res.Sectors.WriteFile(sectorsPath); err != nil {
		log.Fatalf("write sectors grid: %v", err)
	}

	if cat != nil {
		for _, p := range res.Placements {
			tile := catalog.Tile{
				RunID:   runID,
				Source:  p.ID,
				Path:    p.Path,
				RowOff:  p.RowOff,
				ColOff:  p.ColOff,
				Skipped: p.Skipped,
				Reason:  p.Reason,
			}
			if err := cat.RecordTile(tile); err != nil {
				log.Fatalf("record tile: %v", err)
			}
		}
		if err := cat.SetOutputs(runID, mergedPath, sectorsPath, ""); err != nil {
			log.Fatalf("set outputs: %v", err)
		}
		if err := cat.FinishRun(runID, "done"); err != nil {
			log.Fatalf("finish run: %v", err)
		}
	}

	if reportPath != "" {
		names := make([]string, len(sources))
		for i, s := range sources {
			names[i] = s.ID
		}
		if err := report.Write(res.Fused, res.Sectors, names, reportPath); err != nil {
			log.Fatalf("write report: %v", err)
		}
	}

	fmt.Printf("fused %d sources into %s (%dx%d)\n",
		len(sources), mergedPath, res.Fused.NCols, res.Fused.NRows)
}

// discoverSources finds <dir>/<airfield>/output_sub4326.asc files. The
// result is sorted by folder name so provenance ids are stable across
// runs.
func discoverSources(dir string) ([]fuse.Source, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var sources []fuse.Source
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name(), "output_sub4326.asc")
		if _, err := os.Stat(path); err != nil {
			continue
		}
		sources = append(sources, fuse.Source{ID: e.Name(), Path: path})
	}
	sort.Slice(sources, func(i, j int) bool { return sources[i].ID < sources[j].ID })
	return sources, nil
}
