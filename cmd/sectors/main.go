// Command sectors vectorizes a provenance grid into colored GeoJSON
// polygons: one donut polygon per source, colored so that touching
// sectors never share a color.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/glideline-data/reach.report/internal/config"
	"github.com/glideline-data/reach.report/internal/grid"
	"github.com/glideline-data/reach.report/internal/sector"
)

func main() {
	var sectorsPath string
	var outPath string
	var configPath string
	var crsProj4 string

	flag.StringVar(&sectorsPath, "sectors", "sectors.asc", "provenance grid from the fuse step")
	flag.StringVar(&outPath, "out", "sectors.geojson", "GeoJSON output path")
	flag.StringVar(&configPath, "config", "", "pipeline config JSON (optional)")
	flag.StringVar(&crsProj4, "crs", "", "proj4 CRS of the grid; output is reprojected to WGS84 when set")
	flag.Parse()

	cfg := config.EmptyPipelineConfig()
	if configPath != "" {
		var err error
		cfg, err = config.LoadPipelineConfig(configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
	}

	g, err := grid.ReadFile(sectorsPath)
	if err != nil {
		log.Fatalf("read sectors grid: %v", err)
	}

	features, err := sector.Extract(g, sector.Options{
		// The provenance grid is geographic, so areas are in square degrees.
		MinArea:     cfg.GetMinSectorArea(),
		SimplifyTol: cfg.GetSimplifyTolerance(),
		Progress:    log.Printf,
	})
	if err != nil {
		log.Fatalf("extract sectors: %v", err)
	}

	buffer := cfg.GetAdjacencyBuffer()
	if buffer == 0 {
		buffer = g.CellSize
	}
	fallback := sector.Color(features, sector.ColorOptions{
		Palette:     cfg.GetPaletteSize(),
		Buffer:      buffer,
		MaxAttempts: cfg.GetColoringAttempts(),
		Progress:    log.Printf,
	})
	if fallback {
		log.Printf("coloring fell back to greedy assignment")
	}

	if err := sector.WriteGeoJSON(features, outPath, crsProj4); err != nil {
		log.Fatalf("write geojson: %v", err)
	}

	fmt.Printf("wrote %d sectors to %s\n", len(features), outPath)
}
