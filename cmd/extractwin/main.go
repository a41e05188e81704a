// Command extractwin cuts a projected terrain window out of a geographic
// DEM for every airfield in a CSV list. Each airfield gets a folder with
// projected.asc and crs.txt under the output directory.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/glideline-data/reach.report/internal/config"
	"github.com/glideline-data/reach.report/internal/extract"
	"github.com/glideline-data/reach.report/internal/grid"
)

func main() {
	var demPath string
	var airfieldsPath string
	var outDir string
	var configPath string

	flag.StringVar(&demPath, "dem", "", "geographic DEM in ASCII grid format")
	flag.StringVar(&airfieldsPath, "airfields", "airfields.csv", "airfield list (name,lon,lat)")
	flag.StringVar(&outDir, "out", "airfields", "output directory")
	flag.StringVar(&configPath, "config", "", "pipeline config JSON (optional)")
	flag.Parse()

	if demPath == "" {
		log.Fatalf("a DEM must be provided with -dem")
	}

	cfg := config.EmptyPipelineConfig()
	if configPath != "" {
		var err error
		cfg, err = config.LoadPipelineConfig(configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
	}

	airfields, err := extract.ReadAirfields(airfieldsPath)
	if err != nil {
		log.Fatalf("read airfields: %v", err)
	}

	dem, err := grid.ReadFile(demPath)
	if err != nil {
		log.Fatalf("read DEM: %v", err)
	}

	opts := extract.Options{
		RadiusKm: extract.RadiusKm(cfg.GetGlideRatio(), cfg.GetMaxAltitudeM()),
		CellSize: cfg.GetExtractCellSizeM(),
		NoData:   cfg.GetNoDataValue(),
		Progress: log.Printf,
	}

	for _, af := range airfields {
		if err := extract.WriteAirfieldFolder(dem, af, opts, outDir); err != nil {
			log.Fatalf("extract %s: %v", af.Name, err)
		}
		fmt.Printf("extracted %s (%.1f km radius)\n", af.Name, opts.RadiusKm)
	}

	fmt.Printf("extracted %d airfields into %s\n", len(airfields), outDir)
}
