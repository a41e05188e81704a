// Command gridpreview renders an ASCII grid as a heatmap PNG.
package main

import (
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/glideline-data/reach.report/internal/grid"
	"github.com/glideline-data/reach.report/internal/preview"
)

func main() {
	var inPath string
	var outPath string
	var title string

	flag.StringVar(&inPath, "in", "", "ASCII grid to render")
	flag.StringVar(&outPath, "out", "", "PNG output path (default: input with .png extension)")
	flag.StringVar(&title, "title", "", "plot title (default: input file name)")
	flag.Parse()

	if inPath == "" {
		log.Fatalf("an input grid must be provided with -in")
	}
	if outPath == "" {
		outPath = strings.TrimSuffix(inPath, filepath.Ext(inPath)) + ".png"
	}
	if title == "" {
		title = filepath.Base(inPath)
	}

	g, err := grid.ReadFile(inPath)
	if err != nil {
		log.Fatalf("read grid: %v", err)
	}

	if err := preview.Save(g, title, outPath); err != nil {
		log.Fatalf("render preview: %v", err)
	}

	fmt.Printf("wrote %s (%dx%d cells)\n", outPath, g.NCols, g.NRows)
}
