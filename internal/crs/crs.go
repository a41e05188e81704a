// Package crs wraps proj4-string parsing and coordinate transforms for the
// two reference systems the pipeline moves between: a locally-centered
// projected CRS per airfield and geographic WGS84.
package crs

import (
	"fmt"
	"os"
	"strings"

	"github.com/ctessum/geom/proj"
)

// Geographic is the proj4 string for the pipeline's geographic CRS.
const Geographic = "+proj=longlat +datum=WGS84 +no_defs"

// LocalTM returns a transverse-Mercator CRS centered on (lon, lat), the
// projection each airfield's terrain window is computed in.
func LocalTM(lon, lat float64) string {
	return fmt.Sprintf("+proj=tmerc +lat_0=%f +lon_0=%f +k=1 +x_0=0 +y_0=0 +ellps=WGS84 +units=m +no_defs", lat, lon)
}

// Transform returns a point transform from srcProj4 to dstProj4.
func Transform(srcProj4, dstProj4 string) (proj.Transformer, error) {
	src, err := proj.Parse(srcProj4)
	if err != nil {
		return nil, fmt.Errorf("parse source CRS %q: %w", srcProj4, err)
	}
	dst, err := proj.Parse(dstProj4)
	if err != nil {
		return nil, fmt.Errorf("parse target CRS %q: %w", dstProj4, err)
	}
	t, err := src.NewTransform(dst)
	if err != nil {
		return nil, fmt.Errorf("build transform: %w", err)
	}
	return t, nil
}

// ReadFile reads a proj4 CRS string from a one-line file, the crs.txt each
// airfield folder carries next to its grids.
func ReadFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	s := strings.TrimSpace(string(b))
	if s == "" {
		return "", fmt.Errorf("%s: empty CRS file", path)
	}
	return s, nil
}
