package sector

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/proj"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/glideline-data/reach.report/internal/crs"
)

// WriteGeoJSON serializes the colored sectors as a GeoJSON
// FeatureCollection at path. When srcProj4 is non-empty the geometries are
// transformed from that CRS to geographic coordinates first; pass "" when
// the sectors raster was already geographic.
func WriteGeoJSON(features []*Feature, path, srcProj4 string) error {
	var t proj.Transformer
	if srcProj4 != "" {
		var err error
		t, err = crs.Transform(srcProj4, crs.Geographic)
		if err != nil {
			return err
		}
	}

	fc := geojson.NewFeatureCollection()
	for _, f := range features {
		g := f.Geom
		if t != nil {
			tg, err := g.Transform(t)
			if err != nil {
				return fmt.Errorf("transform sector %d: %w", f.SectorID, err)
			}
			pg, ok := tg.(geom.Polygonal)
			if !ok {
				return fmt.Errorf("transform sector %d: result is not polygonal", f.SectorID)
			}
			g = pg
		}
		feat := geojson.NewFeature(toOrb(g))
		feat.Properties = geojson.Properties{
			"id":       f.SectorID,
			"color_id": f.Color,
		}
		fc.Append(feat)
	}

	b, err := json.Marshal(fc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

// toOrb converts a Polygonal to the orb geometry used for serialization:
// a Polygon when single-part, a MultiPolygon otherwise.
func toOrb(g geom.Polygonal) orb.Geometry {
	polys := g.Polygons()
	mp := make(orb.MultiPolygon, 0, len(polys))
	for _, p := range polys {
		op := make(orb.Polygon, 0, len(p))
		for _, ring := range p {
			if len(ring) == 0 {
				continue
			}
			r := make(orb.Ring, 0, len(ring)+1)
			for _, pt := range ring {
				r = append(r, orb.Point{pt.X, pt.Y})
			}
			if r[0] != r[len(r)-1] {
				r = append(r, r[0]) // GeoJSON rings are explicitly closed
			}
			op = append(op, r)
		}
		if len(op) > 0 {
			mp = append(mp, op)
		}
	}
	if len(mp) == 1 {
		return mp[0]
	}
	return mp
}
