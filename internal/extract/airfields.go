package extract

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Airfield is a landing site from the airfield list.
type Airfield struct {
	Name string
	Lon  float64
	Lat  float64
}

// ReadAirfields parses a name,lon,lat CSV. A header row is detected by a
// non-numeric second field and skipped. Blank lines are ignored.
func ReadAirfields(path string) ([]Airfield, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = 3
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse airfields %s: %w", path, err)
	}

	var out []Airfield
	for i, rec := range records {
		lon, lonErr := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
		lat, latErr := strconv.ParseFloat(strings.TrimSpace(rec[2]), 64)
		if lonErr != nil || latErr != nil {
			if i == 0 {
				continue // header row
			}
			return nil, fmt.Errorf("airfields %s line %d: bad coordinates %q,%q", path, i+1, rec[1], rec[2])
		}
		name := strings.TrimSpace(rec[0])
		if name == "" {
			return nil, fmt.Errorf("airfields %s line %d: empty name", path, i+1)
		}
		if lon < -180 || lon > 180 || lat < -90 || lat > 90 {
			return nil, fmt.Errorf("airfields %s line %d: coordinates out of range (%g, %g)", path, i+1, lon, lat)
		}
		out = append(out, Airfield{Name: name, Lon: lon, Lat: lat})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("airfields %s: no entries", path)
	}
	return out, nil
}
