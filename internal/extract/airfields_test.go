package extract

import (
	"os"
	"path/filepath"
	"testing"
)

func writeAirfields(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "airfields.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadAirfields(t *testing.T) {
	path := writeAirfields(t, "name,lon,lat\nmeadow,10.2,47.1\nstrip, 11.0, 46.5\n")
	got, err := ReadAirfields(path)
	if err != nil {
		t.Fatalf("ReadAirfields: %v", err)
	}
	want := []Airfield{
		{Name: "meadow", Lon: 10.2, Lat: 47.1},
		{Name: "strip", Lon: 11.0, Lat: 46.5},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d airfields, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("airfield %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestReadAirfieldsNoHeader(t *testing.T) {
	path := writeAirfields(t, "meadow,10.2,47.1\n")
	got, err := ReadAirfields(path)
	if err != nil {
		t.Fatalf("ReadAirfields: %v", err)
	}
	if len(got) != 1 || got[0].Name != "meadow" {
		t.Fatalf("got %+v", got)
	}
}

func TestReadAirfieldsBadCoordinates(t *testing.T) {
	for _, content := range []string{
		"meadow,10,47\nstrip,eleven,46\n",
		"meadow,200,47.1\n",
		"meadow,10,95\n",
		",10.2,47.1\n",
		"name,lon,lat\n",
	} {
		path := writeAirfields(t, content)
		if _, err := ReadAirfields(path); err == nil {
			t.Fatalf("expected error for %q", content)
		}
	}
}
