package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestEmptyConfigDefaults(t *testing.T) {
	cfg := EmptyPipelineConfig()

	if cfg.GetGlideRatio() != 8 {
		t.Errorf("GetGlideRatio() = %f, want 8", cfg.GetGlideRatio())
	}
	if cfg.GetMaxAltitudeM() != 3000 {
		t.Errorf("GetMaxAltitudeM() = %f, want 3000", cfg.GetMaxAltitudeM())
	}
	if cfg.GetExtractCellSizeM() != 100 {
		t.Errorf("GetExtractCellSizeM() = %f, want 100", cfg.GetExtractCellSizeM())
	}
	if cfg.GetNoDataValue() != -9999 {
		t.Errorf("GetNoDataValue() = %f, want -9999", cfg.GetNoDataValue())
	}
	if cfg.GetTargetCellSizeDeg() != 0.0009 {
		t.Errorf("GetTargetCellSizeDeg() = %f, want 0.0009", cfg.GetTargetCellSizeDeg())
	}
	if cfg.GetPaletteSize() != 7 {
		t.Errorf("GetPaletteSize() = %d, want 7", cfg.GetPaletteSize())
	}
	if cfg.GetColoringAttempts() != 10000 {
		t.Errorf("GetColoringAttempts() = %d, want 10000", cfg.GetColoringAttempts())
	}
	if cfg.GetSimplifyTolerance() != 0 {
		t.Errorf("GetSimplifyTolerance() = %f, want 0", cfg.GetSimplifyTolerance())
	}
}

func TestLoadPipelineConfig(t *testing.T) {
	path := writeConfig(t, "pipeline.json", `{
  "glide_ratio": 10,
  "max_altitude_m": 2500,
  "target_cell_size_deg": 0.0018,
  "palette_size": 5
}`)

	cfg, err := LoadPipelineConfig(path)
	if err != nil {
		t.Fatalf("LoadPipelineConfig: %v", err)
	}
	if cfg.GetGlideRatio() != 10 {
		t.Errorf("GetGlideRatio() = %f, want 10", cfg.GetGlideRatio())
	}
	if cfg.GetMaxAltitudeM() != 2500 {
		t.Errorf("GetMaxAltitudeM() = %f, want 2500", cfg.GetMaxAltitudeM())
	}
	if cfg.GetPaletteSize() != 5 {
		t.Errorf("GetPaletteSize() = %d, want 5", cfg.GetPaletteSize())
	}
	// Fields absent from the file fall back to defaults.
	if cfg.GetExtractCellSizeM() != 100 {
		t.Errorf("GetExtractCellSizeM() = %f, want default 100", cfg.GetExtractCellSizeM())
	}
}

func TestLoadPipelineConfigRejectsNonJSON(t *testing.T) {
	path := writeConfig(t, "pipeline.yaml", `glide_ratio: 10`)
	if _, err := LoadPipelineConfig(path); err == nil {
		t.Fatal("expected error for non-json extension")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name string
		json string
	}{
		{"negative glide ratio", `{"glide_ratio": -1}`},
		{"zero altitude", `{"max_altitude_m": 0}`},
		{"zero palette", `{"palette_size": 0}`},
		{"partial bounds", `{"fusion_min_lon": 5}`},
		{"empty bounds", `{"fusion_min_lon": 10, "fusion_min_lat": 45, "fusion_max_lon": 9, "fusion_max_lat": 46}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, "bad.json", tc.json)
			if _, err := LoadPipelineConfig(path); err == nil {
				t.Fatalf("expected validation error for %s", tc.json)
			}
		})
	}
}
