// Package config loads the pipeline tuning file. All fields are optional
// pointers so a partial JSON overrides only what it names; the Get*
// accessors supply defaults for the rest.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// PipelineConfig represents the root configuration for a reachability
// pipeline run. The same JSON drives extraction, reprojection, fusion and
// sector extraction so one file describes a whole region.
type PipelineConfig struct {
	// Glide params
	GlideRatio   *float64 `json:"glide_ratio,omitempty"`
	MaxAltitudeM *float64 `json:"max_altitude_m,omitempty"`

	// Extraction params
	ExtractCellSizeM *float64 `json:"extract_cell_size_m,omitempty"`
	NoDataValue      *float64 `json:"nodata_value,omitempty"`

	// Reprojection params
	TargetCellSizeDeg *float64 `json:"target_cell_size_deg,omitempty"`

	// Fusion params
	FusionMinLon *float64 `json:"fusion_min_lon,omitempty"`
	FusionMinLat *float64 `json:"fusion_min_lat,omitempty"`
	FusionMaxLon *float64 `json:"fusion_max_lon,omitempty"`
	FusionMaxLat *float64 `json:"fusion_max_lat,omitempty"`

	// Sector params
	MinSectorArea     *float64 `json:"min_sector_area,omitempty"`
	SimplifyTolerance *float64 `json:"simplify_tolerance,omitempty"`
	PaletteSize       *int     `json:"palette_size,omitempty"`
	AdjacencyBuffer   *float64 `json:"adjacency_buffer,omitempty"`
	ColoringAttempts  *int     `json:"coloring_attempts,omitempty"`
}

// EmptyPipelineConfig returns a PipelineConfig with all fields set to nil.
func EmptyPipelineConfig() *PipelineConfig {
	return &PipelineConfig{}
}

// LoadPipelineConfig loads a PipelineConfig from a JSON file. Fields
// omitted from the file retain their defaults, so partial configs are
// safe.
func LoadPipelineConfig(path string) (*PipelineConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyPipelineConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *PipelineConfig) Validate() error {
	if c.GlideRatio != nil && *c.GlideRatio <= 0 {
		return fmt.Errorf("glide_ratio must be positive, got %f", *c.GlideRatio)
	}
	if c.MaxAltitudeM != nil && *c.MaxAltitudeM <= 0 {
		return fmt.Errorf("max_altitude_m must be positive, got %f", *c.MaxAltitudeM)
	}
	if c.ExtractCellSizeM != nil && *c.ExtractCellSizeM <= 0 {
		return fmt.Errorf("extract_cell_size_m must be positive, got %f", *c.ExtractCellSizeM)
	}
	if c.TargetCellSizeDeg != nil && *c.TargetCellSizeDeg <= 0 {
		return fmt.Errorf("target_cell_size_deg must be positive, got %f", *c.TargetCellSizeDeg)
	}
	if c.PaletteSize != nil && *c.PaletteSize < 1 {
		return fmt.Errorf("palette_size must be at least 1, got %d", *c.PaletteSize)
	}
	if c.ColoringAttempts != nil && *c.ColoringAttempts < 1 {
		return fmt.Errorf("coloring_attempts must be at least 1, got %d", *c.ColoringAttempts)
	}
	if c.MinSectorArea != nil && *c.MinSectorArea < 0 {
		return fmt.Errorf("min_sector_area must be non-negative, got %f", *c.MinSectorArea)
	}

	haveBounds := 0
	for _, p := range []*float64{c.FusionMinLon, c.FusionMinLat, c.FusionMaxLon, c.FusionMaxLat} {
		if p != nil {
			haveBounds++
		}
	}
	if haveBounds != 0 && haveBounds != 4 {
		return fmt.Errorf("fusion bounds need all four of min/max lon/lat, got %d", haveBounds)
	}
	if haveBounds == 4 {
		if *c.FusionMinLon >= *c.FusionMaxLon || *c.FusionMinLat >= *c.FusionMaxLat {
			return fmt.Errorf("fusion bounds are empty: (%f,%f)-(%f,%f)",
				*c.FusionMinLon, *c.FusionMinLat, *c.FusionMaxLon, *c.FusionMaxLat)
		}
	}

	return nil
}

// GetGlideRatio returns the glide_ratio value or the default.
func (c *PipelineConfig) GetGlideRatio() float64 {
	if c.GlideRatio == nil {
		return 8 // default
	}
	return *c.GlideRatio
}

// GetMaxAltitudeM returns the max_altitude_m value or the default.
func (c *PipelineConfig) GetMaxAltitudeM() float64 {
	if c.MaxAltitudeM == nil {
		return 3000 // default
	}
	return *c.MaxAltitudeM
}

// GetExtractCellSizeM returns the extract_cell_size_m value or the default.
func (c *PipelineConfig) GetExtractCellSizeM() float64 {
	if c.ExtractCellSizeM == nil {
		return 100 // default
	}
	return *c.ExtractCellSizeM
}

// GetNoDataValue returns the nodata_value or the default.
func (c *PipelineConfig) GetNoDataValue() float64 {
	if c.NoDataValue == nil {
		return -9999 // default
	}
	return *c.NoDataValue
}

// GetTargetCellSizeDeg returns the target_cell_size_deg value or the default.
func (c *PipelineConfig) GetTargetCellSizeDeg() float64 {
	if c.TargetCellSizeDeg == nil {
		return 0.0009 // default
	}
	return *c.TargetCellSizeDeg
}

// GetMinSectorArea returns the min_sector_area value or the default.
func (c *PipelineConfig) GetMinSectorArea() float64 {
	if c.MinSectorArea == nil {
		return 0 // default: keep everything
	}
	return *c.MinSectorArea
}

// GetSimplifyTolerance returns the simplify_tolerance value, or zero to
// let sector extraction derive it from the cell size.
func (c *PipelineConfig) GetSimplifyTolerance() float64 {
	if c.SimplifyTolerance == nil {
		return 0
	}
	return *c.SimplifyTolerance
}

// GetPaletteSize returns the palette_size value or the default.
func (c *PipelineConfig) GetPaletteSize() int {
	if c.PaletteSize == nil {
		return 7 // default
	}
	return *c.PaletteSize
}

// GetAdjacencyBuffer returns the adjacency_buffer value, or zero to let
// sector coloring derive it from the cell size.
func (c *PipelineConfig) GetAdjacencyBuffer() float64 {
	if c.AdjacencyBuffer == nil {
		return 0
	}
	return *c.AdjacencyBuffer
}

// GetColoringAttempts returns the coloring_attempts value or the default.
func (c *PipelineConfig) GetColoringAttempts() int {
	if c.ColoringAttempts == nil {
		return 10000 // default
	}
	return *c.ColoringAttempts
}
