// Package catalog records pipeline runs in a sqlite database: one row per
// run, one row per source tile the fusion step placed or skipped, and the
// output artifact paths. The runs cmd reads it back for inspection.
package catalog

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

type Catalog struct {
	*sql.DB
}

// Run is one recorded pipeline invocation.
type Run struct {
	ID          string
	Region      string
	Status      string
	MergedPath  string
	SectorsPath string
	GeoJSONPath string
	CreatedAt   time.Time
	FinishedAt  sql.NullTime
}

// Tile is one source grid considered by a run.
type Tile struct {
	RunID   string
	Source  string
	Path    string
	RowOff  int
	ColOff  int
	Skipped bool
	Reason  string
}

func NewCatalog(path string) (*Catalog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			run_id            TEXT PRIMARY KEY,
			region            TEXT,
			status            TEXT,
			merged_path       TEXT,
			sectors_path      TEXT,
			geojson_path      TEXT,
			created_at        TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			finished_at       TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS tiles (
			run_id            TEXT,
			source_id         TEXT,
			source_path       TEXT,
			row_off           BIGINT,
			col_off           BIGINT,
			skipped           BOOLEAN,
			reason            TEXT,
			timestamp         TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(run_id) REFERENCES runs(run_id)
		);
	`)
	if err != nil {
		return nil, err
	}

	return &Catalog{db}, nil
}

// CreateRun inserts a new run in the "running" state and returns its id.
func (c *Catalog) CreateRun(region string) (string, error) {
	id := uuid.NewString()
	_, err := c.Exec(
		`INSERT INTO runs (run_id, region, status) VALUES (?, ?, ?)`,
		id, region, "running",
	)
	if err != nil {
		return "", fmt.Errorf("failed to create run: %w", err)
	}
	return id, nil
}

// RecordTile stores one source placement or skip for a run.
func (c *Catalog) RecordTile(t Tile) error {
	_, err := c.Exec(
		`INSERT INTO tiles (run_id, source_id, source_path, row_off, col_off, skipped, reason)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.RunID, t.Source, t.Path, t.RowOff, t.ColOff, t.Skipped, t.Reason,
	)
	if err != nil {
		return fmt.Errorf("failed to record tile %s: %w", t.Source, err)
	}
	return nil
}

// SetOutputs stores the artifact paths produced by a run.
func (c *Catalog) SetOutputs(runID, merged, sectors, geojson string) error {
	_, err := c.Exec(
		`UPDATE runs SET merged_path = ?, sectors_path = ?, geojson_path = ? WHERE run_id = ?`,
		merged, sectors, geojson, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to set outputs for run %s: %w", runID, err)
	}
	return nil
}

// FinishRun marks a run done or failed and stamps its finish time.
func (c *Catalog) FinishRun(runID, status string) error {
	res, err := c.Exec(
		`UPDATE runs SET status = ?, finished_at = CURRENT_TIMESTAMP WHERE run_id = ?`,
		status, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to finish run %s: %w", runID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("no such run: %s", runID)
	}
	return nil
}

// ListRuns returns all runs, newest first.
func (c *Catalog) ListRuns() ([]Run, error) {
	rows, err := c.Query(
		`SELECT run_id, region, status,
		        COALESCE(merged_path, ''), COALESCE(sectors_path, ''), COALESCE(geojson_path, ''),
		        created_at, finished_at
		 FROM runs ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Region, &r.Status,
			&r.MergedPath, &r.SectorsPath, &r.GeoJSONPath,
			&r.CreatedAt, &r.FinishedAt); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// RunTiles returns the tiles recorded for one run in insertion order.
func (c *Catalog) RunTiles(runID string) ([]Tile, error) {
	rows, err := c.Query(
		`SELECT run_id, source_id, source_path, row_off, col_off, skipped, COALESCE(reason, '')
		 FROM tiles WHERE run_id = ? ORDER BY rowid`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list tiles for run %s: %w", runID, err)
	}
	defer rows.Close()

	var tiles []Tile
	for rows.Next() {
		var t Tile
		if err := rows.Scan(&t.RunID, &t.Source, &t.Path, &t.RowOff, &t.ColOff, &t.Skipped, &t.Reason); err != nil {
			return nil, err
		}
		tiles = append(tiles, t)
	}
	return tiles, rows.Err()
}
