// Command runs inspects the catalog database: it lists recorded pipeline
// runs, shows the tiles of a single run, and applies schema migrations.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/glideline-data/reach.report/internal/catalog"
	"github.com/glideline-data/reach.report/internal/version"
)

func main() {
	var dbPath string
	var tilesRun string
	var migrateCmd string
	var migrationsDir string
	var forceVersion int
	var showVersion bool

	flag.StringVar(&dbPath, "db", "catalog.db", "path to the catalog sqlite db")
	flag.StringVar(&tilesRun, "tiles", "", "show the tiles of this run id instead of the run list")
	flag.StringVar(&migrateCmd, "migrate", "", "run a migration command: up, down, version or force")
	flag.StringVar(&migrationsDir, "migrations", "migrations", "directory of migration files")
	flag.IntVar(&forceVersion, "force-version", 0, "version for -migrate force")
	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Println(version.String())
		return
	}

	cat, err := catalog.NewCatalog(dbPath)
	if err != nil {
		log.Fatalf("open catalog: %v", err)
	}
	defer cat.Close()

	switch {
	case migrateCmd != "":
		if err := runMigrate(cat, migrateCmd, migrationsDir, forceVersion); err != nil {
			log.Fatalf("migrate %s: %v", migrateCmd, err)
		}
	case tilesRun != "":
		if err := printTiles(cat, tilesRun); err != nil {
			log.Fatalf("list tiles: %v", err)
		}
	default:
		if err := printRuns(cat); err != nil {
			log.Fatalf("list runs: %v", err)
		}
	}
}

func printRuns(cat *catalog.Catalog) error {
	runs, err := cat.ListRuns()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs recorded")
		return nil
	}
	for _, r := range runs {
		finished := "-"
		if r.FinishedAt.Valid {
			finished = r.FinishedAt.Time.Format("2006-01-02 15:04:05")
		}
		fmt.Printf("%s  %-8s  %-10s  started %s  finished %s\n",
			r.ID, r.Status, r.Region, r.CreatedAt.Format("2006-01-02 15:04:05"), finished)
		if r.MergedPath != "" {
			fmt.Printf("    merged: %s  sectors: %s\n", r.MergedPath, r.SectorsPath)
		}
	}
	return nil
}

func printTiles(cat *catalog.Catalog, runID string) error {
	tiles, err := cat.RunTiles(runID)
	if err != nil {
		return err
	}
	if len(tiles) == 0 {
		fmt.Printf("no tiles recorded for run %s\n", runID)
		return nil
	}
	for _, t := range tiles {
		if t.Skipped {
			fmt.Printf("%-16s  skipped: %s\n", t.Source, t.Reason)
			continue
		}
		fmt.Printf("%-16s  offset (%d, %d)  %s\n", t.Source, t.RowOff, t.ColOff, t.Path)
	}
	return nil
}

func runMigrate(cat *catalog.Catalog, cmd, dir string, forceVersion int) error {
	switch cmd {
	case "up":
		return cat.MigrateUp(dir)
	case "down":
		return cat.MigrateDown(dir)
	case "version":
		version, dirty, err := cat.MigrateVersion(dir)
		if err != nil {
			return err
		}
		fmt.Printf("version %d dirty=%v\n", version, dirty)
		return nil
	case "force":
		return cat.MigrateForce(dir, forceVersion)
	default:
		return fmt.Errorf("unknown migration command %q", cmd)
	}
}
