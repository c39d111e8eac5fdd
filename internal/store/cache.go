// Package store provides a SQLite-backed cache for parsed trip datasets.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/tripcost/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Cache provides SQLite-backed dataset caching.
type Cache struct {
	db *sql.DB
}

// Open opens or creates the cache database at the given path and migrates
// its schema to the latest version.
func Open(dbPath string) (*Cache, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	if err := migrateUp(dbPath); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// DatasetInfo is the tracking record of one cached dataset file.
type DatasetInfo struct {
	MtimeNs       int64
	SizeBytes     int64
	RowCount      int
	RejectedCount int
	ParsedAt      time.Time
}

// Fresh reports whether the cached record still matches a file's mtime and size.
func (d DatasetInfo) Fresh(mtimeNs, sizeBytes int64) bool {
	return d.MtimeNs == mtimeNs && d.SizeBytes == sizeBytes
}

// Lookup returns the tracking record for path, if any.
func (c *Cache) Lookup(path string) (DatasetInfo, bool, error) {
	var info DatasetInfo
	var parsedAt string
	err := c.db.QueryRow(`SELECT mtime_ns, size_bytes, row_count, rejected_count, parsed_at
		FROM datasets WHERE path = ?`, path).
		Scan(&info.MtimeNs, &info.SizeBytes, &info.RowCount, &info.RejectedCount, &parsedAt)
	if err == sql.ErrNoRows {
		return DatasetInfo{}, false, nil
	}
	if err != nil {
		return DatasetInfo{}, false, fmt.Errorf("looking up dataset: %w", err)
	}
	info.ParsedAt, _ = time.Parse(time.RFC3339, parsedAt)
	return info, true, nil
}

// SaveDataset replaces everything cached for path with trips and info.
func (c *Cache) SaveDataset(path string, info DatasetInfo, trips []model.Trip) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	// Cascades to trips.
	if _, err := tx.Exec("DELETE FROM datasets WHERE path = ?", path); err != nil {
		return err
	}

	parsedAt := info.ParsedAt
	if parsedAt.IsZero() {
		parsedAt = time.Now()
	}
	_, err = tx.Exec(`INSERT INTO datasets
		(path, mtime_ns, size_bytes, row_count, rejected_count, parsed_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		path, info.MtimeNs, info.SizeBytes, info.RowCount, info.RejectedCount,
		parsedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO trips
		(dataset_path, line, country, city, accommodation, travel_mode, season,
		 duration_days, companions, total_cost)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for _, t := range trips {
		_, err := stmt.Exec(path, t.Line, t.Country, t.City, t.Accommodation, t.TravelMode,
			t.Season, t.DurationDays, t.Companions, t.TotalCost)
		if err != nil {
			return fmt.Errorf("inserting line %d: %w", t.Line, err)
		}
	}

	return tx.Commit()
}

// LoadTrips reads the cached trips of path in line order. Derived fields are
// recomputed rather than stored.
func (c *Cache) LoadTrips(path string) ([]model.Trip, error) {
	rows, err := c.db.Query(`SELECT
		line, country, city, accommodation, travel_mode, season,
		duration_days, companions, total_cost
		FROM trips WHERE dataset_path = ? ORDER BY line`, path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var trips []model.Trip
	for rows.Next() {
		var line, days, companions int
		var country, city, accommodation, mode, season string
		var total float64
		if err := rows.Scan(&line, &country, &city, &accommodation, &mode, &season,
			&days, &companions, &total); err != nil {
			return nil, err
		}
		t := model.NewTrip(country, city, accommodation, mode, season, days, companions, total)
		t.Line = line
		trips = append(trips, t)
	}
	return trips, rows.Err()
}

// DeleteDataset removes a dataset and its trips.
func (c *Cache) DeleteDataset(path string) error {
	_, err := c.db.Exec("DELETE FROM datasets WHERE path = ?", path)
	return err
}

// DatasetCount returns the number of cached datasets.
func (c *Cache) DatasetCount() (int, error) {
	var count int
	err := c.db.QueryRow("SELECT COUNT(*) FROM datasets").Scan(&count)
	return count, err
}
