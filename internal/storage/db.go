// ABOUTME: SQLite export database connection and lifecycle management.
// ABOUTME: Uses modernc.org/sqlite (pure Go, no CGO required).
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/harperreed/sleepdash/internal/analytics"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite report database.
type DB struct {
	db *sql.DB
}

// Open opens or creates a SQLite report database at the given path.
func Open(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	d := &DB{db: db}

	if err := d.configurePragmas(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("configure pragmas: %w", err)
	}

	if err := d.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	if err := os.Chmod(dbPath, 0600); err != nil && !os.IsNotExist(err) {
		_ = db.Close()
		return nil, fmt.Errorf("set database permissions: %w", err)
	}

	return d, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// configurePragmas keeps the export a single self-contained file.
func (d *DB) configurePragmas() error {
	pragmas := []string{
		"PRAGMA journal_mode = DELETE",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := d.db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %s: %w", pragma, err)
		}
	}
	return nil
}

// ExportSQLite writes the report to a fresh SQLite file at path, replacing
// any existing file.
func ExportSQLite(path string, r *Report) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove previous export: %w", err)
	}

	d, err := Open(path)
	if err != nil {
		return err
	}
	if err := d.SaveReport(r); err != nil {
		_ = d.Close()
		return err
	}
	return d.Close()
}

// SaveReport inserts every report section in a single transaction.
func (d *DB) SaveReport(r *Report) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	meta := map[string]string{
		"version":     r.Version,
		"tool":        r.Tool,
		"exported_at": r.ExportedAt.UTC().Format(time.RFC3339),
		"nights":      strconv.Itoa(r.Nights),
		"start":       r.Start,
		"end":         r.End,
	}
	for k, v := range meta {
		if _, err := tx.Exec(`INSERT INTO export_meta (key, value) VALUES (?, ?)`, k, v); err != nil {
			return fmt.Errorf("insert meta %s: %w", k, err)
		}
	}

	overviews := []struct {
		report string
		rows   []analytics.OverviewRow
	}{
		{"annual", r.Annual.Rows},
		{"monthly", r.Monthly.Rows},
		{"weekday", r.Weekday.Rows},
	}
	for _, ov := range overviews {
		for i, row := range ov.rows {
			_, err := tx.Exec(`
				INSERT INTO overview (report, bucket, position, nights, avg_rhr, avg_hrv,
					avg_asleep_minutes, avg_asleep_duration, avg_asleep_whole_minutes,
					avg_sleep_consistency, avg_skin_temp, avg_recovery)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				ov.report, row.Key, i, row.Nights, cell(row.RHR), cell(row.HRV),
				row.AsleepMinutes, row.Duration.String(), row.Duration.TotalMinutes(), cell(row.SleepConsistency),
				cell(row.SkinTemp), cell(row.Recovery),
			)
			if err != nil {
				return fmt.Errorf("insert %s overview row %s: %w", ov.report, row.Key, err)
			}
		}
	}

	shares := []struct {
		groupBy string
		rows    []analytics.ShareRow
	}{
		{"year", r.SharesByYear},
		{"year_month", r.SharesByMonth},
	}
	for _, s := range shares {
		for i, row := range s.rows {
			_, err := tx.Exec(`
				INSERT INTO score_shares (group_by, bucket, position, good, okay, bad, total,
					good_share, okay_share, bad_share)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				s.groupBy, row.Key, i, row.Good, row.Okay, row.Bad, row.Total,
				row.GoodShare, row.OkayShare, row.BadShare,
			)
			if err != nil {
				return fmt.Errorf("insert %s share row %s: %w", s.groupBy, row.Key, err)
			}
		}
	}

	for i, row := range r.Daily {
		_, err := tx.Exec(`
			INSERT INTO daily_metrics (position, date, weekday, asleep_hours, night_score,
				sleep_consistency, hrv, rhr, skin_temp)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			i, row.Date, row.Weekday, row.AsleepHours, row.NightScore,
			cell(row.SleepConsistency), cell(row.HRV), cell(row.RHR), cell(row.SkinTemp),
		)
		if err != nil {
			return fmt.Errorf("insert daily row %s: %w", row.Date, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Buckets returns the bucket keys stored for an overview report, in order.
func (d *DB) Buckets(report string) ([]string, error) {
	rows, err := d.db.Query(`SELECT bucket FROM overview WHERE report = ? ORDER BY position`, report)
	if err != nil {
		return nil, fmt.Errorf("query buckets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var buckets []string
	for rows.Next() {
		var b string
		if err := rows.Scan(&b); err != nil {
			return nil, fmt.Errorf("scan bucket: %w", err)
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}

// DurationMinutes returns the whole-minute mean asleep duration stored for
// one overview bucket, matching its H:MM rendering.
func (d *DB) DurationMinutes(report, bucket string) (int, error) {
	var m int
	err := d.db.QueryRow(`SELECT avg_asleep_whole_minutes FROM overview WHERE report = ? AND bucket = ?`,
		report, bucket).Scan(&m)
	if err != nil {
		return 0, fmt.Errorf("query duration %s/%s: %w", report, bucket, err)
	}
	return m, nil
}

// Meta returns one export_meta value.
func (d *DB) Meta(key string) (string, error) {
	var v string
	if err := d.db.QueryRow(`SELECT value FROM export_meta WHERE key = ?`, key).Scan(&v); err != nil {
		return "", fmt.Errorf("query meta %s: %w", key, err)
	}
	return v, nil
}

// CountRows returns the number of rows in one of the report tables.
func (d *DB) CountRows(table string) (int, error) {
	switch table {
	case "overview", "score_shares", "daily_metrics", "export_meta":
	default:
		return 0, fmt.Errorf("unknown table: %q", table)
	}
	var n int
	if err := d.db.QueryRow(`SELECT COUNT(*) FROM ` + table).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}
