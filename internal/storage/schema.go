// ABOUTME: SQLite schema definition and initialization.
// ABOUTME: Defines tables for overviews, score shares, daily metrics and export metadata.
package storage

// initSchema creates the report tables.
func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS export_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS overview (
		report TEXT NOT NULL,
		bucket TEXT NOT NULL,
		position INTEGER NOT NULL,
		nights INTEGER NOT NULL,
		avg_rhr REAL,
		avg_hrv REAL,
		avg_asleep_minutes REAL NOT NULL,
		avg_asleep_duration TEXT NOT NULL,
		avg_asleep_whole_minutes INTEGER NOT NULL,
		avg_sleep_consistency REAL,
		avg_skin_temp REAL,
		avg_recovery REAL,
		PRIMARY KEY (report, bucket)
	);

	CREATE TABLE IF NOT EXISTS score_shares (
		group_by TEXT NOT NULL,
		bucket TEXT NOT NULL,
		position INTEGER NOT NULL,
		good INTEGER NOT NULL,
		okay INTEGER NOT NULL,
		bad INTEGER NOT NULL,
		total INTEGER NOT NULL,
		good_share REAL NOT NULL,
		okay_share REAL NOT NULL,
		bad_share REAL NOT NULL,
		PRIMARY KEY (group_by, bucket)
	);

	CREATE TABLE IF NOT EXISTS daily_metrics (
		position INTEGER PRIMARY KEY,
		date TEXT NOT NULL,
		weekday TEXT NOT NULL,
		asleep_hours REAL NOT NULL,
		night_score TEXT NOT NULL,
		sleep_consistency REAL,
		hrv REAL,
		rhr REAL,
		skin_temp REAL
	);

	CREATE INDEX IF NOT EXISTS idx_overview_position ON overview(report, position);
	CREATE INDEX IF NOT EXISTS idx_daily_date ON daily_metrics(date);
	`

	_, err := d.db.Exec(schema)
	return err
}
