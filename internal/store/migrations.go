package store

import "database/sql"

// migrate runs all database migrations
func migrate(db *sql.DB) error {
	migrations := []string{
		// Activities (one row per indexed TCX file)
		`CREATE TABLE IF NOT EXISTS activities (
			id INTEGER PRIMARY KEY,
			path TEXT NOT NULL,
			tcx_id TEXT NOT NULL,
			sport TEXT NOT NULL,
			start_date TEXT NOT NULL,
			start_time TEXT,
			total_time_seconds REAL NOT NULL,
			distance_meters REAL NOT NULL,
			max_speed REAL NOT NULL,
			average_heartrate REAL NOT NULL,
			max_heartrate INTEGER NOT NULL,
			calories INTEGER NOT NULL,
			lap_count INTEGER NOT NULL,
			point_count INTEGER NOT NULL,
			indexed_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_activities_start_date ON activities(start_date)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_activities_path ON activities(path)`,

		// Laps (summary elements of each Lap)
		`CREATE TABLE IF NOT EXISTS laps (
			activity_id INTEGER NOT NULL,
			lap_index INTEGER NOT NULL,
			start_time TEXT,
			total_time_seconds REAL NOT NULL,
			distance_meters REAL NOT NULL,
			max_speed REAL NOT NULL,
			average_heartrate INTEGER NOT NULL,
			max_heartrate INTEGER NOT NULL,
			calories INTEGER NOT NULL,
			PRIMARY KEY (activity_id, lap_index),
			FOREIGN KEY (activity_id) REFERENCES activities(id) ON DELETE CASCADE
		)`,

		// Trackpoints (every sample, in document order)
		`CREATE TABLE IF NOT EXISTS trackpoints (
			activity_id INTEGER NOT NULL,
			seq INTEGER NOT NULL,
			lap_index INTEGER NOT NULL,
			time TEXT NOT NULL,
			distance REAL,
			heartrate INTEGER,
			cadence INTEGER,
			speed REAL,
			altitude REAL,
			lat REAL,
			lng REAL,
			PRIMARY KEY (activity_id, seq),
			FOREIGN KEY (activity_id) REFERENCES activities(id) ON DELETE CASCADE
		)`,

		// Sync State (key-value store for import tracking)
		`CREATE TABLE IF NOT EXISTS sync_state (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		// Files that failed to parse, cleared once they index cleanly
		`CREATE TABLE IF NOT EXISTS parse_failures (
			path TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			message TEXT NOT NULL,
			run_id TEXT NOT NULL,
			failed_at TEXT NOT NULL
		)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}

	return nil
}
