package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Runs table - one row per analyzed video
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			video_path TEXT NOT NULL,
			output_path TEXT NOT NULL DEFAULT '',
			shoulder_x INTEGER NOT NULL,
			shoulder_y INTEGER NOT NULL,
			hip_x INTEGER NOT NULL,
			hip_y INTEGER NOT NULL,
			center_x INTEGER NOT NULL,
			center_y INTEGER NOT NULL,
			radius INTEGER NOT NULL,
			total_frames INTEGER NOT NULL DEFAULT 0,
			outside_frames INTEGER NOT NULL DEFAULT 0,
			outside_percent REAL NOT NULL DEFAULT 0,
			mean_distance REAL NOT NULL DEFAULT 0,
			max_distance REAL NOT NULL DEFAULT 0,
			stddev_distance REAL NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Run frames table - per-frame tracked position and classification
		`CREATE TABLE IF NOT EXISTS run_frames (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			frame_index INTEGER NOT NULL,
			head_x INTEGER NOT NULL,
			head_y INTEGER NOT NULL,
			distance REAL NOT NULL,
			outside INTEGER NOT NULL DEFAULT 0
		)`,

		// Settings table - stores application settings as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		// Indexes for better query performance
		`CREATE INDEX IF NOT EXISTS idx_run_frames_run_id ON run_frames(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_run_frames_run_id_index ON run_frames(run_id, frame_index)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
