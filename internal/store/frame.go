package store

import (
	"database/sql"
)

// Frame represents one tracked frame of a run stored in the database.
type Frame struct {
	ID       int64   `json:"id"`
	RunID    string  `json:"run_id"`
	Index    int     `json:"frame_index"`
	HeadX    int     `json:"head_x"`
	HeadY    int     `json:"head_y"`
	Distance float64 `json:"distance"`
	Outside  bool    `json:"outside"`
}

// FrameRepository provides operations for per-run frame rows.
type FrameRepository struct {
	db *sql.DB
}

// Frames returns the frame repository for this store.
func (s *Store) Frames() *FrameRepository {
	return &FrameRepository{db: s.db}
}

// Create inserts all frames for a run in a single transaction.
func (r *FrameRepository) Create(runID string, frames []Frame) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO run_frames (run_id, frame_index, head_x, head_y, distance, outside)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, f := range frames {
		outside := 0
		if f.Outside {
			outside = 1
		}
		if _, err := stmt.Exec(runID, f.Index, f.HeadX, f.HeadY, f.Distance, outside); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ListByRunID retrieves all frames for a given run in frame order.
func (r *FrameRepository) ListByRunID(runID string) ([]Frame, error) {
	rows, err := r.db.Query(
		`SELECT id, run_id, frame_index, head_x, head_y, distance, outside
		 FROM run_frames
		 WHERE run_id = ?
		 ORDER BY frame_index`,
		runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var frames []Frame
	for rows.Next() {
		var f Frame
		var outside int
		if err := rows.Scan(&f.ID, &f.RunID, &f.Index, &f.HeadX, &f.HeadY, &f.Distance, &outside); err != nil {
			return nil, err
		}
		f.Outside = outside != 0
		frames = append(frames, f)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return frames, nil
}

// DeleteByRunID removes all frames for a given run.
func (r *FrameRepository) DeleteByRunID(runID string) error {
	_, err := r.db.Exec(`DELETE FROM run_frames WHERE run_id = ?`, runID)
	return err
}
