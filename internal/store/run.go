package store

import (
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Run represents one completed video analysis stored in the database.
type Run struct {
	ID             string    `json:"id"`
	VideoPath      string    `json:"video_path"`
	OutputPath     string    `json:"output_path,omitempty"`
	ShoulderX      int       `json:"shoulder_x"`
	ShoulderY      int       `json:"shoulder_y"`
	HipX           int       `json:"hip_x"`
	HipY           int       `json:"hip_y"`
	CenterX        int       `json:"center_x"`
	CenterY        int       `json:"center_y"`
	Radius         int       `json:"radius"`
	TotalFrames    int       `json:"total_frames"`
	OutsideFrames  int       `json:"outside_frames"`
	OutsidePercent float64   `json:"outside_percent"`
	MeanDistance   float64   `json:"mean_distance"`
	MaxDistance    float64   `json:"max_distance"`
	StddevDistance float64   `json:"stddev_distance"`
	CreatedAt      time.Time `json:"created_at"`
}

// RunRepository provides CRUD operations for runs.
type RunRepository struct {
	db *sql.DB
}

// Runs returns the run repository for this store.
func (s *Store) Runs() *RunRepository {
	return &RunRepository{db: s.db}
}

const runColumns = `id, video_path, output_path,
	shoulder_x, shoulder_y, hip_x, hip_y,
	center_x, center_y, radius,
	total_frames, outside_frames, outside_percent,
	mean_distance, max_distance, stddev_distance, created_at`

func scanRun(row interface{ Scan(...any) error }) (*Run, error) {
	r := &Run{}
	err := row.Scan(
		&r.ID, &r.VideoPath, &r.OutputPath,
		&r.ShoulderX, &r.ShoulderY, &r.HipX, &r.HipY,
		&r.CenterX, &r.CenterY, &r.Radius,
		&r.TotalFrames, &r.OutsideFrames, &r.OutsidePercent,
		&r.MeanDistance, &r.MaxDistance, &r.StddevDistance, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Create inserts a new run into the database.
func (r *RunRepository) Create(run *Run) error {
	run.CreatedAt = time.Now()

	_, err := r.db.Exec(
		`INSERT INTO runs (`+runColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.VideoPath, run.OutputPath,
		run.ShoulderX, run.ShoulderY, run.HipX, run.HipY,
		run.CenterX, run.CenterY, run.Radius,
		run.TotalFrames, run.OutsideFrames, run.OutsidePercent,
		run.MeanDistance, run.MaxDistance, run.StddevDistance, run.CreatedAt,
	)
	if err != nil {
		return err
	}

	return nil
}

// GetByID retrieves a run by its ID.
func (r *RunRepository) GetByID(id string) (*Run, error) {
	run, err := scanRun(r.db.QueryRow(
		`SELECT `+runColumns+` FROM runs WHERE id = ?`, id,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return run, nil
}

// List retrieves all runs from the database, newest first.
func (r *RunRepository) List() ([]*Run, error) {
	rows, err := r.db.Query(
		`SELECT ` + runColumns + ` FROM runs ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return runs, nil
}

// Delete removes a run from the database by its ID. Frame rows cascade.
func (r *RunRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
