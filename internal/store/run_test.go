package store

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func sampleRun() *Run {
	return &Run{
		ID:             uuid.NewString(),
		VideoPath:      "/videos/swing.mp4",
		ShoulderX:      320, ShoulderY: 260,
		HipX: 320, HipY: 420,
		CenterX: 320, CenterY: 140,
		Radius:         60,
		TotalFrames:    120,
		OutsideFrames:  18,
		OutsidePercent: 15,
		MeanDistance:   22.4,
		MaxDistance:    81.2,
		StddevDistance: 14.1,
	}
}

func TestRunRepository_CreateAndGet(t *testing.T) {
	s := newTestStore(t)
	repo := s.Runs()

	run := sampleRun()
	if err := repo.Create(run); err != nil {
		t.Fatalf("failed to create run: %v", err)
	}

	got, err := repo.GetByID(run.ID)
	if err != nil {
		t.Fatalf("failed to get run: %v", err)
	}

	if got.VideoPath != run.VideoPath {
		t.Errorf("VideoPath = %q, want %q", got.VideoPath, run.VideoPath)
	}
	if got.Radius != run.Radius {
		t.Errorf("Radius = %d, want %d", got.Radius, run.Radius)
	}
	if got.OutsideFrames != run.OutsideFrames {
		t.Errorf("OutsideFrames = %d, want %d", got.OutsideFrames, run.OutsideFrames)
	}
	if got.MeanDistance != run.MeanDistance {
		t.Errorf("MeanDistance = %f, want %f", got.MeanDistance, run.MeanDistance)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set on create")
	}
}

func TestRunRepository_GetByID_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Runs().GetByID("no-such-run")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID error = %v, want ErrNotFound", err)
	}
}

func TestRunRepository_List(t *testing.T) {
	s := newTestStore(t)
	repo := s.Runs()

	for i := 0; i < 3; i++ {
		if err := repo.Create(sampleRun()); err != nil {
			t.Fatalf("failed to create run %d: %v", i, err)
		}
	}

	runs, err := repo.List()
	if err != nil {
		t.Fatalf("failed to list runs: %v", err)
	}
	if len(runs) != 3 {
		t.Errorf("got %d runs, want 3", len(runs))
	}
}

func TestRunRepository_Delete(t *testing.T) {
	s := newTestStore(t)
	repo := s.Runs()

	run := sampleRun()
	if err := repo.Create(run); err != nil {
		t.Fatalf("failed to create run: %v", err)
	}

	if err := repo.Delete(run.ID); err != nil {
		t.Fatalf("failed to delete run: %v", err)
	}

	if _, err := repo.GetByID(run.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted run still retrievable, err = %v", err)
	}

	if err := repo.Delete(run.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete error = %v, want ErrNotFound", err)
	}
}

func TestFrameRepository_CreateAndList(t *testing.T) {
	s := newTestStore(t)

	run := sampleRun()
	if err := s.Runs().Create(run); err != nil {
		t.Fatalf("failed to create run: %v", err)
	}

	frames := []Frame{
		{Index: 0, HeadX: 100, HeadY: 100, Distance: 0, Outside: false},
		{Index: 1, HeadX: 160, HeadY: 102, Distance: 60.03, Outside: true},
		{Index: 2, HeadX: 104, HeadY: 99, Distance: 4.1, Outside: false},
	}
	if err := s.Frames().Create(run.ID, frames); err != nil {
		t.Fatalf("failed to create frames: %v", err)
	}

	got, err := s.Frames().ListByRunID(run.ID)
	if err != nil {
		t.Fatalf("failed to list frames: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d frames, want 3", len(got))
	}
	for i, f := range got {
		if f.Index != i {
			t.Errorf("frame %d has index %d", i, f.Index)
		}
		if f.RunID != run.ID {
			t.Errorf("frame %d run id = %q, want %q", i, f.RunID, run.ID)
		}
	}
	if !got[1].Outside {
		t.Error("frame 1 should be outside")
	}
	if got[0].Outside || got[2].Outside {
		t.Error("frames 0 and 2 should be inside")
	}
}

func TestFrameRepository_CascadeOnRunDelete(t *testing.T) {
	s := newTestStore(t)

	run := sampleRun()
	if err := s.Runs().Create(run); err != nil {
		t.Fatalf("failed to create run: %v", err)
	}
	if err := s.Frames().Create(run.ID, []Frame{{Index: 0, HeadX: 1, HeadY: 2}}); err != nil {
		t.Fatalf("failed to create frames: %v", err)
	}

	if err := s.Runs().Delete(run.ID); err != nil {
		t.Fatalf("failed to delete run: %v", err)
	}

	frames, err := s.Frames().ListByRunID(run.ID)
	if err != nil {
		t.Fatalf("failed to list frames: %v", err)
	}
	if len(frames) != 0 {
		t.Errorf("got %d frames after run delete, want 0", len(frames))
	}
}
