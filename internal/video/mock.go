package video

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockSource plays back a fixed frame sequence for testing.
type MockSource struct {
	frames []*gocv.Mat
	fps    float64
	index  int
	mu     sync.Mutex
	open   bool
}

// NewMockSource creates a MockSource over the given frames. The source
// does not take ownership of the frames; ReadFrame returns clones.
func NewMockSource(frames []*gocv.Mat, fps float64) *MockSource {
	if fps <= 0 {
		fps = 30
	}
	return &MockSource{frames: frames, fps: fps}
}

func (s *MockSource) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = true
	s.index = 0
	return nil
}

func (s *MockSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = false
	return nil
}

func (s *MockSource) ReadFrame() (*gocv.Mat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return nil, ErrSourceNotOpen
	}

	if s.index >= len(s.frames) {
		return nil, ErrEndOfStream
	}

	// Clone so the caller can close its copy freely
	frame := s.frames[s.index].Clone()
	s.index++

	return &frame, nil
}

func (s *MockSource) FPS() float64 { return s.fps }

func (s *MockSource) Size() (int, int) {
	if len(s.frames) == 0 {
		return 0, 0
	}
	return s.frames[0].Cols(), s.frames[0].Rows()
}

func (s *MockSource) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// Reset restarts playback from the beginning.
func (s *MockSource) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = 0
}

// SetFrames replaces the frame sequence.
func (s *MockSource) SetFrames(frames []*gocv.Mat) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = frames
	s.index = 0
}
