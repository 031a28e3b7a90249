package detect

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to script the detection results frame by frame.
// Safe for concurrent use; scripted entries are consumed in call
// order, so tests that need frame-addressed results should run the
// pipeline with a single detection worker.
type MockDetector struct {
	mu         sync.Mutex
	queue      [][]Candidate
	candidates []Candidate
	err        error
	calls      int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetCandidates sets the candidates returned by every Detect call once
// the scripted queue is exhausted.
func (m *MockDetector) SetCandidates(candidates []Candidate) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.candidates = candidates
}

// QueueCandidates appends a per-frame result to the scripted queue.
// Each Detect call consumes one queued entry in order.
func (m *MockDetector) QueueCandidates(candidates []Candidate) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, candidates)
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Detect has been invoked.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the next scripted result, the default candidates, or
// the configured error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if len(m.queue) > 0 {
		next := m.queue[0]
		m.queue = m.queue[1:]
		return next, nil
	}
	return m.candidates, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// BlobAt returns a square Candidate of the given half-size whose
// centroid lands exactly on p. Useful for scripting tracker scenarios.
func BlobAt(p Point, halfSize int) Candidate {
	box := BoundingBox{
		X:      p.X - halfSize,
		Y:      p.Y - halfSize,
		Width:  2 * halfSize,
		Height: 2 * halfSize,
	}
	return Candidate{Box: box, Centroid: box.Centroid()}
}
