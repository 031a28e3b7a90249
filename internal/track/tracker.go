// Package track implements gated nearest-neighbor tracking of a single
// landmark across frames.
package track

import "github.com/ravin/steadyhead/internal/detect"

// DefaultGateRadius is the association gate in pixels: candidates at or
// beyond this distance from the previous position are ignored. The gate
// lives in the same coordinate space as the processed frames.
const DefaultGateRadius = 200.0

// Tracker carries the current head position from frame to frame. It is
// memoryless beyond the last position: no velocity estimation, no
// multi-frame prediction, no re-acquisition search outside the gate.
//
// Not safe for concurrent use. The pipeline owns a single instance and
// advances it strictly in frame order.
type Tracker struct {
	gate    float64
	current detect.Point
}

// New creates a Tracker seeded with the user-marked head position.
func New(initial detect.Point) *Tracker {
	return NewWithGate(initial, DefaultGateRadius)
}

// NewWithGate creates a Tracker with a custom gating radius.
// Non-positive gates fall back to DefaultGateRadius.
func NewWithGate(initial detect.Point, gate float64) *Tracker {
	if gate <= 0 {
		gate = DefaultGateRadius
	}
	return &Tracker{gate: gate, current: initial}
}

// Position returns the current head position.
func (t *Tracker) Position() detect.Point {
	return t.current
}

// Gate returns the gating radius in pixels.
func (t *Tracker) Gate() float64 {
	return t.gate
}

// Advance associates the closest candidate within the gate and returns
// the updated position. With no qualifying candidate the previous
// position is held: a short occlusion or a noisy frame must not make
// the tracked point jump or disappear.
//
// Ties on distance keep the earliest candidate in slice order, so the
// result is deterministic for identical input.
func (t *Tracker) Advance(candidates []detect.Candidate) detect.Point {
	best := t.current
	bestDist := t.gate
	for _, c := range candidates {
		if d := c.Centroid.DistanceTo(t.current); d < bestDist {
			bestDist = d
			best = c.Centroid
		}
	}
	t.current = best
	return t.current
}
