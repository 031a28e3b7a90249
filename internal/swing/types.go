// Package swing implements the head-drift analysis pipeline for a golf
// swing video: per-frame detection, tracking, boundary classification
// and overlay rendering.
package swing

import (
	"gocv.io/x/gocv"

	"github.com/ravin/steadyhead/internal/detect"
)

// SpineReference is the shoulder-to-hip line marked by the user on the
// first frame. It is drawn on every frame and never tracked.
type SpineReference struct {
	Shoulder detect.Point `json:"shoulder"`
	Hip      detect.Point `json:"hip"`
}

// ToleranceCircle is the allowed head zone. It is fixed for the whole
// run; it does not follow the head.
type ToleranceCircle struct {
	Center detect.Point `json:"center"`
	Radius int          `json:"radius"`
}

// FrameResult is the per-frame output of the pipeline. Image is always
// a valid annotated copy of the input frame; whoever receives the
// result owns it and must Close it.
type FrameResult struct {
	Index    int
	Image    gocv.Mat
	Head     detect.Point
	Distance float64 // head distance from the circle center, in pixels
	Outside  bool
}

// Close releases the annotated frame.
func (r *FrameResult) Close() {
	r.Image.Close()
}
