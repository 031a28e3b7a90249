// Package detect provides skin-region segmentation and candidate
// extraction for single-landmark tracking.
package detect

import "math"

// Point is an integer pixel coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// DistanceTo returns the Euclidean distance to q in pixels.
func (p Point) DistanceTo(q Point) float64 {
	dx := float64(p.X - q.X)
	dy := float64(p.Y - q.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// BoundingBox is the axis-aligned extent of a detected region.
type BoundingBox struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Area returns the box area in pixels.
func (b BoundingBox) Area() int {
	return b.Width * b.Height
}

// Centroid returns the box center on the pixel grid. Integer division
// floors, matching OpenCV bounding-rect conventions.
func (b BoundingBox) Centroid() Point {
	return Point{X: b.X + b.Width/2, Y: b.Y + b.Height/2}
}

// Candidate is one skin-colored region found in a frame.
type Candidate struct {
	Box      BoundingBox `json:"box"`
	Centroid Point       `json:"centroid"`
}
