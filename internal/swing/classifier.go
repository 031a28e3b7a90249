package swing

import "github.com/ravin/steadyhead/internal/detect"

// Distance returns the Euclidean distance from pos to the circle center.
func Distance(pos detect.Point, circle ToleranceCircle) float64 {
	return pos.DistanceTo(circle.Center)
}

// Outside reports whether pos lies strictly beyond the circle radius.
// A position exactly on the boundary counts as inside. The result
// depends only on the arguments, never on history.
func Outside(pos detect.Point, circle ToleranceCircle) bool {
	return Distance(pos, circle) > float64(circle.Radius)
}
