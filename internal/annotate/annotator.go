// Package annotate renders the analysis overlay onto video frames.
package annotate

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/ravin/steadyhead/internal/detect"
)

// Overlay drawing constants.
const (
	// LineThickness is used for the spine line, the tolerance ring and
	// the caption strokes.
	LineThickness = 2
	// MarkerRadius is the radius of the filled head marker.
	MarkerRadius = 5
	// CaptionScale is the Hershey font scale of the status caption.
	CaptionScale = 0.8

	// InsideCaption and OutsideCaption are the status texts.
	InsideCaption  = "HEAD INSIDE"
	OutsideCaption = "HEAD OUTSIDE"
)

// Overlay colors. The marker color is distinct from both ring colors so
// the current position stays visually separable from the classification.
var (
	SpineColor     = color.RGBA{G: 255}         // green
	NormalColor    = color.RGBA{G: 255}         // green ring while inside
	ViolationColor = color.RGBA{R: 255}         // red ring while outside
	MarkerColor    = color.RGBA{R: 255, G: 255} // yellow head marker
)

// captionOrigin is the fixed screen position of the status caption.
var captionOrigin = image.Pt(10, 30)

// Annotator draws the spine reference, tolerance ring, head marker and
// status caption. The reference geometry is fixed at construction and
// never changes during a run.
type Annotator struct {
	spineTop    detect.Point
	spineBottom detect.Point
	center      detect.Point
	radius      int
}

// New creates an Annotator for the given reference geometry: the
// shoulder and hip midpoints of the spine line and the tolerance circle.
func New(spineTop, spineBottom, circleCenter detect.Point, radius int) *Annotator {
	return &Annotator{
		spineTop:    spineTop,
		spineBottom: spineBottom,
		center:      circleCenter,
		radius:      radius,
	}
}

// Annotate returns an annotated copy of frame. The input frame is never
// written to, and OpenCV clips any drawing that falls outside the frame
// bounds. The caller owns the returned Mat.
//
// Draw order: spine line, tolerance ring, head marker, status caption.
func (a *Annotator) Annotate(frame *gocv.Mat, head detect.Point, outside bool) gocv.Mat {
	out := frame.Clone()

	gocv.Line(&out,
		image.Pt(a.spineTop.X, a.spineTop.Y),
		image.Pt(a.spineBottom.X, a.spineBottom.Y),
		SpineColor, LineThickness)

	ring := NormalColor
	caption := InsideCaption
	if outside {
		ring = ViolationColor
		caption = OutsideCaption
	}

	gocv.Circle(&out, image.Pt(a.center.X, a.center.Y), a.radius, ring, LineThickness)
	gocv.Circle(&out, image.Pt(head.X, head.Y), MarkerRadius, MarkerColor, -1)
	gocv.PutText(&out, caption, captionOrigin, gocv.FontHersheySimplex, CaptionScale, ring, LineThickness)

	return out
}
