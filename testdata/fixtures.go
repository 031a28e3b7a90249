// Package testdata builds synthetic video frames for tests.
package testdata

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// Skin is a BGR color whose HSV representation lands inside the default
// skin band (roughly hue 8, saturation 140, value 200).
var Skin = color.RGBA{R: 200, G: 120, B: 90}

// BlankFrame returns an all-black color frame.
func BlankFrame(width, height int) gocv.Mat {
	return gocv.NewMatWithSize(height, width, gocv.MatTypeCV8UC3)
}

// SkinBlobFrame returns a black frame with a filled skin-toned square
// of the given half-size centered at center.
func SkinBlobFrame(width, height int, center image.Point, halfSize int) gocv.Mat {
	frame := BlankFrame(width, height)
	rect := image.Rect(center.X-halfSize, center.Y-halfSize, center.X+halfSize, center.Y+halfSize)
	gocv.Rectangle(&frame, rect, Skin, -1)
	return frame
}

// CloseFrames closes every frame in the slice.
func CloseFrames(frames []*gocv.Mat) {
	for _, f := range frames {
		f.Close()
	}
}
