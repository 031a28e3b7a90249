package detect

import (
	"errors"
	"image"

	"gocv.io/x/gocv"
)

// ErrEmptyFrame is returned when a nil or zero-area image is passed in.
var ErrEmptyFrame = errors.New("empty frame")

// MorphKernelSize is the diameter of the elliptical structuring element
// used for the closing and opening passes.
const MorphKernelSize = 5

// SkinBand is an inclusive HSV range on OpenCV's 8-bit scale
// (hue 0-180, saturation and value 0-255).
type SkinBand struct {
	LowHue, LowSat, LowVal    float64
	HighHue, HighSat, HighVal float64
}

// DefaultSkinBand covers common skin tones under daylight.
func DefaultSkinBand() SkinBand {
	return SkinBand{
		LowHue: 0, LowSat: 20, LowVal: 70,
		HighHue: 20, HighSat: 255, HighVal: 255,
	}
}

// Segmenter converts a color frame into a binary mask of skin-toned
// pixels. It holds no per-frame state and is safe for concurrent use.
type Segmenter struct {
	band SkinBand
}

// NewSegmenter creates a Segmenter selecting pixels inside band.
func NewSegmenter(band SkinBand) *Segmenter {
	return &Segmenter{band: band}
}

// Mask segments frame into a binary mask of the same spatial size.
// The caller owns the returned Mat and must Close it.
//
// Algorithm:
// 1. Convert BGR to HSV
// 2. Keep pixels inside the skin band
// 3. Morphological close (5x5 ellipse) to fill small gaps
// 4. Morphological open (same kernel) to drop speckle noise
func (s *Segmenter) Mask(frame *gocv.Mat) (gocv.Mat, error) {
	if frame == nil || frame.Empty() {
		return gocv.NewMat(), ErrEmptyFrame
	}

	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(*frame, &hsv, gocv.ColorBGRToHSV)

	mask := gocv.NewMat()
	lower := gocv.NewScalar(s.band.LowHue, s.band.LowSat, s.band.LowVal, 0)
	upper := gocv.NewScalar(s.band.HighHue, s.band.HighSat, s.band.HighVal, 0)
	gocv.InRangeWithScalar(hsv, lower, upper, &mask)

	kernel := gocv.GetStructuringElement(gocv.MorphEllipse, image.Pt(MorphKernelSize, MorphKernelSize))
	defer kernel.Close()

	gocv.MorphologyEx(mask, &mask, gocv.MorphClose, kernel)
	gocv.MorphologyEx(mask, &mask, gocv.MorphOpen, kernel)

	return mask, nil
}
