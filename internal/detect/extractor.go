package detect

import "gocv.io/x/gocv"

// Extractor reduces a binary mask to candidate regions.
type Extractor struct {
	minArea int
}

// NewExtractor creates an Extractor. Regions whose bounding box area is
// below minArea are dropped; pass 0 to keep everything.
func NewExtractor(minArea int) *Extractor {
	return &Extractor{minArea: minArea}
}

// Candidates finds all connected foreground regions, nested contours
// included, and reduces each to its bounding box and centroid. The
// result follows contour discovery order and carries no meaning beyond
// what the tracker defines.
func (e *Extractor) Candidates(mask *gocv.Mat) ([]Candidate, error) {
	if mask == nil || mask.Empty() {
		return nil, ErrEmptyFrame
	}

	hierarchy := gocv.NewMat()
	defer hierarchy.Close()

	contours := gocv.FindContoursWithParams(*mask, &hierarchy, gocv.RetrievalTree, gocv.ChainApproxSimple)
	defer contours.Close()

	candidates := make([]Candidate, 0, contours.Size())
	for i := 0; i < contours.Size(); i++ {
		rect := gocv.BoundingRect(contours.At(i))
		box := BoundingBox{X: rect.Min.X, Y: rect.Min.Y, Width: rect.Dx(), Height: rect.Dy()}
		if box.Area() < e.minArea {
			continue
		}
		candidates = append(candidates, Candidate{Box: box, Centroid: box.Centroid()})
	}

	return candidates, nil
}
