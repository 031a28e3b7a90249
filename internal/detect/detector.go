package detect

import "gocv.io/x/gocv"

// Detector finds head candidates in a single video frame.
type Detector interface {
	// Detect returns the skin-colored regions found in frame. An empty
	// slice means nothing was detected; that is not an error.
	Detect(frame *gocv.Mat) ([]Candidate, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for skin detection.
type Config struct {
	// Band is the HSV range selecting skin-toned pixels.
	Band SkinBand

	// MinArea drops regions with a smaller bounding box area (pixels).
	MinArea int
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{Band: DefaultSkinBand()}
}

// SkinDetector chains segmentation and candidate extraction over GoCV.
type SkinDetector struct {
	segmenter *Segmenter
	extractor *Extractor
}

// NewSkinDetector creates a SkinDetector with the given configuration.
func NewSkinDetector(cfg Config) *SkinDetector {
	return &SkinDetector{
		segmenter: NewSegmenter(cfg.Band),
		extractor: NewExtractor(cfg.MinArea),
	}
}

// Detect segments frame and extracts one candidate per connected
// region. A nil or empty frame is rejected with ErrEmptyFrame.
func (d *SkinDetector) Detect(frame *gocv.Mat) ([]Candidate, error) {
	mask, err := d.segmenter.Mask(frame)
	if err != nil {
		mask.Close()
		return nil, err
	}
	defer mask.Close()

	return d.extractor.Candidates(&mask)
}

// Close is a no-op; the detector holds no long-lived resources.
func (d *SkinDetector) Close() error {
	return nil
}
