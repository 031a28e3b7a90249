package swing

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"gocv.io/x/gocv"

	"github.com/ravin/steadyhead/internal/annotate"
	"github.com/ravin/steadyhead/internal/detect"
	"github.com/ravin/steadyhead/internal/track"
	"github.com/ravin/steadyhead/internal/video"
)

// ErrInvalidInput flags configuration rejected before any frame is
// processed.
var ErrInvalidInput = errors.New("invalid input")

// DefaultWorkers bounds the concurrent detection stage.
const DefaultWorkers = 4

// Config fixes the reference geometry for one analysis run. Every
// point is expressed in the pixel space of the frames actually
// processed; the gate and the circle share that one space, so there is
// no hidden rescaling between tracking and classification.
type Config struct {
	Spine       SpineReference
	Circle      ToleranceCircle
	InitialHead detect.Point
	GateRadius  float64 // 0 means track.DefaultGateRadius
	Workers     int     // 0 means DefaultWorkers
}

// Validate fails fast on configuration that would make the run
// meaningless. It is called before frame 0 is touched.
func (c Config) Validate() error {
	if c.Circle.Radius <= 0 {
		return fmt.Errorf("%w: tolerance radius must be positive, got %d", ErrInvalidInput, c.Circle.Radius)
	}
	if c.GateRadius < 0 {
		return fmt.Errorf("%w: gate radius must not be negative, got %f", ErrInvalidInput, c.GateRadius)
	}
	if c.Spine.Shoulder == c.Spine.Hip {
		return fmt.Errorf("%w: shoulder and hip reference points coincide", ErrInvalidInput)
	}
	return nil
}

// Pipeline runs detection, tracking, classification and annotation
// over a frame sequence. The tracking recurrence is strictly
// sequential: frame i consumes frame i-1's position, so results are
// always produced in input order. Detection alone fans out to a
// bounded worker pool ahead of the tracker.
//
// A Pipeline instance covers exactly one run; the tracker state is
// never reset, so create a new Pipeline per video.
type Pipeline struct {
	cfg       Config
	detector  detect.Detector
	tracker   *track.Tracker
	annotator *annotate.Annotator
	workers   int
}

// New creates a Pipeline for one run. The detector is borrowed, not
// owned: the caller remains responsible for closing it.
func New(cfg Config, d detect.Detector) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("%w: nil detector", ErrInvalidInput)
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	return &Pipeline{
		cfg:       cfg,
		detector:  d,
		tracker:   track.NewWithGate(cfg.InitialHead, cfg.GateRadius),
		annotator: annotate.New(cfg.Spine.Shoulder, cfg.Spine.Hip, cfg.Circle.Center, cfg.Circle.Radius),
		workers:   workers,
	}, nil
}

// detection pairs a decoded frame with its candidates.
type detection struct {
	frame      gocv.Mat
	candidates []detect.Candidate
}

// Run streams one FrameResult per input frame to fn, in input order,
// and returns the run summary. fn owns each result's Image and must
// Close it. Returning an error from fn stops the run; results already
// delivered remain valid.
//
// A frame the detector rejects counts as zero candidates: the tracker
// holds its last known position and the run continues. A read error on
// the source ends the stream early with the partial summary.
func (p *Pipeline) Run(src video.Source, fn func(FrameResult) error) (Summary, error) {
	if fn == nil {
		return Summary{}, fmt.Errorf("%w: nil result callback", ErrInvalidInput)
	}

	// queue preserves input order: the producer enqueues one slot per
	// frame before handing the frame to a detection worker, and the
	// consumer below drains slots first-in first-out.
	queue := make(chan chan detection, p.workers)
	stop := make(chan struct{})
	var stopOnce sync.Once
	halt := func() { stopOnce.Do(func() { close(stop) }) }
	defer halt()

	go func() {
		defer close(queue)
		sem := make(chan struct{}, p.workers)
		for {
			frame, err := src.ReadFrame()
			if err != nil {
				if !errors.Is(err, video.ErrEndOfStream) {
					log.Printf("swing: stopping early, read frame: %v", err)
				}
				return
			}

			slot := make(chan detection, 1)
			select {
			case queue <- slot:
			case <-stop:
				frame.Close()
				return
			}

			sem <- struct{}{}
			go func(f *gocv.Mat) {
				defer func() { <-sem }()
				candidates, derr := p.detector.Detect(f)
				if derr != nil {
					// A corrupt frame degrades to zero candidates;
					// the tracker holds its last known position.
					log.Printf("swing: detect: %v", derr)
					candidates = nil
				}
				slot <- detection{frame: *f, candidates: candidates}
			}(frame)
		}
	}()

	var b summaryBuilder
	index := 0
	for slot := range queue {
		det := <-slot

		head := p.tracker.Advance(det.candidates)
		dist := Distance(head, p.cfg.Circle)
		outside := Outside(head, p.cfg.Circle)

		annotated := p.annotator.Annotate(&det.frame, head, outside)
		det.frame.Close()

		result := FrameResult{
			Index:    index,
			Image:    annotated,
			Head:     head,
			Distance: dist,
			Outside:  outside,
		}
		b.add(result)
		index++

		if err := fn(result); err != nil {
			halt()
			for pending := range queue {
				d := <-pending
				d.frame.Close()
			}
			return b.summary(), err
		}
	}

	return b.summary(), nil
}

// RunAll collects every FrameResult in memory and returns them with the
// summary. Convenience for short clips; long videos should use Run and
// stream results out to keep memory bounded.
func (p *Pipeline) RunAll(src video.Source) ([]FrameResult, Summary, error) {
	var results []FrameResult
	summary, err := p.Run(src, func(r FrameResult) error {
		results = append(results, r)
		return nil
	})
	return results, summary, err
}
