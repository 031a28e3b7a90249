// Package app provides the main application logic for the Steadyhead swing analyzer.
package app

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
	"gocv.io/x/gocv"

	"github.com/ravin/steadyhead/internal/detect"
	"github.com/ravin/steadyhead/internal/store"
	"github.com/ravin/steadyhead/internal/swing"
	"github.com/ravin/steadyhead/internal/video"
)

// ErrBusy is returned when an analysis is requested while another run
// is still in progress.
var ErrBusy = errors.New("analysis already running")

// fallbackFPS is used for annotated output when the source does not
// report a frame rate.
const fallbackFPS = 30

// Config holds configuration options for the application.
type Config struct {
	Store      *store.Store
	GateRadius float64
	Workers    int
}

// Request describes one analysis run: the video to process and the
// reference geometry, all in processed-frame pixel coordinates. The
// tolerance circle is centered on the initial head position.
type Request struct {
	VideoPath  string
	OutputPath string // optional annotated video destination
	Head       detect.Point
	Shoulder   detect.Point
	Hip        detect.Point
	Radius     int
	GateRadius float64 // 0 means the configured default
	Workers    int     // 0 means the configured default
}

// Progress is published to subscribers once per processed frame.
type Progress struct {
	RunID    string  `json:"run_id"`
	Frame    int     `json:"frame"`
	X        int     `json:"x"`
	Y        int     `json:"y"`
	Distance float64 `json:"distance"`
	Outside  bool    `json:"outside"`
	Done     bool    `json:"done"`
}

// App orchestrates analysis runs: it wires a video source and detector
// into the swing pipeline, streams progress to subscribers, and
// persists results. Only one run is active at a time.
type App struct {
	config Config

	mu          sync.RWMutex
	running     bool
	currentID   string
	latestJPEG  []byte
	subscribers map[chan Progress]struct{}

	newSource   func(path string) video.Source
	newDetector func() detect.Detector
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	return &App{
		config:      config,
		subscribers: make(map[chan Progress]struct{}),
		newSource: func(path string) video.Source {
			return video.NewFileSource(path)
		},
		newDetector: func() detect.Detector {
			return detect.NewSkinDetector(detect.DefaultConfig())
		},
	}
}

// SetSourceFactory overrides how video sources are opened.
func (a *App) SetSourceFactory(f func(path string) video.Source) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.newSource = f
}

// SetDetectorFactory overrides how detectors are created.
func (a *App) SetDetectorFactory(f func() detect.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.newDetector = f
}

// IsRunning reports whether an analysis is currently in progress.
func (a *App) IsRunning() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.running
}

// CurrentRunID returns the id of the run in progress, or the last
// completed run.
func (a *App) CurrentRunID() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.currentID
}

// LatestFrameJPEG returns the most recent annotated frame as JPEG
// bytes, or nil when no frame has been processed yet.
func (a *App) LatestFrameJPEG() []byte {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.latestJPEG
}

// Subscribe registers a progress listener. The returned cancel func
// must be called to release it. Slow listeners miss updates rather
// than stalling the run.
func (a *App) Subscribe() (<-chan Progress, func()) {
	ch := make(chan Progress, 16)

	a.mu.Lock()
	a.subscribers[ch] = struct{}{}
	a.mu.Unlock()

	cancel := func() {
		a.mu.Lock()
		delete(a.subscribers, ch)
		a.mu.Unlock()
	}
	return ch, cancel
}

func (a *App) publish(p Progress) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	for ch := range a.subscribers {
		select {
		case ch <- p:
		default:
		}
	}
}

// Analyze runs the full pipeline over the requested video and persists
// the run. It blocks until the video is fully processed and returns
// the stored run record.
func (a *App) Analyze(req Request) (*store.Run, error) {
	if req.VideoPath == "" {
		return nil, fmt.Errorf("%w: missing video path", swing.ErrInvalidInput)
	}

	a.mu.Lock()
	if a.running {
		a.mu.Unlock()
		return nil, ErrBusy
	}
	runID := uuid.NewString()
	a.running = true
	a.currentID = runID
	newSource, newDetector := a.newSource, a.newDetector
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		a.running = false
		a.mu.Unlock()
	}()

	gate := req.GateRadius
	if gate <= 0 {
		gate = a.config.GateRadius
	}
	workers := req.Workers
	if workers <= 0 {
		workers = a.config.Workers
	}

	cfg := swing.Config{
		Spine:       swing.SpineReference{Shoulder: req.Shoulder, Hip: req.Hip},
		Circle:      swing.ToleranceCircle{Center: req.Head, Radius: req.Radius},
		InitialHead: req.Head,
		GateRadius:  gate,
		Workers:     workers,
	}

	det := newDetector()
	defer det.Close()

	pipeline, err := swing.New(cfg, det)
	if err != nil {
		return nil, err
	}

	src := newSource(req.VideoPath)
	if err := src.Open(); err != nil {
		return nil, fmt.Errorf("open video %s: %w", req.VideoPath, err)
	}
	defer src.Close()

	var writer *video.Writer
	if req.OutputPath != "" {
		fps := src.FPS()
		if fps <= 0 {
			fps = fallbackFPS
		}
		w, h := src.Size()
		writer, err = video.NewWriter(req.OutputPath, fps, w, h)
		if err != nil {
			return nil, fmt.Errorf("open output %s: %w", req.OutputPath, err)
		}
		defer writer.Close()
	}

	var frames []store.Frame
	summary, err := pipeline.Run(src, func(r swing.FrameResult) error {
		defer r.Close()

		if writer != nil {
			if werr := writer.Write(&r.Image); werr != nil {
				return werr
			}
		}

		if buf, jerr := gocv.IMEncode(gocv.JPEGFileExt, r.Image); jerr != nil {
			log.Printf("app: encode frame %d: %v", r.Index, jerr)
		} else {
			jpeg := make([]byte, len(buf.GetBytes()))
			copy(jpeg, buf.GetBytes())
			buf.Close()
			a.mu.Lock()
			a.latestJPEG = jpeg
			a.mu.Unlock()
		}

		frames = append(frames, store.Frame{
			Index:    r.Index,
			HeadX:    r.Head.X,
			HeadY:    r.Head.Y,
			Distance: r.Distance,
			Outside:  r.Outside,
		})

		a.publish(Progress{
			RunID:    runID,
			Frame:    r.Index,
			X:        r.Head.X,
			Y:        r.Head.Y,
			Distance: r.Distance,
			Outside:  r.Outside,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	run := &store.Run{
		ID:             runID,
		VideoPath:      req.VideoPath,
		OutputPath:     req.OutputPath,
		ShoulderX:      req.Shoulder.X,
		ShoulderY:      req.Shoulder.Y,
		HipX:           req.Hip.X,
		HipY:           req.Hip.Y,
		CenterX:        req.Head.X,
		CenterY:        req.Head.Y,
		Radius:         req.Radius,
		TotalFrames:    summary.TotalFrames,
		OutsideFrames:  summary.OutsideFrames,
		OutsidePercent: summary.OutsidePercent,
		MeanDistance:   summary.MeanDistance,
		MaxDistance:    summary.MaxDistance,
		StddevDistance: summary.StddevDistance,
	}

	if a.config.Store != nil {
		if err := a.config.Store.Runs().Create(run); err != nil {
			return nil, fmt.Errorf("persist run: %w", err)
		}
		if err := a.config.Store.Frames().Create(run.ID, frames); err != nil {
			return nil, fmt.Errorf("persist frames: %w", err)
		}
	}

	lastFrame := summary.TotalFrames - 1
	if lastFrame < 0 {
		lastFrame = 0
	}
	a.publish(Progress{RunID: runID, Frame: lastFrame, Done: true})

	log.Printf("Run %s complete: %d/%d frames outside (%.1f%%)",
		runID, summary.OutsideFrames, summary.TotalFrames, summary.OutsidePercent)

	return run, nil
}
