// Package video provides frame sources and writers over GoCV (OpenCV).
package video

import (
	"errors"
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// Source errors.
var (
	// ErrSourceNotOpen is returned when reading from a source that has
	// not been opened.
	ErrSourceNotOpen = errors.New("video source is not open")
	// ErrEndOfStream signals a normal end of input.
	ErrEndOfStream = errors.New("end of stream")
)

// Source is a sequential supplier of decoded color frames.
type Source interface {
	Open() error
	Close() error
	// ReadFrame returns the next frame. The caller is responsible for
	// closing the returned Mat. ErrEndOfStream marks a normal end.
	ReadFrame() (*gocv.Mat, error)
	FPS() float64
	Size() (width, height int)
	IsOpen() bool
}

// FileSource reads frames from a video file using GoCV.
type FileSource struct {
	path    string
	capture *gocv.VideoCapture
	mu      sync.Mutex
	open    bool
	fps     float64
	width   int
	height  int
}

// NewFileSource creates a FileSource for the given video file path.
// The file is not touched until Open is called.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Open opens the video file and reads its metadata.
func (s *FileSource) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.open {
		return nil
	}

	capture, err := gocv.OpenVideoCapture(s.path)
	if err != nil {
		return fmt.Errorf("open %s: %w", s.path, err)
	}

	s.capture = capture
	s.fps = capture.Get(gocv.VideoCaptureFPS)
	s.width = int(capture.Get(gocv.VideoCaptureFrameWidth))
	s.height = int(capture.Get(gocv.VideoCaptureFrameHeight))
	s.open = true

	return nil
}

// Close releases the underlying capture.
func (s *FileSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open || s.capture == nil {
		s.open = false
		return nil
	}

	err := s.capture.Close()
	s.capture = nil
	s.open = false

	return err
}

// ReadFrame reads the next decoded frame. The caller must Close the
// returned Mat. A failed read or an empty decode ends the stream.
func (s *FileSource) ReadFrame() (*gocv.Mat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open || s.capture == nil {
		return nil, ErrSourceNotOpen
	}

	mat := gocv.NewMat()
	if ok := s.capture.Read(&mat); !ok {
		mat.Close()
		return nil, ErrEndOfStream
	}

	if mat.Empty() {
		mat.Close()
		return nil, ErrEndOfStream
	}

	return &mat, nil
}

// FPS returns the container frame rate, or 0 before Open.
func (s *FileSource) FPS() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fps
}

// Size returns the frame dimensions, or zeros before Open.
func (s *FileSource) Size() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

// IsOpen returns true if the source is currently open.
func (s *FileSource) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}
