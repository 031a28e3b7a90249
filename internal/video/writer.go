package video

import (
	"errors"
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// Codec is the FOURCC used for output files. MJPG trades file size for
// broad player compatibility.
const Codec = "MJPG"

// ErrWriterClosed is returned when writing to a closed Writer.
var ErrWriterClosed = errors.New("video writer is closed")

// Writer encodes annotated frames into a video file.
type Writer struct {
	writer *gocv.VideoWriter
	mu     sync.Mutex
	frames int
}

// NewWriter opens an MJPG video file for writing. Frames must match the
// given dimensions. A non-positive fps falls back to 30.
func NewWriter(path string, fps float64, width, height int) (*Writer, error) {
	if fps <= 0 {
		fps = 30
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid output size %dx%d", width, height)
	}

	w, err := gocv.VideoWriterFile(path, Codec, fps, width, height, true)
	if err != nil {
		return nil, fmt.Errorf("open writer %s: %w", path, err)
	}
	if !w.IsOpened() {
		w.Close()
		return nil, fmt.Errorf("open writer %s: codec %s unavailable", path, Codec)
	}

	return &Writer{writer: w}, nil
}

// Write appends one frame to the output file.
func (w *Writer) Write(frame *gocv.Mat) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.writer == nil {
		return ErrWriterClosed
	}
	if frame == nil || frame.Empty() {
		return errors.New("empty frame")
	}

	if err := w.writer.Write(*frame); err != nil {
		return err
	}
	w.frames++
	return nil
}

// Frames returns how many frames have been written.
func (w *Writer) Frames() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.frames
}

// Close finalizes the output file. Safe to call more than once.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.writer == nil {
		return nil
	}

	err := w.writer.Close()
	w.writer = nil
	return err
}
