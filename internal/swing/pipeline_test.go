package swing

import (
	"errors"
	"image"
	"testing"

	"gocv.io/x/gocv"

	"github.com/ravin/steadyhead/internal/detect"
	"github.com/ravin/steadyhead/internal/video"
	"github.com/ravin/steadyhead/testdata"
)

func testConfig() Config {
	return Config{
		Spine:       SpineReference{Shoulder: detect.Point{X: 100, Y: 150}, Hip: detect.Point{X: 100, Y: 250}},
		Circle:      ToleranceCircle{Center: detect.Point{X: 100, Y: 100}, Radius: 50},
		InitialHead: detect.Point{X: 100, Y: 100},
		// A scripted MockDetector hands out entries in call order, so
		// scripted scenarios run with a single detection worker. The
		// multi-worker path is covered by the marker detector test.
		Workers: 1,
	}
}

// blankFrames builds n identical black frames for mock playback.
func blankFrames(n int) []*gocv.Mat {
	frames := make([]*gocv.Mat, n)
	for i := range frames {
		m := testdata.BlankFrame(320, 240)
		frames[i] = &m
	}
	return frames
}

func runScripted(t *testing.T, cfg Config, script [][]detect.Candidate) ([]FrameResult, Summary) {
	t.Helper()

	det := detect.NewMockDetector()
	for _, candidates := range script {
		det.QueueCandidates(candidates)
	}

	p, err := New(cfg, det)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	frames := blankFrames(len(script))
	defer testdata.CloseFrames(frames)

	src := video.NewMockSource(frames, 30)
	if err := src.Open(); err != nil {
		t.Fatalf("source Open() error = %v", err)
	}
	defer src.Close()

	results, summary, err := p.RunAll(src)
	if err != nil {
		t.Fatalf("RunAll() error = %v", err)
	}

	t.Cleanup(func() {
		for i := range results {
			results[i].Close()
		}
	})

	return results, summary
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "zero radius",
			mutate:  func(c *Config) { c.Circle.Radius = 0 },
			wantErr: true,
		},
		{
			name:    "negative radius",
			mutate:  func(c *Config) { c.Circle.Radius = -10 },
			wantErr: true,
		},
		{
			name:    "negative gate",
			mutate:  func(c *Config) { c.GateRadius = -1 },
			wantErr: true,
		},
		{
			name:    "degenerate spine",
			mutate:  func(c *Config) { c.Spine.Hip = c.Spine.Shoulder },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidInput) {
				t.Errorf("error %v does not wrap ErrInvalidInput", err)
			}
		})
	}
}

func TestNew_NilDetector(t *testing.T) {
	if _, err := New(testConfig(), nil); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("New(nil detector) error = %v, want ErrInvalidInput", err)
	}
}

func TestPipeline_StationaryBlobStaysInside(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	blob := detect.BlobAt(detect.Point{X: 100, Y: 100}, 10)
	results, summary := runScripted(t, testConfig(), [][]detect.Candidate{
		{blob}, {blob}, {blob},
	})

	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	for i, r := range results {
		if r.Outside {
			t.Errorf("frame %d classified outside, want inside", i)
		}
		if r.Head != (detect.Point{X: 100, Y: 100}) {
			t.Errorf("frame %d head = %+v, want (100,100)", i, r.Head)
		}
	}
	if summary.OutsideFrames != 0 {
		t.Errorf("OutsideFrames = %d, want 0", summary.OutsideFrames)
	}
}

func TestPipeline_ExcursionIsFlagged(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	home := detect.BlobAt(detect.Point{X: 100, Y: 100}, 10)
	away := detect.BlobAt(detect.Point{X: 200, Y: 100}, 10) // distance 100 > radius 50

	results, summary := runScripted(t, testConfig(), [][]detect.Candidate{
		{home}, {away}, {home},
	})

	want := []bool{false, true, false}
	for i, r := range results {
		if r.Outside != want[i] {
			t.Errorf("frame %d Outside = %v, want %v", i, r.Outside, want[i])
		}
	}
	if summary.OutsideFrames != 1 {
		t.Errorf("OutsideFrames = %d, want 1", summary.OutsideFrames)
	}
}

func TestPipeline_BoundaryCountsInside(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	// Distance exactly equal to the radius is inside; only strictly
	// greater counts as outside.
	onRing := detect.BlobAt(detect.Point{X: 150, Y: 100}, 10) // distance 50 == radius 50
	beyond := detect.BlobAt(detect.Point{X: 151, Y: 100}, 10)

	results, summary := runScripted(t, testConfig(), [][]detect.Candidate{
		{onRing}, {beyond},
	})

	if results[0].Outside {
		t.Errorf("frame 0 at distance %.1f classified outside, want inside", results[0].Distance)
	}
	if !results[1].Outside {
		t.Errorf("frame 1 at distance %.1f classified inside, want outside", results[1].Distance)
	}
	if summary.OutsideFrames != 1 {
		t.Errorf("OutsideFrames = %d, want 1", summary.OutsideFrames)
	}
}

func TestPipeline_HoldsLastKnownOnBlankFrame(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	moved := detect.BlobAt(detect.Point{X: 130, Y: 110}, 10)

	results, _ := runScripted(t, testConfig(), [][]detect.Candidate{
		{moved}, nil, {moved},
	})

	// Frame 1 had no candidates: the position must equal frame 0's
	// exactly, not some default or the initial head point.
	if results[1].Head != results[0].Head {
		t.Errorf("frame 1 head = %+v, want frame 0's %+v", results[1].Head, results[0].Head)
	}
	if results[1].Head != (detect.Point{X: 130, Y: 110}) {
		t.Errorf("frame 1 head = %+v, want (130,110)", results[1].Head)
	}
}

func TestPipeline_GatePrefersInRangeCandidate(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	near := detect.BlobAt(detect.Point{X: 140, Y: 100}, 3)
	far := detect.BlobAt(detect.Point{X: 600, Y: 600}, 80) // bigger, but out of gate

	results, _ := runScripted(t, testConfig(), [][]detect.Candidate{
		{far, near},
	})

	if results[0].Head != near.Centroid {
		t.Errorf("head = %+v, want in-gate candidate %+v", results[0].Head, near.Centroid)
	}
}

func TestPipeline_DetectorErrorDegradesToHold(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	moved := detect.BlobAt(detect.Point{X: 120, Y: 95}, 10)

	det := &flakyDetector{
		inner:    detect.NewMockDetector(),
		failCall: 2,
	}
	det.inner.SetCandidates([]detect.Candidate{moved})

	p, err := New(testConfig(), det)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	frames := blankFrames(3)
	defer testdata.CloseFrames(frames)

	src := video.NewMockSource(frames, 30)
	src.Open()
	defer src.Close()

	results, summary, err := p.RunAll(src)
	if err != nil {
		t.Fatalf("RunAll() error = %v, a bad frame must not abort the run", err)
	}
	defer func() {
		for i := range results {
			results[i].Close()
		}
	}()

	if summary.TotalFrames != 3 {
		t.Fatalf("TotalFrames = %d, want 3", summary.TotalFrames)
	}
	if results[1].Head != results[0].Head {
		t.Errorf("failed frame head = %+v, want held %+v", results[1].Head, results[0].Head)
	}
}

// flakyDetector fails exactly one Detect call and delegates otherwise.
type flakyDetector struct {
	inner    *detect.MockDetector
	failCall int
	calls    int
}

func (d *flakyDetector) Detect(frame *gocv.Mat) ([]detect.Candidate, error) {
	d.calls++
	if d.calls == d.failCall {
		return nil, errors.New("decode garbage")
	}
	return d.inner.Detect(frame)
}

func (d *flakyDetector) Close() error { return nil }

func TestPipeline_Deterministic(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	script := [][]detect.Candidate{
		{detect.BlobAt(detect.Point{X: 100, Y: 100}, 8)},
		{detect.BlobAt(detect.Point{X: 170, Y: 100}, 8)},
		nil,
		{detect.BlobAt(detect.Point{X: 120, Y: 130}, 8)},
	}

	first, firstSummary := runScripted(t, testConfig(), script)
	second, secondSummary := runScripted(t, testConfig(), script)

	if len(first) != len(second) {
		t.Fatalf("result counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Head != second[i].Head || first[i].Outside != second[i].Outside {
			t.Errorf("frame %d differs: %+v/%v vs %+v/%v",
				i, first[i].Head, first[i].Outside, second[i].Head, second[i].Outside)
		}
	}
	if firstSummary != secondSummary {
		t.Errorf("summaries differ: %+v vs %+v", firstSummary, secondSummary)
	}
}

// markerDetector derives its result from the frame itself: the first
// byte of the frame carries the frame index, and the reported blob
// drifts right with it. Because the result depends only on the frame,
// it stays correct however the worker pool schedules Detect calls.
type markerDetector struct{}

func (markerDetector) Detect(frame *gocv.Mat) ([]detect.Candidate, error) {
	i := int(frame.GetUCharAt(0, 0))
	return []detect.Candidate{detect.BlobAt(detect.Point{X: 100 + 15*i, Y: 100}, 6)}, nil
}

func (markerDetector) Close() error { return nil }

func TestPipeline_OrderPreservedWithWorkers(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	cfg := testConfig()
	cfg.Workers = 4
	cfg.GateRadius = 500

	// The blob drifts right 15 pixels per frame; with concurrent
	// detection the consumer must still see frames in input order for
	// the recurrence to follow the drift.
	const frameCount = 12
	frames := make([]*gocv.Mat, frameCount)
	for i := range frames {
		m := testdata.BlankFrame(320, 240)
		m.SetUCharAt(0, 0, uint8(i))
		frames[i] = &m
	}
	defer testdata.CloseFrames(frames)

	p, err := New(cfg, markerDetector{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	src := video.NewMockSource(frames, 30)
	src.Open()
	defer src.Close()

	results, summary, err := p.RunAll(src)
	if err != nil {
		t.Fatalf("RunAll() error = %v", err)
	}
	defer func() {
		for i := range results {
			results[i].Close()
		}
	}()

	if summary.TotalFrames != frameCount {
		t.Fatalf("TotalFrames = %d, want %d", summary.TotalFrames, frameCount)
	}
	for i, r := range results {
		if r.Index != i {
			t.Errorf("result %d has index %d", i, r.Index)
		}
		want := detect.Point{X: 100 + 15*i, Y: 100}
		if r.Head != want {
			t.Errorf("frame %d head = %+v, want %+v", i, r.Head, want)
		}
	}
}

func TestPipeline_SummaryMatchesResults(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	script := [][]detect.Candidate{
		{detect.BlobAt(detect.Point{X: 100, Y: 100}, 8)},
		{detect.BlobAt(detect.Point{X: 190, Y: 100}, 8)},
		{detect.BlobAt(detect.Point{X: 180, Y: 100}, 8)},
		{detect.BlobAt(detect.Point{X: 100, Y: 100}, 8)},
	}

	results, summary := runScripted(t, testConfig(), script)

	outside := 0
	for _, r := range results {
		if r.Outside {
			outside++
		}
	}
	if summary.OutsideFrames != outside {
		t.Errorf("OutsideFrames = %d, counted %d in results", summary.OutsideFrames, outside)
	}
	if summary.TotalFrames != len(results) {
		t.Errorf("TotalFrames = %d, got %d results", summary.TotalFrames, len(results))
	}
	if got := Summarize(results); got != summary {
		t.Errorf("Summarize(results) = %+v, pipeline summary = %+v", got, summary)
	}
}

func TestPipeline_CallbackErrorStopsRun(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	det := detect.NewMockDetector()
	det.SetCandidates([]detect.Candidate{detect.BlobAt(detect.Point{X: 100, Y: 100}, 8)})

	p, err := New(testConfig(), det)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	frames := blankFrames(10)
	defer testdata.CloseFrames(frames)

	src := video.NewMockSource(frames, 30)
	src.Open()
	defer src.Close()

	sentinel := errors.New("stop here")
	delivered := 0
	summary, err := p.Run(src, func(r FrameResult) error {
		delivered++
		r.Close()
		if delivered == 2 {
			return sentinel
		}
		return nil
	})

	if !errors.Is(err, sentinel) {
		t.Fatalf("Run() error = %v, want sentinel", err)
	}
	if delivered != 2 {
		t.Errorf("delivered %d results after stop, want 2", delivered)
	}
	// Partial results remain valid and are reflected in the summary.
	if summary.TotalFrames != 2 {
		t.Errorf("partial TotalFrames = %d, want 2", summary.TotalFrames)
	}
}

func TestPipeline_EndToEndWithRealDetector(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	// Real segmentation over synthetic skin blobs: frame 1 stays put,
	// frame 2 jumps outside the circle, frame 3 returns.
	f1 := testdata.SkinBlobFrame(320, 240, image.Pt(100, 100), 20)
	f2 := testdata.SkinBlobFrame(320, 240, image.Pt(200, 100), 20)
	f3 := testdata.SkinBlobFrame(320, 240, image.Pt(100, 100), 20)
	frames := []*gocv.Mat{&f1, &f2, &f3}
	defer testdata.CloseFrames(frames)

	det := detect.NewSkinDetector(detect.DefaultConfig())
	defer det.Close()

	p, err := New(testConfig(), det)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	src := video.NewMockSource(frames, 30)
	src.Open()
	defer src.Close()

	results, summary, err := p.RunAll(src)
	if err != nil {
		t.Fatalf("RunAll() error = %v", err)
	}
	defer func() {
		for i := range results {
			results[i].Close()
		}
	}()

	want := []bool{false, true, false}
	for i, r := range results {
		if r.Outside != want[i] {
			t.Errorf("frame %d Outside = %v (head %+v, distance %.1f), want %v",
				i, r.Outside, r.Head, r.Distance, want[i])
		}
	}
	if summary.OutsideFrames != 1 {
		t.Errorf("OutsideFrames = %d, want 1", summary.OutsideFrames)
	}
}
