package swing

import "gonum.org/v1/gonum/stat"

// Summary aggregates a full analysis run.
type Summary struct {
	TotalFrames    int     `json:"total_frames"`
	OutsideFrames  int     `json:"outside_frames"`
	OutsidePercent float64 `json:"outside_percent"`
	MeanDistance   float64 `json:"mean_distance"`
	MaxDistance    float64 `json:"max_distance"`
	StddevDistance float64 `json:"stddev_distance"`
}

// summaryBuilder accumulates per-frame statistics without retaining
// the frames themselves, so streaming runs stay bounded in memory.
type summaryBuilder struct {
	distances []float64
	outside   int
}

func (b *summaryBuilder) add(r FrameResult) {
	b.distances = append(b.distances, r.Distance)
	if r.Outside {
		b.outside++
	}
}

func (b *summaryBuilder) summary() Summary {
	s := Summary{
		TotalFrames:   len(b.distances),
		OutsideFrames: b.outside,
	}
	if s.TotalFrames == 0 {
		return s
	}

	s.OutsidePercent = float64(b.outside) / float64(s.TotalFrames) * 100
	s.MeanDistance = stat.Mean(b.distances, nil)
	if len(b.distances) > 1 {
		s.StddevDistance = stat.StdDev(b.distances, nil)
	}
	for _, d := range b.distances {
		if d > s.MaxDistance {
			s.MaxDistance = d
		}
	}

	return s
}

// Summarize computes the Summary for an already collected result
// sequence.
func Summarize(results []FrameResult) Summary {
	var b summaryBuilder
	for _, r := range results {
		b.add(r)
	}
	return b.summary()
}
