package animation

import (
	"math"

	"github.com/Brandjuh/Cad-tag-generator/internal/pattern"
)

// Timing is the frame layout of one animation cycle.
type Timing struct {
	FrameCount int
	DelayMs    int
}

// NewTiming derives the frame count and per-frame delay from a duration in
// seconds and a frame rate. The rate is clamped to [MinFPS, MaxFPS]; a
// non-positive or non-finite duration uses the default. There are always at
// least two frames.
func NewTiming(durationSeconds float64, fps int) Timing {
	fps = pattern.ClampFPS(fps)
	if math.IsNaN(durationSeconds) || math.IsInf(durationSeconds, 0) || durationSeconds <= 0 {
		durationSeconds = pattern.DefaultDuration
	}
	durationSeconds = math.Min(durationSeconds, pattern.MaxDuration)
	return Timing{
		FrameCount: max(2, int(math.Round(durationSeconds*float64(fps)))),
		DelayMs:    int(math.Round(1000 / float64(fps))),
	}
}

// Phases returns i/(n-1) for every frame, so the last frame lands on phase
// 1 and repeats the first.
func (t Timing) Phases() []float64 {
	n := max(t.FrameCount, 2)
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i) / float64(n-1)
	}
	return out
}

// PhasesExclusive returns i/n, which never reaches 1 and loops without a
// repeated frame.
func (t Timing) PhasesExclusive() []float64 {
	n := max(t.FrameCount, 2)
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i) / float64(n)
	}
	return out
}
