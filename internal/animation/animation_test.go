package animation

import (
	"context"
	"errors"
	"image/color"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Brandjuh/Cad-tag-generator/internal/frame"
	"github.com/Brandjuh/Cad-tag-generator/internal/pattern"
)

func TestNewTiming(t *testing.T) {
	tests := []struct {
		name     string
		duration float64
		fps      int
		frames   int
		delay    int
	}{
		{"default", 2, 24, 48, 42},
		{"minimum two frames", 0.01, 8, 2, 125},
		{"fps clamped high", 1, 100, 60, 17},
		{"fps clamped low", 1, 3, 8, 125},
		{"invalid duration", -1, 24, 48, 42},
		{"unset fps", 1, 0, 24, 42},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewTiming(tt.duration, tt.fps)
			assert.Equal(t, tt.frames, got.FrameCount)
			assert.Equal(t, tt.delay, got.DelayMs)
		})
	}
}

func TestPhases(t *testing.T) {
	timing := NewTiming(2, 24)

	inc := timing.Phases()
	require.Len(t, inc, 48)
	assert.Equal(t, 0.0, inc[0])
	assert.Equal(t, 1.0, inc[47])

	exc := timing.PhasesExclusive()
	require.Len(t, exc, 48)
	assert.Equal(t, 0.0, exc[0])
	for _, p := range exc {
		assert.Less(t, p, 1.0)
	}
}

// solidRasterizer renders a 1x1 frame with the solid plan colour.
type solidRasterizer struct {
	calls atomic.Int32
	fail  bool
}

func (r *solidRasterizer) FillArea() pattern.Rect { return pattern.Rect{W: 10, H: 4} }

func (r *solidRasterizer) Rasterize(plan pattern.FillPlan) (*frame.Frame, error) {
	r.calls.Add(1)
	if r.fail {
		return nil, errors.New("boom")
	}
	f := frame.New(1, 1)
	if s, ok := plan.(pattern.Solid); ok {
		f.Fill(s.Color)
	}
	return f, nil
}

func TestSample(t *testing.T) {
	params := pattern.DefaultParams()
	params.Pattern = pattern.Blink
	r := &solidRasterizer{}
	s := &Sampler{Rasterizer: r, Workers: 3, Logger: zaptest.NewLogger(t)}

	seq, err := s.Sample(context.Background(), params)
	require.NoError(t, err)
	require.NoError(t, seq.Validate(2))
	assert.Equal(t, 48, seq.Len())
	assert.EqualValues(t, 48, r.calls.Load())
	for _, d := range seq.Delays {
		assert.Equal(t, 42, d)
	}

	// frames are stored by phase index whatever the completion order
	assert.Equal(t, params.ColorB, seq.Frames[0].At(0, 0))
	assert.Equal(t, params.ColorA, seq.Frames[30].At(0, 0))
	assert.Equal(t, params.ColorB, seq.Frames[47].At(0, 0))
}

func TestSampleUsesSnapshot(t *testing.T) {
	params := pattern.DefaultParams()
	params.Pattern = pattern.Pulse
	params.FPS = 8
	params.DurationSeconds = 1

	s := &Sampler{Rasterizer: &solidRasterizer{}}
	seq, err := s.Sample(context.Background(), params)
	params.ColorA = color.NRGBA{G: 0xFF, A: 0xFF}
	require.NoError(t, err)
	assert.Equal(t, pattern.DefaultColorA, seq.Frames[0].At(0, 0))
}

func TestSampleErrors(t *testing.T) {
	_, err := (&Sampler{}).Sample(context.Background(), pattern.DefaultParams())
	assert.Error(t, err)

	_, err = (&Sampler{Rasterizer: &solidRasterizer{fail: true}}).Sample(context.Background(), pattern.DefaultParams())
	assert.ErrorContains(t, err, "boom")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = (&Sampler{Rasterizer: &solidRasterizer{}}).Sample(ctx, pattern.DefaultParams())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClock(t *testing.T) {
	c := NewClock(2 * time.Second)
	assert.InDelta(t, 0.25, c.NextPhase(500*time.Millisecond), 1e-9)
	assert.InDelta(t, 0.125, c.NextPhase(1750*time.Millisecond), 1e-9)
	assert.InDelta(t, 0.125, c.NextPhase(-time.Second), 1e-9)
	assert.InDelta(t, 0.125, c.Phase(), 1e-9)

	c.Reset()
	assert.Equal(t, 0.0, c.Phase())
	assert.InDelta(t, 0.5, NewClock(0).NextPhase(500*time.Millisecond), 1e-9)
}
