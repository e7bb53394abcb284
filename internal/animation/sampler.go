package animation

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Brandjuh/Cad-tag-generator/internal/frame"
	"github.com/Brandjuh/Cad-tag-generator/internal/pattern"
)

// Rasterizer turns a fill plan into a captured frame. Implementations must
// be safe for concurrent use.
type Rasterizer interface {
	Rasterize(plan pattern.FillPlan) (*frame.Frame, error)
	FillArea() pattern.Rect
}

// Sampler renders one animation cycle into a frame sequence.
type Sampler struct {
	Rasterizer Rasterizer
	// Workers bounds parallel rendering; <=0 uses GOMAXPROCS.
	Workers int
	// Exclusive samples phases i/n instead of i/(n-1).
	Exclusive bool
	Logger    *zap.Logger
}

// Sample renders every phase of one cycle. params is sanitized and copied
// once up front; later changes by the caller do not affect the result.
func (s *Sampler) Sample(ctx context.Context, params pattern.Params) (*frame.Sequence, error) {
	if s.Rasterizer == nil {
		return nil, errors.New("sampler: no rasterizer")
	}
	log := s.Logger
	if log == nil {
		log = zap.NewNop()
	}

	p := params.Sanitize()
	timing := NewTiming(p.DurationSeconds, p.FPS)
	phases := timing.Phases()
	if s.Exclusive {
		phases = timing.PhasesExclusive()
	}
	geom := s.Rasterizer.FillArea()

	workers := s.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	start := time.Now()
	frames := make([]*frame.Frame, len(phases))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, phase := range phases {
		i, phase := i, phase
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			f, err := s.Rasterizer.Rasterize(pattern.Evaluate(p.Pattern, phase, geom, p))
			if err != nil {
				return fmt.Errorf("frame %d (phase %.3f): %w", i, phase, err)
			}
			frames[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seq := &frame.Sequence{Frames: frames, Delays: make([]int, len(frames))}
	for i := range seq.Delays {
		seq.Delays[i] = timing.DelayMs
	}
	log.Debug("[*] frames sampled",
		zap.Stringer("pattern", p.Pattern),
		zap.Int("frames", len(frames)),
		zap.Int("delay_ms", timing.DelayMs),
		zap.Duration("elapsed", time.Since(start)),
	)
	return seq, nil
}
