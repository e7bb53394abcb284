package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Brandjuh/Cad-tag-generator/internal/animation"
	"github.com/Brandjuh/Cad-tag-generator/internal/frame"
	"github.com/Brandjuh/Cad-tag-generator/internal/pattern"
	"github.com/Brandjuh/Cad-tag-generator/internal/raster"
)

// PreviewOptions configures the live preview loop.
type PreviewOptions struct {
	Label    string
	Path     string
	Interval time.Duration
	// Ticks stops the loop after that many frames; 0 runs until ctx ends.
	Ticks int
}

// Preview renders the animation in real time and keeps overwriting
// opts.Path with the latest frame. It returns the number of frames written.
func (p *TagProject) Preview(ctx context.Context, opts PreviewOptions) (int, error) {
	params := p.Config.AnimationParams()
	canvas, err := raster.New(p.Config.TagStyle(opts.Label))
	if err != nil {
		return 0, err
	}
	if opts.Interval <= 0 {
		opts.Interval = time.Second / time.Duration(params.FPS)
	}
	if opts.Path == "" {
		return 0, fmt.Errorf("preview: no output path")
	}

	period := time.Duration(params.DurationSeconds * float64(time.Second))
	clock := animation.NewClock(period)
	geom := canvas.FillArea()

	p.Logger.Info("[*] preview started",
		zap.String("path", opts.Path),
		zap.Stringer("pattern", params.Pattern),
		zap.Duration("interval", opts.Interval),
	)

	ticker := time.NewTicker(opts.Interval)
	defer ticker.Stop()

	written := 0
	last := time.Now()
	phase := clock.Phase()
	for {
		f, err := canvas.Rasterize(pattern.Evaluate(params.Pattern, phase, geom, params))
		if err != nil {
			return written, err
		}
		if err := p.replaceFile(opts.Path, f); err != nil {
			return written, err
		}
		written++
		if opts.Ticks > 0 && written >= opts.Ticks {
			return written, nil
		}

		select {
		case <-ctx.Done():
			return written, nil
		case now := <-ticker.C:
			phase = clock.NextPhase(now.Sub(last))
			last = now
		}
	}
}

// replaceFile writes a temporary file next to path and renames it over path.
func (p *TagProject) replaceFile(path string, f *frame.Frame) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := path + ".tmp"
	if _, err := p.writePNG(tmp, f); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
