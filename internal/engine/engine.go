package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Brandjuh/Cad-tag-generator/internal/analyzer"
	"github.com/Brandjuh/Cad-tag-generator/internal/animation"
	"github.com/Brandjuh/Cad-tag-generator/internal/apng"
	"github.com/Brandjuh/Cad-tag-generator/internal/config"
	"github.com/Brandjuh/Cad-tag-generator/internal/frame"
	"github.com/Brandjuh/Cad-tag-generator/internal/pattern"
	"github.com/Brandjuh/Cad-tag-generator/internal/raster"
	"github.com/Brandjuh/Cad-tag-generator/internal/source"
	"github.com/Brandjuh/Cad-tag-generator/internal/system"
)

// Варианты выходных файлов.
const (
	VariantNormal     = "normal"
	VariantUrgent     = "urgent"
	VariantUrgentAnim = "urgent_anim"
)

type TagProject struct {
	Config  *config.Config
	Source  source.Source
	Encoder *apng.Encoder
	Checker analyzer.Checker
	Logger  *zap.Logger
}

// LabelResult: итог экспорта одной метки.
type LabelResult struct {
	Label    string
	Files    []string
	Width    int
	Height   int
	Frames   int
	Bytes    int64
	Contrast analyzer.Result
}

// Report собирает тайминги прогона для отчёта о производительности.
type Report struct {
	Labels    int
	Frames    int
	Bytes     int64
	Total     time.Duration
	Rendering time.Duration
	Encoding  time.Duration
}

func NewTagProject(cfg *config.Config, src source.Source, enc *apng.Encoder, logger *zap.Logger) *TagProject {
	if logger == nil {
		logger = zap.NewNop()
	}
	checker, err := analyzer.NewChecker(cfg.Export.ContrastChecker)
	if err != nil {
		logger.Warn("[!] contrast checker disabled", zap.Error(err))
	}
	return &TagProject{
		Config:  cfg,
		Source:  src,
		Encoder: enc,
		Checker: checker,
		Logger:  logger,
	}
}

// Run экспортирует каждую метку источника. Параметры анимации фиксируются
// один раз в начале прогона.
func (p *TagProject) Run(ctx context.Context) ([]LabelResult, error) {
	start := time.Now()
	labels, err := source.All(p.Source)
	if err != nil {
		return nil, err
	}
	if len(labels) == 0 {
		return nil, errors.New("no labels to render")
	}

	out := p.Config.Export.OutputDir
	if err := os.MkdirAll(out, 0o755); err != nil {
		return nil, fmt.Errorf("output dir: %w", err)
	}

	params := p.Config.AnimationParams()
	timing := animation.NewTiming(params.DurationSeconds, params.FPS)

	p.Logger.Info("--- [CAD TAG EXPORT] ---",
		zap.Int("labels", len(labels)),
		zap.Stringer("pattern", params.Pattern),
		zap.Int("frames", timing.FrameCount),
		zap.Int("delay_ms", timing.DelayMs),
		zap.String("output", out),
	)

	var (
		results []LabelResult
		report  Report
	)
	for i, label := range labels {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res, err := p.exportLabel(ctx, label, params, &report)
		if err != nil {
			return results, fmt.Errorf("label %q: %w", label, err)
		}
		results = append(results, res)
		report.Frames += res.Frames
		report.Bytes += res.Bytes
		p.Logger.Info(fmt.Sprintf("[>] Ready: %d/%d", i+1, len(labels)),
			zap.String("label", res.Label),
			zap.Strings("files", res.Files),
		)
	}

	report.Labels = len(results)
	report.Total = time.Since(start)
	if p.Config.Export.ShowStats {
		p.writeReport(report)
	}
	return results, nil
}

func (p *TagProject) exportLabel(ctx context.Context, raw string, params pattern.Params, report *Report) (LabelResult, error) {
	cfg := p.Config
	style := cfg.TagStyle(raw)
	canvas, err := raster.New(style)
	if err != nil {
		return LabelResult{}, err
	}
	w, h := canvas.Size()
	res := LabelResult{Label: style.Text, Width: w, Height: h}

	if !style.Transparent {
		if r := analyzer.ContrastRatio(style.TextColor, style.Background); r < analyzer.MinReadableContrast {
			p.Logger.Warn("[!] low text contrast on normal tag",
				zap.String("label", style.Text), zap.Float64("ratio", r))
		}
	}

	if cfg.Export.Static {
		renderStart := time.Now()
		normal, err := canvas.Rasterize(pattern.Solid{Color: style.Background})
		if err != nil {
			return res, err
		}
		gs, ge := cfg.Gradient()
		urgent, err := canvas.Rasterize(pattern.StaticGradient(canvas.FillArea(), cfg.Tag.GradAngle, gs, ge))
		if err != nil {
			return res, err
		}
		report.Rendering += time.Since(renderStart)

		encodeStart := time.Now()
		for _, v := range []struct {
			variant string
			f       *frame.Frame
		}{{VariantNormal, normal}, {VariantUrgent, urgent}} {
			path := system.OutputPath(cfg.Export.OutputDir, style.Text, v.variant)
			n, err := p.writePNG(path, v.f)
			if err != nil {
				return res, err
			}
			res.Files = append(res.Files, path)
			res.Bytes += n
		}
		report.Encoding += time.Since(encodeStart)
	}

	if !cfg.Export.Animated {
		return res, nil
	}

	workers := cfg.Export.Workers
	if workers <= 0 {
		workers = system.DefaultWorkers()
	}
	// каждый воркер держит холст, слой заливки и кадр
	workers = system.CapWorkers(workers, uint64(w*h*4*3))

	renderStart := time.Now()
	sampler := &animation.Sampler{
		Rasterizer: canvas,
		Workers:    workers,
		Exclusive:  cfg.Export.ExclusivePhases,
		Logger:     p.Logger,
	}
	seq, err := sampler.Sample(ctx, params)
	if err != nil {
		return res, err
	}
	report.Rendering += time.Since(renderStart)
	res.Frames = seq.Len()

	if p.Checker != nil && !style.Transparent {
		c, err := p.Checker.Check(style.TextColor, seq, canvas.BackgroundProbe())
		if err == nil {
			res.Contrast = c
			if !c.Readable() {
				p.Logger.Warn("[!] low text contrast in animation",
					zap.String("label", style.Text),
					zap.Float64("ratio", c.Ratio),
					zap.Int("frame", c.Frame),
				)
			}
		}
	}

	encodeStart := time.Now()
	files, n, err := p.writeAnimation(ctx, style.Text, seq)
	report.Encoding += time.Since(encodeStart)
	if err != nil {
		return res, err
	}
	res.Files = append(res.Files, files...)
	res.Bytes += n
	return res, nil
}

// writeAnimation пишет APNG. Если компрессор недоступен и разрешён
// запасной путь, кадры сохраняются отдельными PNG.
func (p *TagProject) writeAnimation(ctx context.Context, label string, seq *frame.Sequence) ([]string, int64, error) {
	path := system.OutputPath(p.Config.Export.OutputDir, label, VariantUrgentAnim)
	data, err := p.encoder().EncodeBytes(ctx, seq)
	switch {
	case err == nil:
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, 0, err
		}
		return []string{path}, int64(len(data)), nil
	case errors.Is(err, apng.ErrCapabilityUnavailable) && p.Config.Export.FramesFallback:
		p.Logger.Warn("[!] APNG encoder unavailable, writing individual frames", zap.String("label", label))
		return p.writeFrames(path, seq)
	default:
		return nil, 0, err
	}
}

func (p *TagProject) writeFrames(animPath string, seq *frame.Sequence) ([]string, int64, error) {
	base := strings.TrimSuffix(animPath, filepath.Ext(animPath))
	var (
		files []string
		total int64
	)
	for i, f := range seq.Frames {
		path := fmt.Sprintf("%s_%03d.png", base, i)
		n, err := writeHostPNG(path, f)
		if err != nil {
			return files, total, err
		}
		files = append(files, path)
		total += n
	}
	return files, total, nil
}

func (p *TagProject) encoder() *apng.Encoder {
	if p.Encoder == nil {
		return &apng.Encoder{Logger: p.Logger}
	}
	return p.Encoder
}

// writePNG кодирует статичный кадр тем же компрессором, что и анимацию.
func (p *TagProject) writePNG(path string, f *frame.Frame) (int64, error) {
	var buf bytes.Buffer
	err := apng.EncodePNG(&buf, f, p.encoder().Compressor)
	if errors.Is(err, apng.ErrCapabilityUnavailable) && p.Config.Export.FramesFallback {
		return writeHostPNG(path, f)
	}
	if err != nil {
		return 0, err
	}
	return int64(buf.Len()), os.WriteFile(path, buf.Bytes(), 0o644)
}

func writeHostPNG(path string, f *frame.Frame) (int64, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, f.Image()); err != nil {
		return 0, err
	}
	return int64(buf.Len()), os.WriteFile(path, buf.Bytes(), 0o644)
}

func (p *TagProject) writeReport(r Report) {
	fps := 0.0
	if r.Total > 0 {
		fps = float64(r.Frames) / r.Total.Seconds()
	}
	p.Logger.Info("--- [PERFORMANCE REPORT] ---",
		zap.Int("labels", r.Labels),
		zap.Int("frames", r.Frames),
		zap.Int64("bytes", r.Bytes),
		zap.Duration("total", r.Total),
		zap.Duration("rendering", r.Rendering),
		zap.Duration("encoding", r.Encoding),
		zap.Float64("effective_fps", fps),
	)

	a := p.Config.Animation
	entry := fmt.Sprintf("[%s] Pattern: %s | Labels: %d | Frames: %d | Bytes: %d | Total: %.2fs | Render: %.2fs | Encode: %.2fs | FPS: %.2f",
		time.Now().Format("2006-01-02 15:04:05"),
		a.Pattern,
		r.Labels,
		r.Frames,
		r.Bytes,
		r.Total.Seconds(),
		r.Rendering.Seconds(),
		r.Encoding.Seconds(),
		fps,
	)
	if err := system.AppendLine(p.Config.Export.StatsFile, entry); err != nil {
		p.Logger.Warn("[!] could not write stats file", zap.String("path", p.Config.Export.StatsFile), zap.Error(err))
	}
}
