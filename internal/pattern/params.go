package pattern

import (
	"image/color"
	"math"
)

// Parameter defaults and limits.
const (
	DefaultAngle     = 0.0
	DefaultBarCount  = 4
	DefaultSoftness  = 0.15
	DefaultIntensity = 1.0
	DefaultSpeed     = 1.0
	DefaultDuration  = 2.0
	DefaultFPS       = 24

	MaxBarCount = 32
	MinSpeed    = 0.2
	MaxSpeed    = 5.0
	MaxSoftness = 0.5
	MaxDuration = 60.0
	MinFPS      = 8
	MaxFPS      = 60
)

// Default beacon colours, the tag gradient start and end.
var (
	DefaultColorA = color.NRGBA{R: 0xFF, G: 0x2D, B: 0x2D, A: 0xFF}
	DefaultColorB = color.NRGBA{R: 0xFF, G: 0xD5, B: 0x00, A: 0xFF}
)

// Params is the animation parameter set. It is a plain value: copying it is
// how a render snapshots the live settings.
type Params struct {
	ColorA          color.NRGBA
	ColorB          color.NRGBA
	Pattern         Pattern
	AngleDeg        float64
	BarCount        int
	Softness        float64
	Intensity       float64
	Speed           float64
	DurationSeconds float64
	FPS             int
}

// DefaultParams returns the parameter set used when nothing is configured.
func DefaultParams() Params {
	return Params{
		ColorA:          DefaultColorA,
		ColorB:          DefaultColorB,
		Pattern:         Sweep,
		AngleDeg:        DefaultAngle,
		BarCount:        DefaultBarCount,
		Softness:        DefaultSoftness,
		Intensity:       DefaultIntensity,
		Speed:           DefaultSpeed,
		DurationSeconds: DefaultDuration,
		FPS:             DefaultFPS,
	}
}

// Sanitize clamps every field into its valid range. Non-finite values fall
// back to the field default; it never fails.
func (p Params) Sanitize() Params {
	p.ColorA.A = 0xFF
	p.ColorB.A = 0xFF

	if !p.Pattern.Valid() {
		p.Pattern = Sweep
	}

	p.AngleDeg = math.Mod(finiteOr(p.AngleDeg, DefaultAngle), 360)

	switch {
	case p.BarCount < 1:
		p.BarCount = 1
	case p.BarCount > MaxBarCount:
		p.BarCount = MaxBarCount
	}

	p.Softness = clampRange(finiteOr(p.Softness, DefaultSoftness), 0, MaxSoftness)
	p.Intensity = clampRange(finiteOr(p.Intensity, DefaultIntensity), 0, 1)
	p.Speed = clampRange(finiteOr(p.Speed, DefaultSpeed), MinSpeed, MaxSpeed)

	d := finiteOr(p.DurationSeconds, DefaultDuration)
	if d <= 0 {
		d = DefaultDuration
	}
	p.DurationSeconds = math.Min(d, MaxDuration)

	p.FPS = ClampFPS(p.FPS)
	return p
}

// ClampFPS maps an unset (<=0) rate to the default and clamps the rest to
// [MinFPS, MaxFPS].
func ClampFPS(fps int) int {
	switch {
	case fps <= 0:
		return DefaultFPS
	case fps < MinFPS:
		return MinFPS
	case fps > MaxFPS:
		return MaxFPS
	}
	return fps
}

func finiteOr(v, def float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}

func clampRange(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
