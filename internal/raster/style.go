package raster

import (
	"image/color"
	"math"
)

// Style limits.
const (
	MinFontSize = 8
	MaxFontSize = 200
	MaxPadding  = 200
	MaxStroke   = 40
	MaxRadius   = 40
	MaxScale    = 4
)

// Style describes how a tag label is drawn.
type Style struct {
	Text        string
	FontSize    float64
	Bold        bool
	PadX        float64
	PadY        float64
	Stroke      float64
	Radius      float64
	TextColor   color.NRGBA
	StrokeColor color.NRGBA
	Background  color.NRGBA
	BgAlpha     float64
	Transparent bool
	Scale       int
	// QR adds a square QR badge encoding Text to the right of the label.
	QR bool
}

// DefaultStyle is a white-on-navy tag with a blue border.
func DefaultStyle() Style {
	return Style{
		Text:        "LAFD 021",
		FontSize:    28,
		Bold:        true,
		PadX:        16,
		PadY:        8,
		Stroke:      4,
		Radius:      10,
		TextColor:   color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF},
		StrokeColor: color.NRGBA{R: 0x1E, G: 0x90, B: 0xFF, A: 0xFF},
		Background:  color.NRGBA{R: 0x0B, G: 0x17, B: 0x36, A: 0xFF},
		BgAlpha:     1,
		Scale:       1,
	}
}

// Normalize clamps every field into range.
func (s Style) Normalize() Style {
	s.FontSize = clamp(s.FontSize, MinFontSize, MaxFontSize, MinFontSize)
	s.PadX = clamp(s.PadX, 0, MaxPadding, 0)
	s.PadY = clamp(s.PadY, 0, MaxPadding, 0)
	s.Stroke = clamp(s.Stroke, 0, MaxStroke, 0)
	s.Radius = clamp(s.Radius, 0, MaxRadius, 0)
	s.BgAlpha = clamp(s.BgAlpha, 0, 1, 1)
	s.Scale = max(1, min(MaxScale, s.Scale))
	return s
}

func clamp(v, lo, hi, def float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return math.Max(lo, math.Min(hi, v))
}
