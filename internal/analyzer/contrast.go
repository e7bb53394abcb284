package analyzer

import (
	"errors"
	"image"
	"image/color"
	"math"

	"github.com/Brandjuh/Cad-tag-generator/internal/frame"
)

var errNoFrames = errors.New("analyzer: empty frame sequence")

// Luminance returns the WCAG relative luminance of c, ignoring alpha.
func Luminance(c color.NRGBA) float64 {
	return 0.2126*linear(c.R) + 0.7152*linear(c.G) + 0.0722*linear(c.B)
}

func linear(v uint8) float64 {
	s := float64(v) / 255
	if s <= 0.04045 {
		return s / 12.92
	}
	return math.Pow((s+0.055)/1.055, 2.4)
}

// ContrastRatio returns (L1+0.05)/(L2+0.05) with L1 the lighter colour, in
// [1, 21].
func ContrastRatio(a, b color.NRGBA) float64 {
	la, lb := Luminance(a), Luminance(b)
	if la < lb {
		la, lb = lb, la
	}
	return (la + 0.05) / (lb + 0.05)
}

// MeanChecker compares the text colour with the average colour of the
// probe area in every frame.
type MeanChecker struct{}

func (MeanChecker) Check(text color.NRGBA, seq *frame.Sequence, probe image.Rectangle) (Result, error) {
	return worst(text, seq, probe, meanColor, 1)
}

// PixelChecker compares the text colour with every Step-th pixel of the
// probe area and keeps the worst.
type PixelChecker struct {
	Step int
}

func (c PixelChecker) Check(text color.NRGBA, seq *frame.Sequence, probe image.Rectangle) (Result, error) {
	return worst(text, seq, probe, nil, max(1, c.Step))
}

// worst walks every frame. With sample set, one colour per frame is
// compared; otherwise every step-th pixel is.
func worst(text color.NRGBA, seq *frame.Sequence, probe image.Rectangle, sample func(*frame.Frame, image.Rectangle) color.NRGBA, step int) (Result, error) {
	if seq.Len() == 0 {
		return Result{}, errNoFrames
	}
	res := Result{Ratio: math.Inf(1)}
	consider := func(i int, c color.NRGBA) {
		if r := ContrastRatio(text, c); r < res.Ratio {
			res = Result{Ratio: r, Frame: i, Color: c}
		}
	}

	for i, f := range seq.Frames {
		r := probe.Intersect(image.Rect(0, 0, f.Width, f.Height))
		if r.Empty() {
			continue
		}
		if sample != nil {
			consider(i, sample(f, r))
			continue
		}
		for y := r.Min.Y; y < r.Max.Y; y += step {
			for x := r.Min.X; x < r.Max.X; x += step {
				if c := f.At(x, y); c.A > 0 {
					consider(i, c)
				}
			}
		}
	}
	if math.IsInf(res.Ratio, 1) {
		return Result{}, errNoFrames
	}
	return res, nil
}

// meanColor averages the visible pixels of r.
func meanColor(f *frame.Frame, r image.Rectangle) color.NRGBA {
	var sr, sg, sb, n float64
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			c := f.At(x, y)
			if c.A == 0 {
				continue
			}
			sr += float64(c.R)
			sg += float64(c.G)
			sb += float64(c.B)
			n++
		}
	}
	if n == 0 {
		return color.NRGBA{}
	}
	return color.NRGBA{
		R: uint8(math.Round(sr / n)),
		G: uint8(math.Round(sg / n)),
		B: uint8(math.Round(sb / n)),
		A: 0xFF,
	}
}
