package pattern

import (
	"image/color"
	"math"
)

// lerp performs linear interpolation between a and b
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// ease is the raised-cosine pulse used by most patterns: 0 at x=0, 1 at x=0.5.
func ease(x float64) float64 {
	return 0.5 - 0.5*math.Cos(2*math.Pi*x)
}

// frac wraps x into [0,1). Non-finite input maps to 0.
func frac(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	f := x - math.Floor(x)
	if f >= 1 {
		f = 0
	}
	return f
}

func clamp01(x float64) float64 {
	if math.IsNaN(x) || x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// cyclicDist is the distance between a and b on the unit circle [0,1).
func cyclicDist(a, b float64) float64 {
	d := math.Abs(frac(a) - frac(b))
	if d > 0.5 {
		d = 1 - d
	}
	return d
}

// Mix interpolates every channel of a towards b by k (clamped to [0,1]).
func Mix(a, b color.NRGBA, k float64) color.NRGBA {
	k = clamp01(k)
	return color.NRGBA{
		R: mixChannel(a.R, b.R, k),
		G: mixChannel(a.G, b.G, k),
		B: mixChannel(a.B, b.B, k),
		A: mixChannel(a.A, b.A, k),
	}
}

func mixChannel(a, b uint8, k float64) uint8 {
	return uint8(math.Round(lerp(float64(a), float64(b), k)))
}

// Effective returns the effective phase frac(phase*speed).
func Effective(phase, speed float64) float64 {
	return frac(phase * speed)
}
