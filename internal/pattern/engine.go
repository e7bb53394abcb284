package pattern

import (
	"image/color"
	"math"
	"sort"
)

// Fixed pattern geometry.
const (
	beaconBand    = 0.18
	rollingBand   = 0.25
	barDuty       = 0.5
	checkerCols   = 6
	checkerRows   = 2
	tripleHalfW   = 0.06
	strobeQuarter = 0.25
)

var tripleOffsets = [...]float64{0, 0.15, 0.30}

// Signal colours for the US patterns.
var (
	signalRed  = color.NRGBA{R: 0xFF, A: 0xFF}
	signalBlue = color.NRGBA{B: 0xFF, A: 0xFF}
)

// evalContext is what a strategy sees: the effective phase, the fill area
// and sanitized parameters.
type evalContext struct {
	t    float64
	geom Rect
	p    Params
}

type strategy func(c evalContext) FillPlan

var strategies = [numPatterns]strategy{
	Sweep:         sweep,
	Blink:         blink,
	Pulse:         pulse,
	AltHalves:     altHalves,
	LRPulse:       lrPulse,
	Bars:          bars,
	Beacon:        beacon,
	DualBeacon:    dualBeacon,
	Checker:       checker,
	DiagonalSweep: diagonalSweep,
	EUTriple:      euTriple,
	EURolling:     euRolling,
	USAltRB:       usAltRB,
	USSplitStrobe: usSplitStrobe,
}

// Evaluate maps a pattern, a normalized phase, the fill area and the
// parameters to a FillPlan. It is pure: equal arguments give equal plans,
// so frames may be sampled in any order.
func Evaluate(pat Pattern, phase float64, geom Rect, p Params) FillPlan {
	if !pat.Valid() {
		pat = Sweep
	}
	p = p.Sanitize()
	return strategies[pat](evalContext{
		t:    Effective(phase, p.Speed),
		geom: geom,
		p:    p,
	})
}

// StaticGradient is the two-colour background of the static urgent tag.
func StaticGradient(geom Rect, angleDeg float64, a, b color.NRGBA) Gradient {
	g := axisGradient(geom, angleDeg)
	g.AddStop(0, a)
	g.AddStop(1, b)
	return g
}

func sweep(c evalContext) FillPlan {
	e := ease(c.t)
	mid := Mix(c.p.ColorA, c.p.ColorB, e)
	g := axisGradient(c.geom, c.p.AngleDeg)
	g.AddStop(0, c.p.ColorA)
	g.AddStop(e, mid)
	g.AddStop(1, mid)
	return g
}

func blink(c evalContext) FillPlan {
	if c.t < 0.5 {
		return Solid{Color: c.p.ColorB}
	}
	return Solid{Color: c.p.ColorA}
}

func pulse(c evalContext) FillPlan {
	return Solid{Color: Mix(c.p.ColorA, c.p.ColorB, ease(c.t))}
}

func altHalves(c evalContext) FillPlan {
	left, right := halves(c.geom)
	cl, cr := c.p.ColorB, c.p.ColorA
	if c.t >= 0.5 {
		cl, cr = cr, cl
	}
	return Composite{Regions: []Region{
		{Rect: left, Color: cl, Alpha: 1},
		{Rect: right, Color: cr, Alpha: 1},
	}}
}

func lrPulse(c evalContext) FillPlan {
	left, right := halves(c.geom)
	return Composite{Regions: []Region{
		{Rect: left, Color: Mix(c.p.ColorA, c.p.ColorB, ease(c.t)), Alpha: 1},
		{Rect: right, Color: Mix(c.p.ColorA, c.p.ColorB, ease(frac(c.t+0.5))), Alpha: 1},
	}}
}

func bars(c evalContext) FillPlan {
	n := float64(c.p.BarCount)
	width := barDuty / n
	soft := c.p.Softness / n
	lit := Mix(c.p.ColorA, c.p.ColorB, c.p.Intensity)

	var segments [][]Stop
	for k := 0; k < c.p.BarCount; k++ {
		start := frac(float64(k)/n + c.t)
		bar := []Stop{
			{Pos: start, Color: c.p.ColorA},
			{Pos: start, Color: lit},
			{Pos: start + width, Color: lit},
			{Pos: start + width + soft, Color: c.p.ColorA},
		}
		segments = append(segments, wrapStops(bar)...)
	}

	g := axisGradient(c.geom, c.p.AngleDeg)
	addSegments(&g, segments)
	return g
}

func beacon(c evalContext) FillPlan {
	regions := []Region{{Rect: c.geom, Color: c.p.ColorA, Alpha: 1}}
	regions = append(regions, bandRegions(c.geom, c.t, beaconBand, c.p.ColorB, c.p.Intensity)...)
	return Composite{Regions: regions}
}

func dualBeacon(c evalContext) FillPlan {
	regions := []Region{{Rect: c.geom, Color: c.p.ColorA, Alpha: 1}}
	regions = append(regions, bandRegions(c.geom, c.t, beaconBand, c.p.ColorB, c.p.Intensity)...)
	regions = append(regions, bandRegions(c.geom, frac(c.t+0.5), beaconBand, c.p.ColorB, c.p.Intensity)...)
	return Composite{Regions: regions}
}

func checker(c evalContext) FillPlan {
	parity := int(math.Floor(c.t*2)) % 2
	cw := c.geom.W / checkerCols
	ch := c.geom.H / checkerRows

	regions := make([]Region, 0, checkerCols*checkerRows)
	for row := 0; row < checkerRows; row++ {
		for col := 0; col < checkerCols; col++ {
			clr := c.p.ColorA
			if (col+row)%2 == parity {
				clr = c.p.ColorB
			}
			regions = append(regions, Region{
				Rect:  Rect{X: c.geom.X + float64(col)*cw, Y: c.geom.Y + float64(row)*ch, W: cw, H: ch},
				Color: clr,
				Alpha: 1,
			})
		}
	}
	return Composite{Regions: regions}
}

func diagonalSweep(c evalContext) FillPlan {
	g := Gradient{
		Start: Point{X: c.geom.X, Y: c.geom.Y},
		End:   Point{X: c.geom.X + c.geom.W, Y: c.geom.Y + c.geom.H},
	}
	g.AddStop(0, c.p.ColorA)
	g.AddStop(ease(c.t), Mix(c.p.ColorA, c.p.ColorB, c.p.Intensity))
	g.AddStop(1, c.p.ColorB)
	return g
}

// tripleEnvelope sums three triangular pulses and caps the result at 1.
func tripleEnvelope(t float64) float64 {
	env := 0.0
	for _, o := range tripleOffsets {
		env += math.Max(0, 1-cyclicDist(t, o)/tripleHalfW)
	}
	return math.Min(env, 1)
}

func euTriple(c evalContext) FillPlan {
	return Solid{Color: Mix(c.p.ColorA, c.p.ColorB, tripleEnvelope(c.t)*c.p.Intensity)}
}

func euRolling(c evalContext) FillPlan {
	half := rollingBand / 2
	lit := Mix(c.p.ColorA, c.p.ColorB, c.p.Intensity)
	start := frac(c.t - half)
	band := []Stop{
		{Pos: start, Color: c.p.ColorA},
		{Pos: start + half, Color: lit},
		{Pos: start + rollingBand, Color: c.p.ColorA},
	}

	g := axisGradient(c.geom, c.p.AngleDeg)
	addSegments(&g, wrapStops(band))
	return g
}

func usAltRB(c evalContext) FillPlan {
	left, right := halves(c.geom)
	cl, cr := signalRed, signalBlue
	if c.t >= 0.5 {
		cl, cr = cr, cl
	}
	return Composite{Regions: []Region{
		{Rect: c.geom, Color: c.p.ColorA, Alpha: 1},
		{Rect: left, Color: cl, Alpha: c.p.Intensity},
		{Rect: right, Color: cr, Alpha: c.p.Intensity},
	}}
}

func usSplitStrobe(c evalContext) FillPlan {
	left, right := halves(c.geom)
	regions := []Region{{Rect: c.geom, Color: c.p.ColorA, Alpha: 1}}
	if math.Mod(c.t, 0.5) < strobeQuarter {
		regions = append(regions, Region{Rect: left, Color: signalRed, Alpha: c.p.Intensity})
	}
	if math.Mod(c.t+strobeQuarter, 0.5) < strobeQuarter {
		regions = append(regions, Region{Rect: right, Color: signalBlue, Alpha: c.p.Intensity})
	}
	return Composite{Regions: regions}
}

// axisGradient builds an empty gradient whose axis crosses geom at angleDeg,
// long enough to cover the rectangle's diagonal.
func axisGradient(geom Rect, angleDeg float64) Gradient {
	rad := math.Mod(angleDeg, 360) * math.Pi / 180
	c := geom.Center()
	r := math.Hypot(geom.W, geom.H) / 2
	dx, dy := math.Cos(rad)*r, math.Sin(rad)*r
	return Gradient{
		Start: Point{X: c.X - dx, Y: c.Y - dy},
		End:   Point{X: c.X + dx, Y: c.Y + dy},
	}
}

func halves(geom Rect) (left, right Rect) {
	w := geom.W / 2
	left = Rect{X: geom.X, Y: geom.Y, W: w, H: geom.H}
	right = Rect{X: geom.X + w, Y: geom.Y, W: geom.W - w, H: geom.H}
	return left, right
}

// bandRegions returns the rectangles of a vertical band of relative width
// centred at the relative position center, split in two when it crosses an
// edge.
func bandRegions(geom Rect, center, width float64, clr color.NRGBA, alpha float64) []Region {
	x0 := frac(center - width/2)
	x1 := x0 + width
	region := func(from, to float64) Region {
		return Region{
			Rect:  Rect{X: geom.X + from*geom.W, Y: geom.Y, W: (to - from) * geom.W, H: geom.H},
			Color: clr,
			Alpha: alpha,
			Blend: Additive,
		}
	}
	if x1 <= 1 {
		return []Region{region(x0, x1)}
	}
	return []Region{region(x0, 1), region(0, x1-1)}
}

// wrapStops splits an ordered run of stops that extends past 1 into a
// [start,1] segment and a [0,end-1] segment. The colour at the split is
// interpolated from the run.
func wrapStops(stops []Stop) [][]Stop {
	if len(stops) == 0 {
		return nil
	}
	if stops[len(stops)-1].Pos <= 1 {
		return [][]Stop{stops}
	}

	edge := stopColorAt(stops, 1)
	head := make([]Stop, 0, len(stops)+1)
	tail := []Stop{{Pos: 0, Color: edge}}
	for _, s := range stops {
		if s.Pos <= 1 {
			head = append(head, s)
		} else {
			tail = append(tail, Stop{Pos: s.Pos - 1, Color: s.Color})
		}
	}
	head = append(head, Stop{Pos: 1, Color: edge})
	return [][]Stop{head, tail}
}

// addSegments inserts stop segments in order of their first position.
func addSegments(g *Gradient, segments [][]Stop) {
	sort.SliceStable(segments, func(i, j int) bool {
		return segments[i][0].Pos < segments[j][0].Pos
	})
	for _, seg := range segments {
		for _, s := range seg {
			g.AddStop(s.Pos, s.Color)
		}
	}
}
