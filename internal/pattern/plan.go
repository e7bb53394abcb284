package pattern

import (
	"image/color"
	"math"
)

// Point is a position in canvas pixels.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle in canvas pixels.
type Rect struct {
	X, Y, W, H float64
}

// Center returns the centre of r.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Contains reports whether (x, y) lies inside r (half-open on the far edges).
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// BlendMode selects how a composite region combines with what is below it.
type BlendMode int

const (
	SourceOver BlendMode = iota
	Additive             // canvas "lighter"
)

func (b BlendMode) String() string {
	if b == Additive {
		return "lighter"
	}
	return "source-over"
}

// FillPlan describes how to paint the tag background for one phase. It is
// one of Solid, Gradient or Composite.
type FillPlan interface {
	fillPlan()
}

// Solid paints a single colour.
type Solid struct {
	Color color.NRGBA
}

// Stop is a gradient colour stop at a normalized position.
type Stop struct {
	Pos   float64
	Color color.NRGBA
}

// Gradient is a linear gradient from Start to End. Stops are ordered by
// position; equal positions form a hard edge.
type Gradient struct {
	Start, End Point
	Stops      []Stop
}

// Region is one rectangle of a Composite.
type Region struct {
	Rect  Rect
	Color color.NRGBA
	Alpha float64
	Blend BlendMode
}

// Composite paints its regions in order.
type Composite struct {
	Regions []Region
}

func (Solid) fillPlan()     {}
func (Gradient) fillPlan()  {}
func (Composite) fillPlan() {}

// stopEpsilon is the distance under which two stop positions are the same.
const stopEpsilon = 1e-9

// AddStop inserts a stop after the existing ones. The position is clamped
// into [0,1] and snapped onto the last stop when within stopEpsilon of it;
// a stop that would go backwards, or that repeats the last stop, is dropped.
// It reports whether the stop was kept.
func (g *Gradient) AddStop(pos float64, c color.NRGBA) bool {
	if math.IsNaN(pos) {
		return false
	}
	pos = clamp01(pos)
	if n := len(g.Stops); n > 0 {
		last := g.Stops[n-1]
		if math.Abs(pos-last.Pos) <= stopEpsilon {
			pos = last.Pos
		}
		if pos < last.Pos || (pos == last.Pos && c == last.Color) {
			return false
		}
	}
	g.Stops = append(g.Stops, Stop{Pos: pos, Color: c})
	return true
}

// ColorAt samples the gradient at normalized position pos, padding with the
// first and last stop colours.
func (g Gradient) ColorAt(pos float64) color.NRGBA {
	return stopColorAt(g.Stops, pos)
}

// Project maps the canvas point (x, y) onto the gradient axis.
func (g Gradient) Project(x, y float64) float64 {
	dx := g.End.X - g.Start.X
	dy := g.End.Y - g.Start.Y
	lengthSq := dx*dx + dy*dy
	if lengthSq == 0 {
		return 0
	}
	return ((x-g.Start.X)*dx + (y-g.Start.Y)*dy) / lengthSq
}

func stopColorAt(stops []Stop, pos float64) color.NRGBA {
	if len(stops) == 0 {
		return color.NRGBA{}
	}
	if pos < stops[0].Pos {
		return stops[0].Color
	}

	// last stop at or before pos; on a hard edge the later stop wins
	i := 0
	for j := range stops {
		if stops[j].Pos <= pos {
			i = j
		}
	}
	if i+1 >= len(stops) {
		return stops[i].Color
	}
	a, b := stops[i], stops[i+1]
	span := b.Pos - a.Pos
	if span <= 0 {
		return a.Color
	}
	return Mix(a.Color, b.Color, (pos-a.Pos)/span)
}
