package pattern

import (
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	white      = color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	dodgerBlue = color.NRGBA{R: 0x1E, G: 0x90, B: 0xFF, A: 0xFF}
	geom       = Rect{X: 0, Y: 0, W: 200, H: 60}
)

func testParams(p Pattern) Params {
	params := DefaultParams()
	params.Pattern = p
	params.ColorA = white
	params.ColorB = dodgerBlue
	return params
}

func TestParseRoundTrip(t *testing.T) {
	require.Len(t, All(), 14)
	for _, p := range All() {
		t.Run(p.String(), func(t *testing.T) {
			got, err := Parse(p.String())
			require.NoError(t, err)
			assert.Equal(t, p, got)
			assert.NotEmpty(t, p.Description())
		})
	}

	p, err := Parse("")
	require.NoError(t, err)
	assert.Equal(t, Sweep, p)

	p, err = Parse(" US_Split_Strobe ")
	require.NoError(t, err)
	assert.Equal(t, USSplitStrobe, p)

	_, err = Parse("disco")
	assert.Error(t, err)
}

func TestEvaluateIsPure(t *testing.T) {
	for _, p := range All() {
		t.Run(p.String(), func(t *testing.T) {
			params := testParams(p)
			for _, phase := range []float64{0, 0.13, 0.5, 0.77, 0.999, 1} {
				a := Evaluate(p, phase, geom, params)
				b := Evaluate(p, phase, geom, params)
				require.Equal(t, a, b, "phase %v", phase)
				require.NotNil(t, a)
			}
		})
	}
}

func TestBlink(t *testing.T) {
	params := testParams(Blink)
	assert.Equal(t, Solid{Color: dodgerBlue}, Evaluate(Blink, 0.3, geom, params))
	assert.Equal(t, Solid{Color: white}, Evaluate(Blink, 0.7, geom, params))
}

func TestPulseEndpoints(t *testing.T) {
	params := testParams(Pulse)
	assert.Equal(t, Solid{Color: white}, Evaluate(Pulse, 0, geom, params))
	assert.Equal(t, Solid{Color: dodgerBlue}, Evaluate(Pulse, 0.5, geom, params))
}

func TestEUTripleAtZero(t *testing.T) {
	params := testParams(EUTriple)
	params.Intensity = 0.6

	assert.InDelta(t, 1.0, tripleEnvelope(0), 1e-12)
	got := Evaluate(EUTriple, 0, geom, params)
	assert.Equal(t, Solid{Color: Mix(white, dodgerBlue, 0.6)}, got)

	// between the pulses the envelope is dark
	assert.Equal(t, 0.0, tripleEnvelope(0.5))
	// the second pulse peaks at its own offset
	assert.InDelta(t, 1.0, tripleEnvelope(0.15), 1e-12)
}

func TestBarsWrap(t *testing.T) {
	params := testParams(Bars)
	params.BarCount = 5
	params.Softness = 0.15

	plan := Evaluate(Bars, 0.9, geom, params)
	g, ok := plan.(Gradient)
	require.True(t, ok, "bars must produce a gradient, got %T", plan)
	require.NotEmpty(t, g.Stops)

	// the wrapped tail starts the list at 0 ...
	assert.Equal(t, 0.0, g.Stops[0].Pos)
	lit := Mix(white, dodgerBlue, params.Intensity)
	assert.Equal(t, lit, g.Stops[0].Color)
	// ... and ramps back to colorA at end = softness/barCount
	assert.InDelta(t, 0.03, g.Stops[1].Pos, 1e-9)
	assert.Equal(t, white, g.Stops[1].Color)

	// the head segment [0.9, 1] closes the list
	assert.Equal(t, 1.0, g.Stops[len(g.Stops)-1].Pos)
	found := false
	for _, s := range g.Stops {
		if math.Abs(s.Pos-0.9) < 1e-9 {
			found = true
		}
	}
	assert.True(t, found, "expected a stop at 0.9: %+v", g.Stops)

	for i := 1; i < len(g.Stops); i++ {
		assert.GreaterOrEqual(t, g.Stops[i].Pos, g.Stops[i-1].Pos, "stops must be ordered")
	}
}

func TestBarsKeepHardEdgesAtFullSoftness(t *testing.T) {
	for _, n := range []int{3, 5, 7} {
		params := testParams(Bars)
		params.BarCount = n
		params.Softness = MaxSoftness
		lit := Mix(white, dodgerBlue, params.Intensity)

		for i := 0; i < 100; i++ {
			phase := float64(i) / 100
			g := Evaluate(Bars, phase, geom, params).(Gradient)

			// every bar starts with colorA -> lit at one position
			edges := 0
			for j := 1; j < len(g.Stops); j++ {
				prev, cur := g.Stops[j-1], g.Stops[j]
				if prev.Pos == cur.Pos && prev.Color == white && cur.Color == lit {
					edges++
				}
			}
			require.Equal(t, n, edges, "bars=%d phase=%v stops=%+v", n, phase, g.Stops)
		}
	}
}

func TestSweepStops(t *testing.T) {
	params := testParams(Sweep)

	g := Evaluate(Sweep, 0.25, geom, params).(Gradient)
	require.Len(t, g.Stops, 3)
	e := ease(0.25)
	assert.Equal(t, white, g.Stops[0].Color)
	assert.InDelta(t, e, g.Stops[1].Pos, 1e-12)
	assert.Equal(t, g.Stops[1].Color, g.Stops[2].Color)

	// at phase 0 the middle stop coincides with the first and is dropped
	g = Evaluate(Sweep, 0, geom, params).(Gradient)
	assert.Len(t, g.Stops, 2)
}

func TestBeaconIsAdditive(t *testing.T) {
	params := testParams(DualBeacon)
	c := Evaluate(DualBeacon, 0.25, geom, params).(Composite)
	require.Len(t, c.Regions, 3)
	assert.Equal(t, SourceOver, c.Regions[0].Blend)
	for _, r := range c.Regions[1:] {
		assert.Equal(t, Additive, r.Blend)
		assert.InDelta(t, beaconBand*geom.W, r.Rect.W, 1e-9)
	}

	// a band centred on the edge splits in two
	c = Evaluate(Beacon, 0, geom, params).(Composite)
	require.Len(t, c.Regions, 3)
	assert.InDelta(t, beaconBand*geom.W, c.Regions[1].Rect.W+c.Regions[2].Rect.W, 1e-9)
}

func TestSplitPatterns(t *testing.T) {
	tests := []struct {
		name  string
		check func(t *testing.T, params Params)
	}{
		{
			name: "lr-pulse right half runs half a cycle ahead",
			check: func(t *testing.T, params Params) {
				for _, phase := range []float64{0, 0.2, 0.7} {
					c := Evaluate(LRPulse, phase, geom, params).(Composite)
					require.Len(t, c.Regions, 2)
					assert.Equal(t, Mix(white, dodgerBlue, ease(phase)), c.Regions[0].Color)
					assert.Equal(t, Mix(white, dodgerBlue, ease(frac(phase+0.5))), c.Regions[1].Color)
					assert.Equal(t, Rect{X: 100, Y: 0, W: 100, H: 60}, c.Regions[1].Rect)
				}
				c := Evaluate(LRPulse, 0, geom, params).(Composite)
				assert.Equal(t, white, c.Regions[0].Color)
				assert.Equal(t, dodgerBlue, c.Regions[1].Color)
			},
		},
		{
			name: "diagonal-sweep moves the intensity stop along the diagonal",
			check: func(t *testing.T, params Params) {
				params.Intensity = 0.6
				g := Evaluate(DiagonalSweep, 0.25, geom, params).(Gradient)
				assert.Equal(t, Point{X: 0, Y: 0}, g.Start)
				assert.Equal(t, Point{X: 200, Y: 60}, g.End)
				require.Len(t, g.Stops, 3)
				assert.Equal(t, Stop{Pos: 0, Color: white}, g.Stops[0])
				assert.InDelta(t, ease(0.25), g.Stops[1].Pos, 1e-12)
				assert.Equal(t, Mix(white, dodgerBlue, 0.6), g.Stops[1].Color)
				assert.Equal(t, Stop{Pos: 1, Color: dodgerBlue}, g.Stops[2])
			},
		},
		{
			name: "us-alt-rb swaps red and blue at half cycle",
			check: func(t *testing.T, params Params) {
				params.Intensity = 0.7
				a := Evaluate(USAltRB, 0.2, geom, params).(Composite)
				b := Evaluate(USAltRB, 0.7, geom, params).(Composite)
				require.Len(t, a.Regions, 3)
				require.Len(t, b.Regions, 3)

				assert.Equal(t, Region{Rect: geom, Color: white, Alpha: 1}, a.Regions[0])
				assert.Equal(t, signalRed, a.Regions[1].Color)
				assert.Equal(t, signalBlue, a.Regions[2].Color)
				assert.Equal(t, signalBlue, b.Regions[1].Color)
				assert.Equal(t, signalRed, b.Regions[2].Color)
				for _, r := range append(a.Regions[1:], b.Regions[1:]...) {
					assert.Equal(t, 0.7, r.Alpha)
					assert.Equal(t, SourceOver, r.Blend)
				}
			},
		},
		{
			name: "dual-beacon places the second band opposite the first",
			check: func(t *testing.T, params Params) {
				params.Intensity = 0.8
				c := Evaluate(DualBeacon, 0.25, geom, params).(Composite)
				require.Len(t, c.Regions, 3)
				assert.InDelta(t, (0.25-beaconBand/2)*geom.W, c.Regions[1].Rect.X, 1e-9)
				assert.InDelta(t, (0.75-beaconBand/2)*geom.W, c.Regions[2].Rect.X, 1e-9)
				for _, r := range c.Regions[1:] {
					assert.Equal(t, Additive, r.Blend)
					assert.Equal(t, dodgerBlue, r.Color)
					assert.Equal(t, 0.8, r.Alpha)
				}

				// at 0.5 the second band is centred on the edge and splits
				c = Evaluate(DualBeacon, 0.5, geom, params).(Composite)
				require.Len(t, c.Regions, 4)
				assert.InDelta(t, (0.5-beaconBand/2)*geom.W, c.Regions[1].Rect.X, 1e-9)
				assert.InDelta(t, (1-beaconBand/2)*geom.W, c.Regions[2].Rect.X, 1e-9)
				assert.InDelta(t, beaconBand/2*geom.W, c.Regions[2].Rect.W, 1e-9)
				assert.InDelta(t, 0.0, c.Regions[3].Rect.X, 1e-9)
				assert.InDelta(t, beaconBand/2*geom.W, c.Regions[3].Rect.W, 1e-9)
				for _, r := range c.Regions[1:] {
					assert.Equal(t, Additive, r.Blend)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, testParams(Pattern(0)))
		})
	}
}

func TestChecker(t *testing.T) {
	params := testParams(Checker)
	a := Evaluate(Checker, 0.1, geom, params).(Composite)
	b := Evaluate(Checker, 0.6, geom, params).(Composite)
	require.Len(t, a.Regions, 12)
	for i := range a.Regions {
		assert.NotEqual(t, a.Regions[i].Color, b.Regions[i].Color, "cell %d must toggle", i)
	}
	assert.Equal(t, dodgerBlue, a.Regions[0].Color)
}

func TestUSSplitStrobe(t *testing.T) {
	params := testParams(USSplitStrobe)
	first := Evaluate(USSplitStrobe, 0.1, geom, params).(Composite)
	require.Len(t, first.Regions, 2)
	assert.Equal(t, signalRed, first.Regions[1].Color)

	second := Evaluate(USSplitStrobe, 0.3, geom, params).(Composite)
	require.Len(t, second.Regions, 2)
	assert.Equal(t, signalBlue, second.Regions[1].Color)
}

func TestAltHalvesSwap(t *testing.T) {
	params := testParams(AltHalves)
	a := Evaluate(AltHalves, 0.2, geom, params).(Composite)
	b := Evaluate(AltHalves, 0.8, geom, params).(Composite)
	assert.Equal(t, a.Regions[0].Color, b.Regions[1].Color)
	assert.Equal(t, a.Regions[1].Color, b.Regions[0].Color)
}

func TestEURollingWraps(t *testing.T) {
	params := testParams(EURolling)
	g := Evaluate(EURolling, 0.05, geom, params).(Gradient)
	require.NotEmpty(t, g.Stops)
	assert.Equal(t, 0.0, g.Stops[0].Pos)
	assert.Equal(t, 1.0, g.Stops[len(g.Stops)-1].Pos)
}

func TestAddStopIsDefensive(t *testing.T) {
	var g Gradient
	assert.True(t, g.AddStop(-0.5, white))   // clamped to 0
	assert.False(t, g.AddStop(0, white))     // exact duplicate
	assert.True(t, g.AddStop(0, dodgerBlue)) // hard edge
	assert.True(t, g.AddStop(0.7, white))
	assert.False(t, g.AddStop(0.2, white)) // backwards
	assert.False(t, g.AddStop(math.NaN(), white))
	assert.True(t, g.AddStop(3, dodgerBlue)) // clamped to 1
	assert.False(t, g.AddStop(1-1e-12, dodgerBlue))

	require.Len(t, g.Stops, 4)
	assert.Equal(t, 0.0, g.Stops[0].Pos)
	assert.Equal(t, 1.0, g.Stops[3].Pos)

	// hard edge at 0: the later colour wins
	assert.Equal(t, dodgerBlue, g.ColorAt(0))
	assert.Equal(t, white, g.ColorAt(0.7))
	assert.Equal(t, dodgerBlue, g.ColorAt(2))
}

func TestSanitize(t *testing.T) {
	p := Params{
		Pattern:         Pattern(99),
		AngleDeg:        math.Inf(1),
		BarCount:        0,
		Softness:        -1,
		Intensity:       math.NaN(),
		Speed:           math.NaN(),
		DurationSeconds: -3,
		FPS:             100,
	}.Sanitize()

	assert.Equal(t, Sweep, p.Pattern)
	assert.Equal(t, DefaultAngle, p.AngleDeg)
	assert.Equal(t, 1, p.BarCount)
	assert.Equal(t, 0.0, p.Softness)
	assert.Equal(t, DefaultIntensity, p.Intensity)
	assert.Equal(t, DefaultSpeed, p.Speed)
	assert.Equal(t, DefaultDuration, p.DurationSeconds)
	assert.Equal(t, MaxFPS, p.FPS)
	assert.Equal(t, uint8(0xFF), p.ColorA.A)

	q := Params{Speed: 99, FPS: 3, BarCount: 1000, DurationSeconds: 1e6}.Sanitize()
	assert.Equal(t, MaxSpeed, q.Speed)
	assert.Equal(t, MinFPS, q.FPS)
	assert.Equal(t, MaxBarCount, q.BarCount)
	assert.Equal(t, MaxDuration, q.DurationSeconds)
}

func TestEffectivePhase(t *testing.T) {
	assert.InDelta(t, 0.5, Effective(0.25, 2), 1e-12)
	assert.Equal(t, 0.0, Effective(1, 1))
	assert.Equal(t, 0.0, Effective(math.NaN(), 1))
}

func TestAddStopSnapsNearPositions(t *testing.T) {
	var g Gradient
	require.True(t, g.AddStop(0.3, white))
	assert.True(t, g.AddStop(0.3+1e-12, dodgerBlue))
	assert.False(t, g.AddStop(0.3-1e-12, dodgerBlue))

	require.Len(t, g.Stops, 2)
	assert.Equal(t, 0.3, g.Stops[1].Pos)
	assert.Equal(t, dodgerBlue, g.ColorAt(0.3))
}
