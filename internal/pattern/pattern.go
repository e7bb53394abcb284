package pattern

import (
	"fmt"
	"strings"
)

// Pattern identifies one of the beacon lighting patterns.
type Pattern int

const (
	Sweep Pattern = iota
	Blink
	Pulse
	AltHalves
	LRPulse
	Bars
	Beacon
	DualBeacon
	Checker
	DiagonalSweep
	EUTriple
	EURolling
	USAltRB
	USSplitStrobe

	numPatterns
)

var names = [numPatterns]string{
	Sweep:         "sweep",
	Blink:         "blink",
	Pulse:         "pulse",
	AltHalves:     "alt-halves",
	LRPulse:       "lr-pulse",
	Bars:          "bars",
	Beacon:        "beacon",
	DualBeacon:    "dual-beacon",
	Checker:       "checker",
	DiagonalSweep: "diagonal-sweep",
	EUTriple:      "eu-triple",
	EURolling:     "eu-rolling",
	USAltRB:       "us-alt-rb",
	USSplitStrobe: "us-split-strobe",
}

var descriptions = [numPatterns]string{
	Sweep:         "gradient highlight easing along the angle axis",
	Blink:         "hard on/off between both colours",
	Pulse:         "whole tag fades between both colours",
	AltHalves:     "left and right halves swap colours",
	LRPulse:       "halves pulse in opposite phase",
	Bars:          "moving bars with a soft leading edge",
	Beacon:        "rotating beacon band, additive",
	DualBeacon:    "two opposed beacon bands, additive",
	Checker:       "6x2 checkerboard toggling every half cycle",
	DiagonalSweep: "corner to corner gradient sweep",
	EUTriple:      "European triple flash",
	EURolling:     "European rolling band",
	USAltRB:       "US red/blue alternating halves",
	USSplitStrobe: "US split strobe, red left then blue right",
}

// String returns the pattern identifier used in flags and presets.
func (p Pattern) String() string {
	if !p.Valid() {
		return fmt.Sprintf("pattern(%d)", int(p))
	}
	return names[p]
}

// Description returns a one-line human description.
func (p Pattern) Description() string {
	if !p.Valid() {
		return ""
	}
	return descriptions[p]
}

// Valid reports whether p is a known pattern.
func (p Pattern) Valid() bool {
	return p >= 0 && p < numPatterns
}

// All returns every pattern in declaration order.
func All() []Pattern {
	out := make([]Pattern, 0, numPatterns)
	for p := Pattern(0); p < numPatterns; p++ {
		out = append(out, p)
	}
	return out
}

// Parse resolves a pattern identifier. The empty string selects Sweep.
func Parse(name string) (Pattern, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
	if key == "" {
		return Sweep, nil
	}
	for p, n := range names {
		if n == key {
			return Pattern(p), nil
		}
	}
	return Sweep, fmt.Errorf("unknown pattern: %s", name)
}

// MarshalText implements encoding.TextMarshaler.
func (p Pattern) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("unknown pattern: %d", int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Pattern) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
