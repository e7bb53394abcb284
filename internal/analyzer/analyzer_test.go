package analyzer

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/Brandjuh/Cad-tag-generator/internal/frame"
)

var (
	white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	black = color.NRGBA{A: 255}
)

func TestContrastRatio(t *testing.T) {
	tests := []struct {
		name string
		a, b color.NRGBA
		want float64
	}{
		{"white on black", white, black, 21},
		{"black on white", black, white, 21},
		{"same colour", white, white, 1},
		{"navy tag", white, color.NRGBA{R: 0x0B, G: 0x17, B: 0x36, A: 255}, 17.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ContrastRatio(tt.a, tt.b)
			if math.Abs(got-tt.want) > 0.5 {
				t.Errorf("ContrastRatio = %.3f, want %.1f", got, tt.want)
			}
		})
	}
}

func sequenceOf(colors ...color.NRGBA) *frame.Sequence {
	seq := &frame.Sequence{}
	for _, c := range colors {
		f := frame.New(10, 10)
		f.Fill(c)
		seq.Append(f, 40)
	}
	return seq
}

func TestCheckers(t *testing.T) {
	yellow := color.NRGBA{R: 0xFF, G: 0xD5, A: 0xFF}
	seq := sequenceOf(black, yellow, black)
	probe := image.Rect(0, 0, 4, 10)

	for _, variant := range []string{"mean", "pixel", ""} {
		t.Run(variant, func(t *testing.T) {
			c, err := NewChecker(variant)
			if err != nil {
				t.Fatalf("NewChecker(%q): %v", variant, err)
			}
			res, err := c.Check(white, seq, probe)
			if err != nil {
				t.Fatalf("Check: %v", err)
			}
			if res.Frame != 1 {
				t.Errorf("worst frame = %d, want 1", res.Frame)
			}
			if res.Readable() {
				t.Errorf("white on yellow should not be readable (ratio %.2f)", res.Ratio)
			}
			if res.Color != yellow {
				t.Errorf("worst colour = %v, want %v", res.Color, yellow)
			}
		})
	}
}

func TestCheckErrors(t *testing.T) {
	if _, err := NewChecker("ocr"); err == nil {
		t.Error("expected unknown variant error")
	}
	if _, err := (MeanChecker{}).Check(white, &frame.Sequence{}, image.Rect(0, 0, 1, 1)); err == nil {
		t.Error("expected error for empty sequence")
	}
	// probe outside every frame
	if _, err := (PixelChecker{}).Check(white, sequenceOf(black), image.Rect(50, 50, 60, 60)); err == nil {
		t.Error("expected error for empty probe")
	}
}
