package analyzer

import (
	"image"
	"image/color"

	"github.com/Brandjuh/Cad-tag-generator/internal/frame"
)

// MinReadableContrast is the WCAG ratio below which a tag is flagged.
const MinReadableContrast = 3.0

// Result is the outcome of a readability check
type Result struct {
	Ratio float64 // worst contrast ratio found
	Frame int     // index of the frame it was found in
	Color color.NRGBA
}

// Readable reports whether the worst ratio meets MinReadableContrast
func (r Result) Readable() bool {
	return r.Ratio >= MinReadableContrast
}

// Checker is the interface for background readability strategies
type Checker interface {
	Check(text color.NRGBA, seq *frame.Sequence, probe image.Rectangle) (Result, error)
}
