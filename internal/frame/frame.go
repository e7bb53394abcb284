package frame

import (
	"errors"
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// ErrConsistency is returned when the frames of a sequence disagree on
// geometry or the sequence is malformed.
var ErrConsistency = errors.New("frame sequence is inconsistent")

// Frame is a captured RGBA8 image: row-major, straight alpha, no row padding.
type Frame struct {
	Width  int
	Height int
	Pix    []byte
}

// New allocates a fully transparent frame.
func New(width, height int) *Frame {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Frame{Width: width, Height: height, Pix: make([]byte, width*height*4)}
}

// FromImage captures img into a new frame. Premultiplied sources are
// converted to straight alpha.
func FromImage(img image.Image) *Frame {
	b := img.Bounds()
	if n, ok := img.(*image.NRGBA); ok && n.Stride == b.Dx()*4 && b.Min == (image.Point{}) {
		pix := make([]byte, len(n.Pix[:b.Dx()*b.Dy()*4]))
		copy(pix, n.Pix)
		return &Frame{Width: b.Dx(), Height: b.Dy(), Pix: pix}
	}

	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return &Frame{Width: b.Dx(), Height: b.Dy(), Pix: dst.Pix}
}

// Image returns an *image.NRGBA view sharing the frame's pixels.
func (f *Frame) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    f.Pix,
		Stride: f.Width * 4,
		Rect:   image.Rect(0, 0, f.Width, f.Height),
	}
}

// At returns the pixel at (x, y).
func (f *Frame) At(x, y int) color.NRGBA {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return color.NRGBA{}
	}
	i := (y*f.Width + x) * 4
	return color.NRGBA{R: f.Pix[i], G: f.Pix[i+1], B: f.Pix[i+2], A: f.Pix[i+3]}
}

// Fill sets every pixel to c.
func (f *Frame) Fill(c color.NRGBA) {
	for i := 0; i+3 < len(f.Pix); i += 4 {
		f.Pix[i] = c.R
		f.Pix[i+1] = c.G
		f.Pix[i+2] = c.B
		f.Pix[i+3] = c.A
	}
}

func (f *Frame) valid() bool {
	return f != nil && f.Width > 0 && f.Height > 0 && len(f.Pix) == f.Width*f.Height*4
}
