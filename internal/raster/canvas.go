package raster

import (
	"errors"
	"fmt"
	"image"
	"math"
	"sync"

	"github.com/skip2/go-qrcode"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/Brandjuh/Cad-tag-generator/internal/frame"
	"github.com/Brandjuh/Cad-tag-generator/internal/pattern"
	"github.com/Brandjuh/Cad-tag-generator/internal/system"
)

// ErrNilPlan is returned by Rasterize when called without a fill plan.
var ErrNilPlan = errors.New("raster: nil fill plan")

// lineHeight is the text box height as a multiple of the font size.
const lineHeight = 1.2

var (
	boldFont    = sync.OnceValues(func() (*opentype.Font, error) { return opentype.Parse(gobold.TTF) })
	regularFont = sync.OnceValues(func() (*opentype.Font, error) { return opentype.Parse(goregular.TTF) })
)

// Canvas draws one tag label. The geometry, masks and the static overlay
// (border, text, QR badge) are computed once in New; Rasterize only paints
// the fill, so one Canvas may be shared by concurrent frame workers.
type Canvas struct {
	style  Style
	width  int
	height int
	textW  int
	textH  int
	textX  int
	stroke int
	fill   pattern.Rect

	fillMask *image.Alpha // nil for a transparent background
	overlay  *image.RGBA
}

// New lays out style and prepares its masks.
func New(style Style) (*Canvas, error) {
	style = style.Normalize()
	scale := float64(style.Scale)

	face, err := newFace(style.Bold, style.FontSize*scale)
	if err != nil {
		return nil, err
	}
	defer face.Close()

	c := &Canvas{style: style}
	c.textW = font.MeasureString(face, style.Text).Ceil()
	c.textH = int(math.Ceil(style.FontSize * scale * lineHeight))

	padX := style.PadX * scale
	padY := style.PadY * scale
	stroke := style.Stroke * scale

	badge, gap := 0, 0
	if style.QR && style.Text != "" {
		badge = c.textH
		gap = max(1, int(math.Round(float64(c.textH)/4)))
	}

	c.width = max(1, int(math.Ceil(float64(c.textW+badge+gap)+2*padX+2*stroke)))
	c.height = max(1, int(math.Ceil(float64(c.textH)+2*padY+2*stroke)))
	w, h := float64(c.width), float64(c.height)
	c.fill = pattern.Rect{X: stroke / 2, Y: stroke / 2, W: w - stroke, H: h - stroke}

	bounds := image.Rect(0, 0, c.width, c.height)
	radius := style.Radius * scale

	if !style.Transparent && style.BgAlpha > 0 {
		c.fillMask = image.NewAlpha(bounds)
		z := vector.NewRasterizer(c.width, c.height)
		roundRect(z, c.fill, radius, false)
		z.Draw(c.fillMask, bounds, image.Opaque, image.Point{})
		if style.BgAlpha < 1 {
			for i, a := range c.fillMask.Pix {
				c.fillMask.Pix[i] = uint8(math.Round(float64(a) * style.BgAlpha))
			}
		}
	}

	c.overlay = image.NewRGBA(bounds)
	if stroke > 0 {
		ring := image.NewAlpha(bounds)
		z := vector.NewRasterizer(c.width, c.height)
		outer := 0.0 // square corners stay mitred
		if radius > 0 {
			outer = radius + stroke/2
		}
		roundRect(z, pattern.Rect{W: w, H: h}, outer, false)
		if w > 2*stroke && h > 2*stroke {
			inner := pattern.Rect{X: stroke, Y: stroke, W: w - 2*stroke, H: h - 2*stroke}
			roundRect(z, inner, math.Max(0, radius-stroke/2), true)
		}
		z.Draw(ring, bounds, image.Opaque, image.Point{})
		draw.DrawMask(c.overlay, bounds, image.NewUniform(style.StrokeColor), image.Point{}, ring, image.Point{}, draw.Over)
	}

	contentW := w - float64(badge+gap)
	d := font.Drawer{
		Dst:  c.overlay,
		Src:  image.NewUniform(style.TextColor),
		Face: face,
	}
	m := face.Metrics()
	c.textX = int(math.Round(contentW/2 - float64(c.textW)/2 + stroke/2))
	c.stroke = int(math.Ceil(stroke))
	d.Dot = fixed.Point26_6{
		X: fixed.I(c.textX),
		Y: fixed.I(int(math.Round(h/2))) + (m.Ascent-m.Descent)/2,
	}
	d.DrawString(style.Text)

	if badge > 0 {
		x0 := int(math.Round(stroke+padX)) + c.textW + gap
		y0 := int(math.Round(stroke + padY))
		if err := drawQR(c.overlay, image.Rect(x0, y0, x0+badge, y0+badge), style.Text); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func newFace(bold bool, size float64) (font.Face, error) {
	load := regularFont
	if bold {
		load = boldFont
	}
	f, err := load()
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("font face: %w", err)
	}
	return face, nil
}

func drawQR(dst draw.Image, r image.Rectangle, text string) error {
	q, err := qrcode.New(text, qrcode.Medium)
	if err != nil {
		return fmt.Errorf("qr badge: %w", err)
	}
	q.DisableBorder = true
	src := q.Image(r.Dx())
	draw.NearestNeighbor.Scale(dst, r, src, src.Bounds(), draw.Over, nil)
	return nil
}

// Style returns the normalized style.
func (c *Canvas) Style() Style { return c.style }

// Size returns the canvas size in pixels.
func (c *Canvas) Size() (width, height int) { return c.width, c.height }

// TextSize returns the measured text box.
func (c *Canvas) TextSize() (width, height int) { return c.textW, c.textH }

// FillArea is the rectangle fill plans are evaluated against: the tag
// outline inset by half the border width.
func (c *Canvas) FillArea() pattern.Rect { return c.fill }

// BackgroundProbe is the strip of fill between the border and the text.
// It falls back to the whole fill area when there is no left padding.
func (c *Canvas) BackgroundProbe() image.Rectangle {
	r := image.Rect(c.stroke, c.stroke, c.textX, c.height-c.stroke)
	if r.Dx() < 1 || r.Dy() < 1 {
		return pixelRect(c.fill)
	}
	return r
}

// Rasterize paints plan inside the rounded fill area, then the border, the
// text and the badge on top.
func (c *Canvas) Rasterize(plan pattern.FillPlan) (*frame.Frame, error) {
	if plan == nil {
		return nil, ErrNilPlan
	}
	bounds := image.Rect(0, 0, c.width, c.height)
	dst := system.GetImage(bounds)
	defer system.PutImage(dst)

	if c.fillMask != nil {
		layer := system.GetImage(bounds)
		err := paint(layer, c.fill, plan)
		if err == nil {
			draw.DrawMask(dst, bounds, layer, image.Point{}, c.fillMask, image.Point{}, draw.Over)
		}
		system.PutImage(layer)
		if err != nil {
			return nil, err
		}
	}
	draw.Draw(dst, bounds, c.overlay, image.Point{}, draw.Over)
	return frame.FromImage(dst), nil
}

// roundRect adds a closed rounded rectangle to z. Reverse winding cuts a
// hole out of an enclosing path.
func roundRect(z *vector.Rasterizer, r pattern.Rect, radius float64, reverse bool) {
	const steps = 8
	radius = math.Max(0, math.Min(radius, math.Min(r.W, r.H)/2))

	corners := [4][3]float64{
		{r.X + r.W - radius, r.Y + radius, -math.Pi / 2},
		{r.X + r.W - radius, r.Y + r.H - radius, 0},
		{r.X + radius, r.Y + r.H - radius, math.Pi / 2},
		{r.X + radius, r.Y + radius, math.Pi},
	}
	pts := make([][2]float32, 0, 4*(steps+1))
	for _, c := range corners {
		for i := 0; i <= steps; i++ {
			a := c[2] + float64(i)/steps*math.Pi/2
			pts = append(pts, [2]float32{
				float32(c[0] + radius*math.Cos(a)),
				float32(c[1] + radius*math.Sin(a)),
			})
		}
	}
	if reverse {
		for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
			pts[i], pts[j] = pts[j], pts[i]
		}
	}

	z.MoveTo(pts[0][0], pts[0][1])
	for _, p := range pts[1:] {
		z.LineTo(p[0], p[1])
	}
	z.ClosePath()
}
