package raster

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/Brandjuh/Cad-tag-generator/internal/pattern"
)

// paint evaluates plan at every pixel centre of the area covered by geom.
// layer holds premultiplied RGBA and is expected to be cleared.
func paint(layer *image.RGBA, geom pattern.Rect, plan pattern.FillPlan) error {
	area := pixelRect(geom).Intersect(layer.Rect)
	if area.Empty() {
		return nil
	}

	switch p := plan.(type) {
	case pattern.Solid:
		c := premul(p.Color, 1)
		for y := area.Min.Y; y < area.Max.Y; y++ {
			for x := area.Min.X; x < area.Max.X; x++ {
				setPix(layer, x, y, c)
			}
		}
	case pattern.Gradient:
		for y := area.Min.Y; y < area.Max.Y; y++ {
			for x := area.Min.X; x < area.Max.X; x++ {
				pos := p.Project(float64(x)+0.5, float64(y)+0.5)
				setPix(layer, x, y, premul(p.ColorAt(pos), 1))
			}
		}
	case pattern.Composite:
		for _, r := range p.Regions {
			paintRegion(layer, area, r)
		}
	default:
		return fmt.Errorf("raster: unsupported fill plan %T", plan)
	}
	return nil
}

func paintRegion(layer *image.RGBA, area image.Rectangle, r pattern.Region) {
	alpha := math.Max(0, math.Min(1, r.Alpha))
	if alpha == 0 {
		return
	}
	src := premul(r.Color, alpha)
	px := pixelRect(r.Rect).Intersect(area)
	for y := px.Min.Y; y < px.Max.Y; y++ {
		for x := px.Min.X; x < px.Max.X; x++ {
			dst := getPix(layer, x, y)
			switch r.Blend {
			case pattern.Additive:
				dst = lighter(src, dst)
			default:
				dst = over(src, dst)
			}
			setPix(layer, x, y, dst)
		}
	}
}

// pixelRect returns the pixels whose centres fall inside r.
func pixelRect(r pattern.Rect) image.Rectangle {
	return image.Rect(
		int(math.Ceil(r.X-0.5)),
		int(math.Ceil(r.Y-0.5)),
		int(math.Ceil(r.X+r.W-0.5)),
		int(math.Ceil(r.Y+r.H-0.5)),
	)
}

// rgbaf is a premultiplied colour with channels in [0,1].
type rgbaf [4]float64

func premul(c color.NRGBA, alpha float64) rgbaf {
	a := float64(c.A) / 255 * alpha
	return rgbaf{float64(c.R) / 255 * a, float64(c.G) / 255 * a, float64(c.B) / 255 * a, a}
}

func over(s, d rgbaf) rgbaf {
	k := 1 - s[3]
	return rgbaf{s[0] + d[0]*k, s[1] + d[1]*k, s[2] + d[2]*k, s[3] + d[3]*k}
}

// lighter is the additive "lighter" operator: channels sum and saturate.
func lighter(s, d rgbaf) rgbaf {
	return rgbaf{
		math.Min(1, s[0]+d[0]),
		math.Min(1, s[1]+d[1]),
		math.Min(1, s[2]+d[2]),
		math.Min(1, s[3]+d[3]),
	}
}

func getPix(img *image.RGBA, x, y int) rgbaf {
	i := img.PixOffset(x, y)
	p := img.Pix[i : i+4 : i+4]
	return rgbaf{float64(p[0]) / 255, float64(p[1]) / 255, float64(p[2]) / 255, float64(p[3]) / 255}
}

func setPix(img *image.RGBA, x, y int, c rgbaf) {
	i := img.PixOffset(x, y)
	p := img.Pix[i : i+4 : i+4]
	for k := 0; k < 4; k++ {
		p[k] = uint8(math.Round(math.Max(0, math.Min(1, c[k])) * 255))
	}
}
