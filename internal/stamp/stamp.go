// Package stamp draws anti-aliased round dots, the primitive ink is built
// from. Every dot is one closed circle filled with golang.org/x/image/vector
// and composited source-over onto the destination.
package stamp

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

// kappa is the control point distance for a quarter circle drawn with one
// cubic Bezier, relative to the radius.
const kappa = 0.5522847498

// Stamper owns a reusable rasterizer. The zero value is not usable; call New.
//
// Stamper is not safe for concurrent use.
type Stamper struct {
	ras *vector.Rasterizer
	src *image.Uniform
}

// New creates a Stamper.
func New() *Stamper {
	return &Stamper{
		ras: vector.NewRasterizer(0, 0),
		src: image.NewUniform(color.Transparent),
	}
}

// Bounds returns the pixel rectangle covered by a dot, before clipping.
func Bounds(cx, cy, diameter float32) image.Rectangle {
	r := float64(diameter) / 2
	return image.Rect(
		int(math.Floor(float64(cx)-r)),
		int(math.Floor(float64(cy)-r)),
		int(math.Ceil(float64(cx)+r)),
		int(math.Ceil(float64(cy)+r)),
	)
}

// Dot fills a circle of the given diameter centred on (cx, cy) and returns
// the rectangle of dst it touched. Dots outside dst, or with a non-positive
// or non-finite diameter, draw nothing and return an empty rectangle.
func (s *Stamper) Dot(dst draw.Image, cx, cy, diameter float32, c color.Color) image.Rectangle {
	if !(diameter > 0) || math.IsInf(float64(diameter), 0) {
		return image.Rectangle{}
	}
	clip := Bounds(cx, cy, diameter).Intersect(dst.Bounds())
	if clip.Empty() {
		return image.Rectangle{}
	}

	// Rasterizer space starts at clip.Min.
	x := cx - float32(clip.Min.X)
	y := cy - float32(clip.Min.Y)
	r := diameter / 2
	k := r * kappa

	s.ras.Reset(clip.Dx(), clip.Dy())
	s.ras.DrawOp = draw.Over
	s.ras.MoveTo(x+r, y)
	s.ras.CubeTo(x+r, y+k, x+k, y+r, x, y+r)
	s.ras.CubeTo(x-k, y+r, x-r, y+k, x-r, y)
	s.ras.CubeTo(x-r, y-k, x-k, y-r, x, y-r)
	s.ras.CubeTo(x+k, y-r, x+r, y-k, x+r, y)
	s.ras.ClosePath()

	s.src.C = c
	s.ras.Draw(dst, clip, s.src, image.Point{})
	return clip
}
