package ink

import (
	"image"
	"image/color"
)

// Pixmap is an RGBA8888 pixel buffer with premultiplied alpha.
// It implements image.Image and draw.Image.
type Pixmap struct {
	img *image.RGBA
}

// NewPixmap creates a transparent pixmap with the given dimensions.
// Negative dimensions are treated as zero.
func NewPixmap(width, height int) *Pixmap {
	return &Pixmap{img: image.NewRGBA(image.Rect(0, 0, max(width, 0), max(height, 0)))}
}

// Width returns the width of the pixmap.
func (p *Pixmap) Width() int {
	return p.img.Rect.Dx()
}

// Height returns the height of the pixmap.
func (p *Pixmap) Height() int {
	return p.img.Rect.Dy()
}

// Empty reports whether the pixmap has no pixels at all.
func (p *Pixmap) Empty() bool {
	return p.img.Rect.Empty()
}

// Data returns the raw premultiplied pixel data, 4 bytes per pixel, row
// stride 4*Width.
func (p *Pixmap) Data() []uint8 {
	return p.img.Pix
}

// SetPixel sets the color of a single pixel. Out of range coordinates are
// ignored.
func (p *Pixmap) SetPixel(x, y int, c RGBA) {
	if !(image.Point{X: x, Y: y}).In(p.img.Rect) {
		return
	}
	p.img.SetRGBA(x, y, c.Premul8())
}

// GetPixel returns the color of a single pixel, or Transparent when the
// coordinates are out of range.
func (p *Pixmap) GetPixel(x, y int) RGBA {
	if !(image.Point{X: x, Y: y}).In(p.img.Rect) {
		return Transparent
	}
	return FromColor(p.img.RGBAAt(x, y))
}

// Clear fills the entire pixmap with a color.
func (p *Pixmap) Clear(c RGBA) {
	v := c.Premul8()
	pix := p.img.Pix
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i+0] = v.R
		pix[i+1] = v.G
		pix[i+2] = v.B
		pix[i+3] = v.A
	}
}

// Clone returns a deep copy of the pixmap.
func (p *Pixmap) Clone() *Pixmap {
	c := NewPixmap(p.Width(), p.Height())
	copy(c.img.Pix, p.img.Pix)
	return c
}

// RGBA exposes the backing image without copying. Writes through it are
// visible in the pixmap.
func (p *Pixmap) RGBA() *image.RGBA {
	return p.img
}

// Equal reports whether both pixmaps have the same size and bytes.
func (p *Pixmap) Equal(o *Pixmap) bool {
	if p == nil || o == nil {
		return p == o
	}
	if p.img.Rect != o.img.Rect {
		return false
	}
	return string(p.img.Pix) == string(o.img.Pix)
}

// At implements the image.Image interface.
func (p *Pixmap) At(x, y int) color.Color {
	return p.img.At(x, y)
}

// Set implements the draw.Image interface.
func (p *Pixmap) Set(x, y int, c color.Color) {
	p.img.Set(x, y, c)
}

// Bounds implements the image.Image interface.
func (p *Pixmap) Bounds() image.Rectangle {
	return p.img.Rect
}

// ColorModel implements the image.Image interface.
func (p *Pixmap) ColorModel() color.Model {
	return color.RGBAModel
}
