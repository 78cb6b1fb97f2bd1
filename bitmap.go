package ink

import (
	"image"

	"golang.org/x/image/draw"

	"github.com/gogpu/ink/internal/blend"
)

// Recolor returns a copy of src with every inked pixel replaced by pen,
// keeping its coverage (the source-in color filter).
func Recolor(src *Pixmap, pen RGBA) *Pixmap {
	out := src.Clone()
	p := pen.Premul8()
	blend.RecolorSpan(out.Data(), p.R, p.G, p.B, p.A)
	return out
}

// Compose returns a new buffer of the same size as src, filled with
// background, with src composited on top. A non-nil pen recolors the ink
// first.
func Compose(src *Pixmap, background RGBA, pen *RGBA) *Pixmap {
	layer := src
	if pen != nil {
		layer = Recolor(src, *pen)
	}
	out := NewPixmap(src.Width(), src.Height())
	dst := out.RGBA()
	draw.Draw(dst, dst.Rect, image.NewUniform(background.Premul8()), image.Point{}, draw.Src)
	blend.OverSpan(dst.Pix, layer.Data())
	return out
}

// isBackground reports whether the pixel at byte offset i is fully
// transparent.
func isBackground(pix []uint8, i int) bool {
	return pix[i+3] == 0 && pix[i] == 0 && pix[i+1] == 0 && pix[i+2] == 0
}

// TrimRect finds the bounding box of the non-transparent pixels of src with
// four directional scans. It reports false when every pixel is transparent.
//
// The rectangle spans [xMin, xMax) by [yMin, yMax) where xMax and yMax are
// the last inked column and row, so a one-pixel-wide ink column yields a
// zero-width rectangle anchored at that column.
func TrimRect(src *Pixmap) (image.Rectangle, bool) {
	w, h := src.Width(), src.Height()
	pix := src.Data()
	stride := 4 * w
	at := func(x, y int) int { return y*stride + 4*x }

	xMin := -1
scanXMin:
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			if !isBackground(pix, at(x, y)) {
				xMin = x
				break scanXMin
			}
		}
	}
	if xMin < 0 {
		return image.Rectangle{}, false
	}

	yMin := 0
scanYMin:
	for y := 0; y < h; y++ {
		for x := xMin; x < w; x++ {
			if !isBackground(pix, at(x, y)) {
				yMin = y
				break scanYMin
			}
		}
	}

	xMax := xMin
scanXMax:
	for x := w - 1; x >= xMin; x-- {
		for y := yMin; y < h; y++ {
			if !isBackground(pix, at(x, y)) {
				xMax = x
				break scanXMax
			}
		}
	}

	yMax := yMin
scanYMax:
	for y := h - 1; y >= yMin; y-- {
		for x := xMin; x <= xMax; x++ {
			if !isBackground(pix, at(x, y)) {
				yMax = y
				break scanYMax
			}
		}
	}

	return image.Rectangle{Min: image.Pt(xMin, yMin), Max: image.Pt(xMax, yMax)}, true
}

// Trim optionally recolors src with pen and, when trim is set, crops it to
// the bounding box found by [TrimRect]. A buffer without ink is returned
// as is. The crop is xMax-xMin by yMax-yMin pixels, which is empty when the
// ink covers a single column or row.
//
// The result never aliases src when pen is set; otherwise an untrimmed
// result is src itself.
func Trim(src *Pixmap, trim bool, pen *RGBA) *Pixmap {
	out := src
	if pen != nil {
		out = Recolor(src, *pen)
	}
	if !trim {
		return out
	}
	r, ok := TrimRect(out)
	if !ok {
		return out
	}
	cropped := NewPixmap(r.Dx(), r.Dy())
	if cropped.Empty() {
		return cropped
	}
	draw.Copy(cropped.RGBA(), image.Point{}, out.RGBA(), r, draw.Src, nil)
	return cropped
}
