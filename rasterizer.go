package ink

import (
	"image"

	"github.com/gogpu/ink/internal/stamp"
)

// Rasterizer stamps curve segments into an owned RGBA buffer.
//
// The buffer is allocated lazily: until a size is known through
// [Rasterizer.EnsureSize], Draw still returns the instructions for a
// segment but paints nothing.
//
// Rasterizer is not safe for concurrent use.
type Rasterizer struct {
	width   int
	height  int
	buf     *Pixmap
	stamper *stamp.Stamper
	dirty   image.Rectangle
	scratch []DrawInstruction
}

// NewRasterizer creates a rasterizer for a canvas of the given size. Zero
// dimensions defer allocation until EnsureSize is called.
func NewRasterizer(width, height int) *Rasterizer {
	return &Rasterizer{
		width:   max(width, 0),
		height:  max(height, 0),
		stamper: stamp.New(),
	}
}

// EnsureSize records the canvas size and allocates the buffer if it does
// not exist yet or has a different size. It reports whether a new, blank
// buffer was allocated.
func (r *Rasterizer) EnsureSize(width, height int) bool {
	width, height = max(width, 0), max(height, 0)
	if r.buf != nil && r.width == width && r.height == height {
		return false
	}
	r.width, r.height = width, height
	if width == 0 || height == 0 {
		r.buf = nil
		return false
	}
	r.buf = NewPixmap(width, height)
	return true
}

// Size returns the canvas size known to the rasterizer.
func (r *Rasterizer) Size() (width, height int) {
	return r.width, r.height
}

// Draw computes the dot instructions for seg in color c and stamps them
// into the buffer, allocating it first if the canvas size is known.
//
// The returned slice is reused by the next call to Draw.
func (r *Rasterizer) Draw(seg CurveSegment, c RGBA) []DrawInstruction {
	if r.buf == nil && r.width > 0 && r.height > 0 {
		r.buf = NewPixmap(r.width, r.height)
	}
	r.scratch = r.scratch[:0]
	for ins := range seg.Instructions(c) {
		r.scratch = append(r.scratch, ins)
	}
	r.dirty = r.Apply(r.scratch)
	return r.scratch
}

// Apply stamps instructions into the buffer and returns the rectangle they
// touched. It is a no-op without a buffer.
func (r *Rasterizer) Apply(instructions []DrawInstruction) image.Rectangle {
	if r.buf == nil {
		return image.Rectangle{}
	}
	dst := r.buf.RGBA()
	var dirty image.Rectangle
	var last RGBA
	premul := last.Premul8()
	for i, ins := range instructions {
		if i == 0 || ins.Color != last {
			last = ins.Color
			premul = last.Premul8()
		}
		dirty = dirty.Union(r.stamper.Dot(dst, ins.X, ins.Y, ins.StrokeWidth, premul))
	}
	return dirty
}

// Dirty returns the rectangle touched by the last Draw.
func (r *Rasterizer) Dirty() image.Rectangle {
	return r.dirty
}

// Pixmap returns the working buffer, or nil if none has been allocated.
// The caller must not modify it.
func (r *Rasterizer) Pixmap() *Pixmap {
	return r.buf
}

// Reset discards the buffer contents. The canvas size is kept, so the next
// Draw allocates a fresh buffer.
func (r *Rasterizer) Reset() {
	r.buf = nil
	r.dirty = image.Rectangle{}
	r.scratch = r.scratch[:0]
}
