package ink

import (
	"iter"
	"math"
)

// lengthSamples is the number of polyline pieces used to approximate the arc
// length of a segment.
const lengthSamples = 10

// CurveSegment is a cubic Bezier curve between two consecutive window points
// together with the stroke width at each end.
type CurveSegment struct {
	Start, Control1, Control2, End TimedPoint
	StartWidth, EndWidth           float32
}

// bezier evaluates one coordinate of the cubic Bernstein polynomial.
func bezier(t, start, c1, c2, end float64) float64 {
	mt := 1.0 - t
	return start*mt*mt*mt + 3.0*c1*mt*mt*t + 3.0*c2*mt*t*t + end*t*t*t
}

// Length approximates the arc length of the curve by summing the lengths of
// a polyline through eleven evenly spaced parameter values.
func (c CurveSegment) Length() float32 {
	var length float32
	var px, py float64
	for i := 0; i <= lengthSamples; i++ {
		t := float64(float32(i) / lengthSamples)
		cx := bezier(t, float64(c.Start.X), float64(c.Control1.X), float64(c.Control2.X), float64(c.End.X))
		cy := bezier(t, float64(c.Start.Y), float64(c.Control1.Y), float64(c.Control2.Y), float64(c.End.Y))
		if i > 0 {
			dx := cx - px
			dy := cy - py
			length += float32(math.Sqrt(dx*dx + dy*dy))
		}
		px, py = cx, cy
	}
	return length
}

// Steps returns the number of raster samples drawn for the curve, roughly
// one per pixel of arc length.
func (c CurveSegment) Steps() int {
	return int(math.Ceil(float64(c.Length())))
}

// Eval returns the position at parameter t in [0, 1].
func (c CurveSegment) Eval(t float32) (x, y float32) {
	tt := t * t
	ttt := tt * t
	u := 1 - t
	uu := u * u
	uuu := uu * u

	x = uuu * c.Start.X
	x += 3 * uu * t * c.Control1.X
	x += 3 * u * tt * c.Control2.X
	x += ttt * c.End.X

	y = uuu * c.Start.Y
	y += 3 * uu * t * c.Control1.Y
	y += 3 * u * tt * c.Control2.Y
	y += ttt * c.End.Y
	return x, y
}

// WidthAt returns the stroke width at parameter t. The width follows t³, so
// most of the change happens close to the end point.
func (c CurveSegment) WidthAt(t float32) float32 {
	return c.StartWidth + t*t*t*(c.EndWidth-c.StartWidth)
}

// DrawInstruction is a single round-capped dot to be stamped by a renderer.
type DrawInstruction struct {
	X, Y        float32
	StrokeWidth float32
	Color       RGBA
}

// Instructions returns the dots that render the curve in the given color.
// The sequence is finite and lazy: positions are computed as they are
// consumed. A curve whose step count is zero yields nothing.
func (c CurveSegment) Instructions(col RGBA) iter.Seq[DrawInstruction] {
	return func(yield func(DrawInstruction) bool) {
		steps := c.Steps()
		for i := 0; i < steps; i++ {
			t := float32(i) / float32(steps)
			x, y := c.Eval(t)
			if !yield(DrawInstruction{X: x, Y: y, StrokeWidth: c.WidthAt(t), Color: col}) {
				return
			}
		}
	}
}
