package ink

import (
	"math"
	"strconv"
	"strings"
)

// SvgPoint is a point rounded to whole pixels, as written into path data.
type SvgPoint struct {
	X, Y int
}

// svgPointOf rounds half away from zero.
func svgPointOf(p TimedPoint) SvgPoint {
	return SvgPoint{X: int(math.Round(float64(p.X))), Y: int(math.Round(float64(p.Y)))}
}

func (p SvgPoint) appendTo(b []byte) []byte {
	b = strconv.AppendInt(b, int64(p.X), 10)
	b = append(b, ',')
	return strconv.AppendInt(b, int64(p.Y), 10)
}

// svgPath is one open <path> element: a move to the start point followed by
// a single relative cubic command with one coordinate triple per segment.
type svgPath struct {
	strokeWidth int
	start       SvgPoint
	last        SvgPoint
	commands    []byte
}

func (p *svgPath) append(c1, c2, end SvgPoint) {
	d1 := SvgPoint{c1.X - p.last.X, c1.Y - p.last.Y}
	d2 := SvgPoint{c2.X - p.last.X, c2.Y - p.last.Y}
	d := SvgPoint{end.X - p.last.X, end.Y - p.last.Y}
	p.last = end
	if d1 == (SvgPoint{}) && d2 == (SvgPoint{}) && d == (SvgPoint{}) {
		return
	}
	p.commands = d1.appendTo(p.commands)
	p.commands = append(p.commands, ' ')
	p.commands = d2.appendTo(p.commands)
	p.commands = append(p.commands, ' ')
	p.commands = d.appendTo(p.commands)
	p.commands = append(p.commands, ' ')
}

func (p *svgPath) writeTo(sb *strings.Builder) {
	sb.WriteString(`<path stroke-width="`)
	sb.WriteString(strconv.Itoa(p.strokeWidth))
	sb.WriteString(`" d="M`)
	sb.Write(p.start.appendTo(nil))
	sb.WriteByte('c')
	sb.Write(p.commands)
	sb.WriteString(`"/>`)
}

// SVGBuilder coalesces curve segments into SVG paths. Consecutive segments
// that share an endpoint and a rounded width end up in the same <path>.
//
// Only the width is encoded; every path is stroked black by the enclosing
// group regardless of the session's pen color.
type SVGBuilder struct {
	paths strings.Builder // closed paths
	open  *svgPath
}

// NewSVGBuilder creates an empty builder.
func NewSVGBuilder() *SVGBuilder {
	return &SVGBuilder{}
}

// segmentWidth is the path width used for a segment: the mean of its end
// widths, rounded half away from zero.
func segmentWidth(seg CurveSegment) int {
	return int(math.Round(float64((seg.StartWidth + seg.EndWidth) / 2)))
}

// Append adds a segment, starting a new path when none is open, when the
// rounded width changes, or when the segment does not continue from the
// open path's last point.
func (b *SVGBuilder) Append(seg CurveSegment) {
	width := segmentWidth(seg)
	start := svgPointOf(seg.Start)
	if b.open == nil || b.open.strokeWidth != width || b.open.last != start {
		b.flush()
		b.open = &svgPath{strokeWidth: width, start: start, last: start}
	}
	b.open.append(svgPointOf(seg.Control1), svgPointOf(seg.Control2), svgPointOf(seg.End))
}

// flush writes the open path, if any, and closes it.
func (b *SVGBuilder) flush() {
	if b.open == nil {
		return
	}
	if len(b.open.commands) > 0 {
		b.open.writeTo(&b.paths)
	}
	b.open = nil
}

// Build returns the SVG document for a canvas of the given size. The open
// path is rendered but stays open, so later segments may still extend it
// and repeated calls never duplicate it.
func (b *SVGBuilder) Build(width, height int) string {
	w := strconv.Itoa(width)
	h := strconv.Itoa(height)

	var sb strings.Builder
	sb.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" version="1.2" baseProfile="tiny" width="`)
	sb.WriteString(w)
	sb.WriteString(`" height="`)
	sb.WriteString(h)
	sb.WriteString(`" viewBox="0 0 `)
	sb.WriteString(w)
	sb.WriteByte(' ')
	sb.WriteString(h)
	sb.WriteString(`"><g stroke-linejoin="round" stroke-linecap="round" fill="none" stroke="black">`)
	sb.WriteString(b.paths.String())
	if b.open != nil && len(b.open.commands) > 0 {
		b.open.writeTo(&sb)
	}
	sb.WriteString(`</g></svg>`)
	return sb.String()
}

// Paths returns the number of non-empty paths Build would emit.
func (b *SVGBuilder) Paths() int {
	n := strings.Count(b.paths.String(), "<path ")
	if b.open != nil && len(b.open.commands) > 0 {
		n++
	}
	return n
}

// Reset discards all paths.
func (b *SVGBuilder) Reset() {
	b.paths.Reset()
	b.open = nil
}
