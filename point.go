package ink

import "math"

// TimedPoint is a sampled pointer position with the time it was observed.
type TimedPoint struct {
	X, Y      float32
	Timestamp int64
}

// DistanceTo returns the Euclidean distance between p and q.
func (p TimedPoint) DistanceTo(q TimedPoint) float32 {
	dx := float64(q.X - p.X)
	dy := float64(q.Y - p.Y)
	return float32(math.Sqrt(dx*dx + dy*dy))
}

// VelocityFrom returns the distance travelled from start to p per
// millisecond. The elapsed time is clamped to at least 1ms and non-finite
// results collapse to 0.
func (p TimedPoint) VelocityFrom(start TimedPoint) float32 {
	diff := p.Timestamp - start.Timestamp
	if diff <= 0 {
		diff = 1
	}
	v := p.DistanceTo(start) / float32(diff)
	if !finite(v) {
		return 0
	}
	return v
}

// ControlPointPair holds the two control points derived for the middle
// point of a triple.
type ControlPointPair struct {
	C1, C2 TimedPoint
}

// controlPoints derives Catmull-Rom style control points for s2 from its
// neighbours s1 and s3. The midpoints of both chords are pulled towards s2 so
// the resulting curve passes through it smoothly.
func controlPoints(s1, s2, s3 TimedPoint) ControlPointPair {
	dx1 := s1.X - s2.X
	dy1 := s1.Y - s2.Y
	dx2 := s2.X - s3.X
	dy2 := s2.Y - s3.Y

	m1X := (s1.X + s2.X) / 2
	m1Y := (s1.Y + s2.Y) / 2
	m2X := (s2.X + s3.X) / 2
	m2Y := (s2.Y + s3.Y) / 2

	l1 := float32(math.Sqrt(float64(dx1*dx1 + dy1*dy1)))
	l2 := float32(math.Sqrt(float64(dx2*dx2 + dy2*dy2)))

	dxm := m1X - m2X
	dym := m1Y - m2Y

	k := l2 / (l1 + l2)
	if math.IsNaN(float64(k)) { // both chords empty
		k = 0
	}

	cmX := m2X + dxm*k
	cmY := m2Y + dym*k
	tx := s2.X - cmX
	ty := s2.Y - cmY

	ts := s3.Timestamp
	return ControlPointPair{
		C1: TimedPoint{X: m1X + tx, Y: m1Y + ty, Timestamp: ts},
		C2: TimedPoint{X: m2X + tx, Y: m2Y + ty, Timestamp: ts},
	}
}

// maxPooledPoints bounds the free list; a session never has more than the
// four window points plus a couple in flight.
const maxPooledPoints = 8

// pointPool is a per-session free list of TimedPoint storage.
//
// pointPool is not safe for concurrent use; each Fitter owns one.
type pointPool struct {
	free []*TimedPoint
}

// get returns a point from the free list, or a new one when it is empty.
func (p *pointPool) get(x, y float32, ts int64) *TimedPoint {
	var pt *TimedPoint
	if n := len(p.free); n > 0 {
		pt = p.free[n-1]
		p.free[n-1] = nil
		p.free = p.free[:n-1]
	} else {
		pt = new(TimedPoint)
	}
	pt.X, pt.Y, pt.Timestamp = x, y, ts
	return pt
}

// put recycles pt. Points beyond the pool bound are left to the GC.
func (p *pointPool) put(pt *TimedPoint) {
	if pt == nil || len(p.free) >= maxPooledPoints {
		return
	}
	p.free = append(p.free, pt)
}
