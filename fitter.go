package ink

import (
	"fmt"
)

// windowSize is the number of points needed to emit one curve segment.
const windowSize = 4

// RunningStrokeState carries the smoothed velocity and the end width of the
// previous segment into the next one.
type RunningStrokeState struct {
	LastWidth    float32
	LastVelocity float32
}

// Fitter turns a stream of raw events into cubic curve segments whose width
// follows the pointer velocity.
//
// The fitter keeps a sliding window of at most four points. A Down event
// clears the window and seeds it with its point twice, so the first segment
// is emitted on the second Move (or Up) of a stroke.
//
// Fitter is not safe for concurrent use.
type Fitter struct {
	minWidth float32
	maxWidth float32
	weight   float32

	window []*TimedPoint
	pool   pointPool
	state  RunningStrokeState
}

// NewFitter creates a fitter with the given width bounds in pixels and
// velocity filter weight in [0, 1].
func NewFitter(minWidth, maxWidth int, weight float32) *Fitter {
	f := &Fitter{window: make([]*TimedPoint, 0, windowSize)}
	f.Configure(minWidth, maxWidth, weight)
	return f
}

// Configure replaces the width bounds and filter weight. The running stroke
// state is reset so the next segment starts at the mean width.
func (f *Fitter) Configure(minWidth, maxWidth int, weight float32) {
	f.minWidth = float32(minWidth)
	f.maxWidth = float32(maxWidth)
	f.weight = weight
	f.resetState()
}

// State returns the running stroke state.
func (f *Fitter) State() RunningStrokeState {
	return f.state
}

// Reset clears the window and the running stroke state.
func (f *Fitter) Reset() {
	f.recycleWindow()
	f.resetState()
}

func (f *Fitter) resetState() {
	f.state = RunningStrokeState{
		LastWidth:    (f.minWidth + f.maxWidth) / 2,
		LastVelocity: 0,
	}
}

func (f *Fitter) recycleWindow() {
	for i, pt := range f.window {
		f.pool.put(pt)
		f.window[i] = nil
	}
	f.window = f.window[:0]
}

// Process consumes one event. It returns the emitted segment and true when
// the window was full, or false when the event only primed the window.
//
// Coordinates must be finite; see [SanitizeEvent]. An unknown action yields
// an error wrapping [ErrInvalidMotionAction] and leaves the fitter untouched.
func (f *Fitter) Process(ev RawEvent) (CurveSegment, bool, error) {
	switch ev.Action {
	case ActionDown:
		f.recycleWindow()
		f.push(ev)
		return CurveSegment{}, false, nil
	case ActionMove, ActionUp:
		seg, ok := f.push(ev)
		return seg, ok, nil
	default:
		return CurveSegment{}, false, fmt.Errorf("%w: %d", ErrInvalidMotionAction, int32(ev.Action))
	}
}

func (f *Fitter) push(ev RawEvent) (CurveSegment, bool) {
	f.window = append(f.window, f.pool.get(ev.X, ev.Y, ev.Timestamp))
	if len(f.window) == 1 {
		// A lone point is doubled so the first segment needs only two
		// more samples.
		f.window = append(f.window, f.pool.get(ev.X, ev.Y, ev.Timestamp))
	}
	if len(f.window) < windowSize {
		return CurveSegment{}, false
	}

	p0, p1, p2, p3 := *f.window[0], *f.window[1], *f.window[2], *f.window[3]
	c1 := controlPoints(p0, p1, p2).C2
	c2 := controlPoints(p1, p2, p3).C1

	velocity := p2.VelocityFrom(p1)
	velocity = f.weight*velocity + (1-f.weight)*f.state.LastVelocity
	width := f.strokeWidth(velocity)

	seg := CurveSegment{
		Start:      p1,
		Control1:   c1,
		Control2:   c2,
		End:        p2,
		StartWidth: f.state.LastWidth,
		EndWidth:   width,
	}
	f.state.LastVelocity = velocity
	f.state.LastWidth = width

	f.pool.put(f.window[0])
	copy(f.window, f.window[1:])
	f.window[len(f.window)-1] = nil
	f.window = f.window[:len(f.window)-1]
	return seg, true
}

// strokeWidth maps a smoothed velocity to a width in [minWidth, maxWidth].
// Faster motion draws thinner ink.
func (f *Fitter) strokeWidth(velocity float32) float32 {
	w := f.maxWidth / (velocity + 1)
	if w < f.minWidth {
		w = f.minWidth
	}
	if w > f.maxWidth {
		w = f.maxWidth
	}
	return w
}

// FitEvents runs events through a fresh fitter configured from cfg and
// returns every emitted segment. Non-finite coordinates are handled per
// cfg.CoordinatePolicy, matching what a [Session] would do.
func FitEvents(cfg Config, events []RawEvent) ([]CurveSegment, error) {
	f := NewFitter(cfg.MinWidth, cfg.MaxWidth, cfg.VelocityFilterWeight)
	var segs []CurveSegment
	for i, ev := range events {
		ev, _, err := cfg.CoordinatePolicy.apply(ev)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		seg, ok, err := f.Process(ev)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		if ok {
			segs = append(segs, seg)
		}
	}
	return segs, nil
}
