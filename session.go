package ink

import (
	"fmt"
	"image"
	"slices"
)

// Result describes what one accepted event did.
type Result struct {
	// Notification is the stroke phase the event moved to.
	Notification Notification

	// Segment is the emitted curve when HasSegment is set.
	Segment    CurveSegment
	HasSegment bool

	// Instructions are the dots stamped for Segment, in order.
	Instructions []DrawInstruction

	// Dirty is the part of the raster buffer the event repainted. It is
	// empty when nothing was painted.
	Dirty image.Rectangle
}

// Session is one drawing surface: it records every accepted event and
// renders it into a raster buffer and an SVG document.
//
// Restoring a session's [Session.Signature] into a fresh session with the same
// configuration reproduces the raster and the SVG byte for byte.
//
// Session is not safe for concurrent use. Hand draw instructions to other
// goroutines through a [DrawQueue].
type Session struct {
	cfg    Config
	fitter *Fitter
	raster *Rasterizer
	svg    *SVGBuilder
	events []RawEvent
	edited bool

	// clearedAt is the index of the first event drawn after the last Clear
	// that kept the log. Earlier events are audit history only.
	clearedAt int
}

// NewSession creates a session from [DefaultConfig] modified by opts.
func NewSession(opts ...SessionOption) (*Session, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Session{
		cfg:    cfg,
		fitter: NewFitter(cfg.MinWidth, cfg.MaxWidth, cfg.VelocityFilterWeight),
		raster: NewRasterizer(cfg.Width, cfg.Height),
		svg:    NewSVGBuilder(),
	}
	Logger().Debug("ink: session created",
		"min_width", cfg.MinWidth,
		"max_width", cfg.MaxWidth,
		"weight", cfg.VelocityFilterWeight,
		"width", cfg.Width,
		"height", cfg.Height,
	)
	return s, nil
}

// Config returns the session configuration.
func (s *Session) Config() Config {
	return s.cfg
}

// CanvasSize returns the canvas size, zero while unknown.
func (s *Session) CanvasSize() (width, height int) {
	return s.raster.Size()
}

// Configure replaces the configuration before the next event. Width
// bounds and filter weight take effect for the next segment; a changed
// canvas size resizes as [Session.Resize] does.
func (s *Session) Configure(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.cfg = cfg
	s.fitter.Configure(cfg.MinWidth, cfg.MaxWidth, cfg.VelocityFilterWeight)
	if cfg.Width > 0 && cfg.Height > 0 {
		s.Resize(cfg.Width, cfg.Height)
	}
	return nil
}

// Resize sets the canvas size. If that allocates a new raster buffer the
// recorded events are replayed into it, so the ink survives the resize.
func (s *Session) Resize(width, height int) {
	s.cfg.Width, s.cfg.Height = width, height
	if !s.raster.EnsureSize(width, height) {
		return
	}
	if n := len(s.live()); n > 0 {
		Logger().Debug("ink: replaying after resize", "width", width, "height", height, "events", n)
		s.replay()
	}
}

// Add processes one event. Events with an unknown action are rejected with
// [ErrInvalidMotionAction] and leave the session unchanged. Non-finite
// coordinates are handled per the session's CoordinatePolicy.
//
// The returned instructions are valid until the next call to Add.
func (s *Session) Add(ev RawEvent) (Result, error) {
	if !ev.Action.Valid() {
		return Result{}, fmt.Errorf("%w: %d", ErrInvalidMotionAction, int32(ev.Action))
	}
	clean, sanitized, err := s.cfg.CoordinatePolicy.apply(ev)
	if err != nil {
		Logger().Warn("ink: rejected non-finite coordinate", "x", ev.X, "y", ev.Y, "timestamp", ev.Timestamp)
		return Result{}, err
	}
	if sanitized {
		Logger().Warn("ink: sanitized non-finite coordinate", "x", ev.X, "y", ev.Y, "timestamp", ev.Timestamp)
	}

	s.events = append(s.events, clean)
	res := s.process(clean)

	if s.cfg.Queue != nil {
		s.cfg.Queue.Push(res.Instructions)
	}
	if s.cfg.Sink != nil {
		s.cfg.Sink.Commit(clean)
	}
	s.notify(res.Notification)
	return res, nil
}

// process runs an already accepted event through the fitter and both
// renderers.
func (s *Session) process(ev RawEvent) Result {
	res := Result{Notification: notificationFor(ev.Action)}
	s.edited = true
	seg, ok, err := s.fitter.Process(ev)
	if err != nil || !ok {
		return res
	}
	res.Segment = seg
	res.HasSegment = true
	res.Instructions = s.raster.Draw(seg, s.cfg.PenColor)
	res.Dirty = s.raster.Dirty()
	s.svg.Append(seg)
	return res
}

func (s *Session) notify(n Notification) {
	if s.cfg.Listener != nil && n != NotifyNone {
		s.cfg.Listener(n)
	}
}

// resetWorkingState clears everything derived from events.
func (s *Session) resetWorkingState() {
	s.fitter.Reset()
	s.raster.Reset()
	s.svg.Reset()
	s.edited = false
}

// replay rebuilds the working state from the event log.
func (s *Session) replay() {
	s.resetWorkingState()
	for _, ev := range s.live() {
		s.process(ev)
	}
}

// live returns the events drawn since the last Clear.
func (s *Session) live() []RawEvent {
	return s.events[s.clearedAt:]
}

// Events returns a copy of the whole event log. Under ClearKeepsLog it
// includes events drawn before the last Clear.
func (s *Session) Events() []RawEvent {
	return slices.Clone(s.events)
}

// Signature snapshots the events drawn since the last Clear. Restoring it
// into a session with the same configuration reproduces the current ink.
func (s *Session) Signature() Signature {
	return Signature{VersionCode: s.cfg.VersionCode, Events: slices.Clone(s.live())}
}

// Restore replaces the event log with events and replays them. Every event
// is checked first; on error the session is left unchanged. Restored events
// are not committed to the sink again, since they came from storage.
func (s *Session) Restore(events []RawEvent) error {
	clean := make([]RawEvent, 0, len(events))
	for i, ev := range events {
		if !ev.Action.Valid() {
			return fmt.Errorf("event %d: %w: %d", i, ErrInvalidMotionAction, int32(ev.Action))
		}
		c, _, err := s.cfg.CoordinatePolicy.apply(ev)
		if err != nil {
			return fmt.Errorf("event %d: %w", i, err)
		}
		clean = append(clean, c)
	}

	s.events = clean
	s.clearedAt = 0
	s.replay()
	Logger().Debug("ink: session restored", "events", len(clean))

	if len(clean) > 0 {
		s.notify(notificationFor(clean[len(clean)-1].Action))
	}
	return nil
}

// SetSignature restores the events of sig. The session keeps its own
// version code.
func (s *Session) SetSignature(sig Signature) error {
	return s.Restore(sig.Events)
}

// Clear resets the working state. Whether the event log is purged too is
// decided by the session's ClearPolicy.
func (s *Session) Clear() {
	s.ClearWith(s.cfg.ClearPolicy)
}

// ClearWith is like Clear with an explicit policy. Either way the cleared
// events are never replayed again, and a sink implementing [ClearSink] is
// told to discard what it persisted.
func (s *Session) ClearWith(policy ClearPolicy) {
	s.resetWorkingState()
	if policy == ClearPurgesLog {
		s.events = nil
	}
	s.clearedAt = len(s.events)
	if cs, ok := s.cfg.Sink.(ClearSink); ok {
		cs.CommitClear()
	}
	Logger().Debug("ink: session cleared", "policy", policy.String(), "events", len(s.events))
	s.notify(Cleared)
}

// IsEmpty reports whether nothing has been drawn since creation or the
// last Clear.
func (s *Session) IsEmpty() bool {
	return !s.edited
}

// SVG returns the vector document for the current canvas size.
func (s *Session) SVG() string {
	w, h := s.raster.Size()
	return s.svg.Build(w, h)
}

// Pixmap returns the working raster buffer, or nil while none exists.
// The caller must not modify it.
func (s *Session) Pixmap() *Pixmap {
	return s.raster.Pixmap()
}

// canvas returns the working buffer, or a blank one of the canvas size
// when nothing has been drawn yet.
func (s *Session) canvas() *Pixmap {
	if pm := s.raster.Pixmap(); pm != nil {
		return pm
	}
	w, h := s.raster.Size()
	return NewPixmap(w, h)
}

// TransparentBitmap returns a copy of the ink on a transparent background,
// optionally recolored with pen and trimmed to the inked area.
func (s *Session) TransparentBitmap(trim bool, pen *RGBA) *Pixmap {
	src := s.canvas()
	out := Trim(src, trim, pen)
	if out == src {
		out = src.Clone()
	}
	return out
}

// Bitmap returns the ink composited over background, optionally recolored
// with pen.
func (s *Session) Bitmap(background RGBA, pen *RGBA) *Pixmap {
	return Compose(s.canvas(), background, pen)
}
