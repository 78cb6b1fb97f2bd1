package ink

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func newTestSession(t *testing.T, opts ...SessionOption) *Session {
	t.Helper()
	s, err := NewSession(opts...)
	if err != nil {
		t.Fatalf("NewSession() = %v", err)
	}
	return s
}

func addAll(t *testing.T, s *Session, events []RawEvent) []Result {
	t.Helper()
	results := make([]Result, 0, len(events))
	for _, ev := range events {
		res, err := s.Add(ev)
		if err != nil {
			t.Fatalf("Add(%+v) = %v", ev, err)
		}
		results = append(results, res)
	}
	return results
}

// scribble returns two strokes with varying speed so both width changes and
// discontinuities occur.
func scribble() []RawEvent {
	var events []RawEvent
	ts := int64(0)
	for s := 0; s < 2; s++ {
		for i := 0; i < 30; i++ {
			action := ActionMove
			switch i {
			case 0:
				action = ActionDown
			case 29:
				action = ActionUp
			}
			fi := float64(i)
			events = append(events, RawEvent{
				Timestamp: ts,
				Action:    action,
				X:         float32(20 + 8*fi + 30*float64(s)),
				Y:         float32(60 + 25*math.Sin(fi/4) + 40*float64(s)),
			})
			ts += int64(4 + i%7*3)
		}
		ts += 200
	}
	return events
}

func TestSessionScenario(t *testing.T) {
	s := newTestSession(t, WithMinWidth(3), WithMaxWidth(7), WithVelocityFilterWeight(0.9), WithCanvasSize(100, 50))
	results := addAll(t, s, scenarioEvents)

	segments := 0
	for _, r := range results {
		if r.HasSegment {
			segments++
			for _, ins := range r.Instructions {
				if ins.StrokeWidth < 3 || ins.StrokeWidth > 7 {
					t.Errorf("instruction width %v outside [3, 7]", ins.StrokeWidth)
				}
			}
		}
	}
	if segments < 1 {
		t.Fatal("no segments emitted")
	}

	svg := s.SVG()
	if n := strings.Count(svg, "<path "); n != 1 {
		t.Errorf("SVG has %d paths, want 1:\n%s", n, svg)
	}
	if !strings.Contains(svg, `d="M10,10c`) {
		t.Errorf("SVG path does not start at M10,10:\n%s", svg)
	}
	want := svgHead + `<path stroke-width="4" d="M10,10c5,0 5,0 10,0 5,0 5,0 10,0 "/>` + svgTail
	if svg != want {
		t.Errorf("SVG =\n%s\nwant\n%s", svg, want)
	}
}

func TestSessionReplayDeterminism(t *testing.T) {
	opts := []SessionOption{WithCanvasSize(320, 200), WithPenColor(Hex("#1a237e"))}
	live := newTestSession(t, opts...)
	addAll(t, live, scribble())

	replayed := newTestSession(t, opts...)
	if err := replayed.Restore(live.Signature().Events); err != nil {
		t.Fatalf("Restore() = %v", err)
	}

	if !live.Pixmap().Equal(replayed.Pixmap()) {
		t.Error("replayed raster differs from live raster")
	}
	if live.SVG() != replayed.SVG() {
		t.Errorf("replayed SVG differs:\n%s\n%s", live.SVG(), replayed.SVG())
	}
	if live.IsEmpty() || replayed.IsEmpty() {
		t.Error("IsEmpty() after drawing")
	}
}

func TestSessionReplayThroughText(t *testing.T) {
	live := newTestSession(t, WithCanvasSize(320, 200))
	addAll(t, live, scribble())

	text, err := live.Signature().MarshalText()
	if err != nil {
		t.Fatalf("MarshalText() = %v", err)
	}
	var sig Signature
	if err := sig.UnmarshalText(text); err != nil {
		t.Fatalf("UnmarshalText() = %v", err)
	}

	replayed := newTestSession(t, WithCanvasSize(320, 200))
	if err := replayed.SetSignature(sig); err != nil {
		t.Fatalf("SetSignature() = %v", err)
	}
	if !live.Pixmap().Equal(replayed.Pixmap()) || live.SVG() != replayed.SVG() {
		t.Error("replay from text differs from live session")
	}
}

func TestSessionWidthChangeSplitsPaths(t *testing.T) {
	s := newTestSession(t, WithCanvasSize(400, 100))
	// A slow start followed by a fast tail drops the width to the minimum.
	events := []RawEvent{
		{Timestamp: 0, Action: ActionDown, X: 10, Y: 50},
		{Timestamp: 100, Action: ActionMove, X: 11, Y: 50},
		{Timestamp: 200, Action: ActionMove, X: 12, Y: 50},
		{Timestamp: 300, Action: ActionMove, X: 13, Y: 50},
		{Timestamp: 301, Action: ActionMove, X: 113, Y: 50},
		{Timestamp: 302, Action: ActionMove, X: 213, Y: 50},
		{Timestamp: 303, Action: ActionUp, X: 313, Y: 50},
	}
	addAll(t, s, events)

	svg := s.SVG()
	paths := strings.Split(svg, "<path ")[1:]
	if len(paths) < 2 {
		t.Fatalf("SVG has %d paths, want at least 2:\n%s", len(paths), svg)
	}
	if !strings.Contains(paths[0], `stroke-width="6"`) {
		t.Errorf("first path = %s, want width 6", paths[0])
	}
	if !strings.Contains(paths[len(paths)-1], `stroke-width="3"`) {
		t.Errorf("last path = %s, want width 3", paths[len(paths)-1])
	}
	// Each new path starts where the previous one ended.
	if !strings.Contains(svg, `d="M13,50c`) {
		t.Errorf("no path continues from (13,50):\n%s", svg)
	}
}

func TestSessionConstantWidthSinglePath(t *testing.T) {
	s := newTestSession(t, WithMinWidth(5), WithMaxWidth(5), WithCanvasSize(300, 300))
	addAll(t, s, stroke(12, 9, 3))
	if n := strings.Count(s.SVG(), "<path "); n != 1 {
		t.Errorf("constant width stroke has %d paths, want 1", n)
	}
}

func TestSessionNotifications(t *testing.T) {
	var got []Notification
	s := newTestSession(t, WithListener(func(n Notification) { got = append(got, n) }))
	addAll(t, s, scenarioEvents)
	s.Clear()

	want := []Notification{StrokeStarted, StrokeContinued, StrokeContinued, StrokeEnded, Cleared}
	if len(got) != len(want) {
		t.Fatalf("notifications = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("notification %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSessionInvalidAction(t *testing.T) {
	var committed []RawEvent
	s := newTestSession(t, WithCommitSink(CommitFunc(func(ev RawEvent) { committed = append(committed, ev) })))
	addAll(t, s, scenarioEvents[:2])

	_, err := s.Add(RawEvent{Timestamp: 11, Action: Action(42), X: 1, Y: 1})
	if !errors.Is(err, ErrInvalidMotionAction) {
		t.Fatalf("Add(action 42) = %v, want ErrInvalidMotionAction", err)
	}
	if len(s.Events()) != 2 {
		t.Errorf("event log = %d events, want 2", len(s.Events()))
	}
	if len(committed) != 2 {
		t.Errorf("committed = %d events, want 2", len(committed))
	}
}

func TestSessionCoordinatePolicy(t *testing.T) {
	nan := float32(math.NaN())

	s := newTestSession(t)
	if _, err := s.Add(RawEvent{Action: ActionDown, X: nan, Y: 3}); err != nil {
		t.Fatalf("Add(NaN) sanitize = %v", err)
	}
	if got := s.Events()[0]; got.X != 0 || got.Y != 3 {
		t.Errorf("sanitized event = %+v, want X=0", got)
	}

	r := newTestSession(t, WithCoordinatePolicy(CoordinateReject))
	if _, err := r.Add(RawEvent{Action: ActionDown, X: nan, Y: 3}); !errors.Is(err, ErrInvalidCoordinate) {
		t.Errorf("Add(NaN) reject = %v, want ErrInvalidCoordinate", err)
	}
	if len(r.Events()) != 0 {
		t.Error("rejected event was recorded")
	}
}

func TestSessionClearPolicy(t *testing.T) {
	tests := []struct {
		policy     ClearPolicy
		wantEvents int
	}{
		{ClearPurgesLog, 0},
		{ClearKeepsLog, len(scenarioEvents)},
	}

	for _, tt := range tests {
		t.Run(tt.policy.String(), func(t *testing.T) {
			s := newTestSession(t, WithClearPolicy(tt.policy), WithCanvasSize(100, 50))
			addAll(t, s, scenarioEvents)
			s.Clear()

			if got := len(s.Events()); got != tt.wantEvents {
				t.Errorf("events after Clear = %d, want %d", got, tt.wantEvents)
			}
			if got := s.Signature().Len(); got != 0 {
				t.Errorf("Signature() after Clear has %d events, want 0", got)
			}
			if !s.IsEmpty() {
				t.Error("IsEmpty() = false after Clear")
			}
			if strings.Contains(s.SVG(), "<path") {
				t.Error("SVG still has paths after Clear")
			}
			if _, ok := TrimRect(s.TransparentBitmap(false, nil)); ok {
				t.Error("raster still inked after Clear")
			}
		})
	}
}

func TestSessionClearedInkStaysCleared(t *testing.T) {
	s := newTestSession(t, WithClearPolicy(ClearKeepsLog), WithCanvasSize(100, 50))
	addAll(t, s, scenarioEvents)
	s.Clear()

	s.Resize(120, 60)
	if strings.Contains(s.SVG(), "<path") {
		t.Error("Resize replayed cleared strokes into the SVG")
	}
	if _, ok := TrimRect(s.TransparentBitmap(false, nil)); ok {
		t.Error("Resize replayed cleared strokes into the raster")
	}
	if !s.IsEmpty() {
		t.Error("IsEmpty() = false after Clear and Resize")
	}

	second := stroke(6, 8, 10)
	addAll(t, s, second)
	s.Resize(140, 70)

	sig := s.Signature()
	if sig.Len() != len(second) {
		t.Fatalf("Signature() = %d events, want %d", sig.Len(), len(second))
	}
	if got := len(s.Events()); got != len(scenarioEvents)+len(second) {
		t.Errorf("Events() = %d, want the whole log", got)
	}

	restored := newTestSession(t, WithCanvasSize(140, 70))
	if err := restored.SetSignature(sig); err != nil {
		t.Fatalf("SetSignature() = %v", err)
	}
	if restored.SVG() != s.SVG() {
		t.Errorf("restored SVG = %q, want %q", restored.SVG(), s.SVG())
	}
	if !restored.Pixmap().Equal(s.Pixmap()) {
		t.Error("restored raster differs from the live one")
	}
}

type clearRecorder struct {
	log []string
}

func (r *clearRecorder) Commit(RawEvent) { r.log = append(r.log, "commit") }
func (r *clearRecorder) CommitClear()    { r.log = append(r.log, "clear") }

func TestSessionClearReachesSink(t *testing.T) {
	for _, policy := range []ClearPolicy{ClearPurgesLog, ClearKeepsLog} {
		t.Run(policy.String(), func(t *testing.T) {
			rec := &clearRecorder{}
			s := newTestSession(t, WithClearPolicy(policy), WithCommitSink(rec))
			addAll(t, s, scenarioEvents[:2])
			s.Clear()
			addAll(t, s, scenarioEvents[:1])

			want := []string{"commit", "commit", "clear", "commit"}
			if strings.Join(rec.log, ",") != strings.Join(want, ",") {
				t.Errorf("sink saw %v, want %v", rec.log, want)
			}
		})
	}
}

func TestSessionRestoreRejectsInvalid(t *testing.T) {
	s := newTestSession(t, WithCanvasSize(100, 50))
	addAll(t, s, scenarioEvents)
	before := s.SVG()

	bad := append([]RawEvent{}, scenarioEvents...)
	bad[1].Action = Action(-1)
	if err := s.Restore(bad); !errors.Is(err, ErrInvalidMotionAction) {
		t.Fatalf("Restore() = %v, want ErrInvalidMotionAction", err)
	}
	if s.SVG() != before || len(s.Events()) != len(scenarioEvents) {
		t.Error("failed Restore modified the session")
	}
}

func TestSessionRestoreDoesNotCommit(t *testing.T) {
	n := 0
	s := newTestSession(t, WithCommitSink(CommitFunc(func(RawEvent) { n++ })))
	if err := s.Restore(scenarioEvents); err != nil {
		t.Fatalf("Restore() = %v", err)
	}
	if n != 0 {
		t.Errorf("Restore committed %d events", n)
	}
	addAll(t, s, stroke(3, 1, 1))
	if n != 3 {
		t.Errorf("committed = %d, want 3", n)
	}
}

func TestSessionLazyBuffer(t *testing.T) {
	s := newTestSession(t)
	results := addAll(t, s, scenarioEvents)
	if s.Pixmap() != nil {
		t.Fatal("buffer allocated without a canvas size")
	}
	if !results[2].HasSegment || len(results[2].Instructions) == 0 {
		t.Error("no instructions without a buffer")
	}

	s.Resize(100, 50)
	pm := s.Pixmap()
	if pm == nil {
		t.Fatal("Resize did not allocate a buffer")
	}
	if _, ok := TrimRect(pm); !ok {
		t.Error("Resize did not replay recorded events")
	}
}

func TestSessionDirtyRect(t *testing.T) {
	s := newTestSession(t, WithCanvasSize(100, 50))
	results := addAll(t, s, scenarioEvents)
	r := results[2]
	if r.Dirty.Empty() {
		t.Fatal("Dirty is empty for a drawn segment")
	}
	if r.Dirty.Min.X > 10 || r.Dirty.Max.X < 20 {
		t.Errorf("Dirty = %v, want to cover x in [10, 20]", r.Dirty)
	}
	if !results[0].Dirty.Empty() {
		t.Errorf("Down event Dirty = %v, want empty", results[0].Dirty)
	}
}

func TestSessionBitmaps(t *testing.T) {
	s := newTestSession(t, WithCanvasSize(100, 50))
	if b := s.TransparentBitmap(true, nil); b.Width() != 100 || b.Height() != 50 {
		t.Errorf("blank trimmed bitmap = %v, want full canvas", b.Bounds())
	}

	addAll(t, s, scenarioEvents)
	trimmed := s.TransparentBitmap(true, nil)
	if trimmed.Width() >= 100 || trimmed.Height() >= 50 || trimmed.Empty() {
		t.Errorf("trimmed bitmap = %v", trimmed.Bounds())
	}

	full := s.TransparentBitmap(false, nil)
	full.Clear(Red)
	if s.Pixmap().GetPixel(0, 0) == Red {
		t.Error("TransparentBitmap aliases the working buffer")
	}

	composed := s.Bitmap(White, nil)
	if composed.GetPixel(0, 0) != White {
		t.Errorf("background = %+v, want white", composed.GetPixel(0, 0))
	}
	if composed.GetPixel(15, 10) != Black {
		t.Errorf("ink = %+v, want black", composed.GetPixel(15, 10))
	}
}

func TestSessionDrawQueue(t *testing.T) {
	q := NewDrawQueue()
	s := newTestSession(t, WithDrawQueue(q))
	results := addAll(t, s, scenarioEvents)

	want := 0
	for _, r := range results {
		want += len(r.Instructions)
	}
	got := q.Drain()
	if len(got) != want {
		t.Errorf("queued %d instructions, want %d", len(got), want)
	}
	if q.Len() != 0 {
		t.Errorf("Len() after Drain = %d", q.Len())
	}
}

func TestSessionConfigure(t *testing.T) {
	s := newTestSession(t)
	cfg := s.Config()
	cfg.MinWidth = 10
	cfg.MaxWidth = 2
	if err := s.Configure(cfg); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Configure(min > max) = %v, want ErrInvalidConfig", err)
	}

	cfg.MaxWidth = 12
	cfg.Width, cfg.Height = 64, 32
	if err := s.Configure(cfg); err != nil {
		t.Fatalf("Configure() = %v", err)
	}
	if w, h := s.CanvasSize(); w != 64 || h != 32 {
		t.Errorf("CanvasSize() = %dx%d, want 64x32", w, h)
	}
	results := addAll(t, s, scenarioEvents)
	if sw := results[2].Segment.StartWidth; sw != 11 {
		t.Errorf("StartWidth after Configure = %v, want 11", sw)
	}
}

func TestNewSessionInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		opt  SessionOption
	}{
		{"zero min", WithMinWidth(0)},
		{"max below min", WithMaxWidth(1)},
		{"weight", WithVelocityFilterWeight(1.5)},
		{"negative canvas", WithCanvasSize(-1, 10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewSession(tt.opt); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("NewSession() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func BenchmarkSessionAdd(b *testing.B) {
	events := scribble()
	s, err := NewSession(WithCanvasSize(320, 200))
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		for _, ev := range events {
			_, _ = s.Add(ev)
		}
		s.Clear()
	}
}
