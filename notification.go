package ink

import "fmt"

// Notification tells a listener what a processed event did to the stroke.
type Notification int

const (
	// NotifyNone is the zero value. No accepted event produces it and
	// listeners are never called with it.
	NotifyNone Notification = iota
	StrokeStarted
	StrokeContinued
	StrokeEnded
	Cleared
)

// String returns the string representation of a Notification.
func (n Notification) String() string {
	switch n {
	case NotifyNone:
		return "None"
	case StrokeStarted:
		return "StrokeStarted"
	case StrokeContinued:
		return "StrokeContinued"
	case StrokeEnded:
		return "StrokeEnded"
	case Cleared:
		return "Cleared"
	default:
		return fmt.Sprintf("Notification(%d)", int(n))
	}
}

// notificationFor maps an action to the notification it produces.
func notificationFor(a Action) Notification {
	switch a {
	case ActionDown:
		return StrokeStarted
	case ActionMove:
		return StrokeContinued
	case ActionUp:
		return StrokeEnded
	default:
		return NotifyNone
	}
}

// Listener receives notifications synchronously, after the event that
// caused them has been fully processed.
type Listener func(Notification)

// CommitSink receives every event a session accepted, in order.
// Commit must not block; implementations that do I/O should buffer.
type CommitSink interface {
	Commit(ev RawEvent)
}

// ClearSink is a CommitSink that is also told when the session is cleared,
// so it can discard the events it persisted for the cleared ink. Events
// committed after CommitClear belong to the new drawing.
type ClearSink interface {
	CommitSink
	CommitClear()
}

// CommitFunc adapts a function to a CommitSink.
type CommitFunc func(ev RawEvent)

// Commit calls f(ev).
func (f CommitFunc) Commit(ev RawEvent) { f(ev) }
