package ink

import (
	"errors"
	"fmt"
	"math"
)

// Common errors for event processing.
var (
	// ErrInvalidMotionAction is returned when an event's action is not one of
	// ActionDown, ActionMove or ActionUp. It is a programmer error and is
	// never retried.
	ErrInvalidMotionAction = errors.New("ink: invalid motion action")

	// ErrInvalidCoordinate is returned by ValidateEvent (and by a session
	// using CoordinateReject) for NaN or infinite coordinates.
	ErrInvalidCoordinate = errors.New("ink: invalid coordinate")
)

// Action identifies the phase of a pointer event. The numbering matches the
// platform motion-event tags used by the serialized event log.
type Action int32

const (
	ActionDown Action = 0
	ActionUp   Action = 1
	ActionMove Action = 2
)

// String returns the string representation of an Action.
func (a Action) String() string {
	switch a {
	case ActionDown:
		return "Down"
	case ActionUp:
		return "Up"
	case ActionMove:
		return "Move"
	default:
		return fmt.Sprintf("Action(%d)", int32(a))
	}
}

// Valid reports whether a is one of the three known actions.
func (a Action) Valid() bool {
	return a == ActionDown || a == ActionUp || a == ActionMove
}

// RawEvent is one timestamped pointer sample in pixel space.
// Timestamp is in milliseconds; only differences between timestamps matter.
type RawEvent struct {
	Timestamp int64
	Action    Action
	X, Y      float32
}

// ValidateEvent rejects unknown actions and non-finite coordinates.
func ValidateEvent(ev RawEvent) error {
	if !ev.Action.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidMotionAction, int32(ev.Action))
	}
	if !finite(ev.X) || !finite(ev.Y) {
		return fmt.Errorf("%w: (%v, %v)", ErrInvalidCoordinate, ev.X, ev.Y)
	}
	return nil
}

// SanitizeEvent replaces non-finite coordinates with 0 and reports whether
// anything was changed.
func SanitizeEvent(ev RawEvent) (RawEvent, bool) {
	changed := false
	if !finite(ev.X) {
		ev.X = 0
		changed = true
	}
	if !finite(ev.Y) {
		ev.Y = 0
		changed = true
	}
	return ev, changed
}

func finite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
