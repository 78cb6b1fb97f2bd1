package ink

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedEventLog is returned when a serialized event log cannot be
// parsed.
var ErrMalformedEventLog = errors.New("ink: malformed event log")

// Signature is a snapshot of a session: every accepted event in order,
// tagged with the version code of the writer.
type Signature struct {
	VersionCode int
	Events      []RawEvent
}

// Len returns the number of recorded events.
func (s Signature) Len() int {
	return len(s.Events)
}

// MarshalText implements encoding.TextMarshaler using the event log form.
func (s Signature) MarshalText() ([]byte, error) {
	return []byte(MarshalEvents(s.Events)), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. The version code is
// left unchanged.
func (s *Signature) UnmarshalText(text []byte) error {
	events, err := UnmarshalEvents(string(text))
	if err != nil {
		return err
	}
	s.Events = events
	return nil
}

// appendEvent writes one "timestamp,action,x,y" line without a newline.
// Coordinates use the shortest float32 form so they parse back exactly.
func appendEvent(b []byte, ev RawEvent) []byte {
	b = strconv.AppendInt(b, ev.Timestamp, 10)
	b = append(b, ',')
	b = strconv.AppendInt(b, int64(ev.Action), 10)
	b = append(b, ',')
	b = strconv.AppendFloat(b, float64(ev.X), 'g', -1, 32)
	b = append(b, ',')
	return strconv.AppendFloat(b, float64(ev.Y), 'g', -1, 32)
}

// MarshalEvents serializes events as one "timestamp,action,x,y" line per
// event, joined by '\n' with no trailing newline. The action is written as
// its integer tag.
func MarshalEvents(events []RawEvent) string {
	var b []byte
	for i, ev := range events {
		if i > 0 {
			b = append(b, '\n')
		}
		b = appendEvent(b, ev)
	}
	return string(b)
}

// UnmarshalEvents parses the output of [MarshalEvents]. An empty string is
// an empty log. Errors wrap [ErrMalformedEventLog] and name the 1-based
// line.
func UnmarshalEvents(s string) ([]RawEvent, error) {
	if s == "" {
		return nil, nil
	}
	lines := strings.Split(s, "\n")
	events := make([]RawEvent, 0, len(lines))
	for i, line := range lines {
		ev, err := parseEvent(strings.TrimSuffix(line, "\r"))
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedEventLog, i+1, err)
		}
		events = append(events, ev)
	}
	return events, nil
}

func parseEvent(line string) (RawEvent, error) {
	fields := strings.Split(line, ",")
	if len(fields) != 4 {
		return RawEvent{}, fmt.Errorf("want 4 fields, got %d", len(fields))
	}
	ts, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return RawEvent{}, fmt.Errorf("timestamp: %w", err)
	}
	action, err := strconv.ParseInt(fields[1], 10, 32)
	if err != nil {
		return RawEvent{}, fmt.Errorf("action: %w", err)
	}
	x, err := strconv.ParseFloat(fields[2], 32)
	if err != nil {
		return RawEvent{}, fmt.Errorf("x: %w", err)
	}
	y, err := strconv.ParseFloat(fields[3], 32)
	if err != nil {
		return RawEvent{}, fmt.Errorf("y: %w", err)
	}
	return RawEvent{Timestamp: ts, Action: Action(action), X: float32(x), Y: float32(y)}, nil
}
