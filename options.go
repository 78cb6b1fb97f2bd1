package ink

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned when a Config cannot drive a session.
var ErrInvalidConfig = errors.New("ink: invalid config")

// ClearPolicy decides what [Session.Clear] does with the event log.
type ClearPolicy int

const (
	// ClearPurgesLog drops the event log together with the working state.
	ClearPurgesLog ClearPolicy = iota

	// ClearKeepsLog resets the working state but keeps every recorded
	// event, so a later Signature still returns the full history.
	ClearKeepsLog
)

// String returns the string representation of a ClearPolicy.
func (p ClearPolicy) String() string {
	switch p {
	case ClearPurgesLog:
		return "PurgesLog"
	case ClearKeepsLog:
		return "KeepsLog"
	default:
		return fmt.Sprintf("ClearPolicy(%d)", int(p))
	}
}

// CoordinatePolicy decides how a session treats non-finite coordinates.
type CoordinatePolicy int

const (
	// CoordinateSanitize replaces NaN and infinite coordinates with 0.
	CoordinateSanitize CoordinatePolicy = iota

	// CoordinateReject refuses the event with [ErrInvalidCoordinate].
	CoordinateReject
)

// String returns the string representation of a CoordinatePolicy.
func (p CoordinatePolicy) String() string {
	switch p {
	case CoordinateSanitize:
		return "Sanitize"
	case CoordinateReject:
		return "Reject"
	default:
		return fmt.Sprintf("CoordinatePolicy(%d)", int(p))
	}
}

// apply returns the event to feed into the fitter and whether it was
// sanitized.
func (p CoordinatePolicy) apply(ev RawEvent) (RawEvent, bool, error) {
	if p == CoordinateReject {
		if err := ValidateEvent(ev); err != nil {
			return ev, false, err
		}
		return ev, false, nil
	}
	ev, changed := SanitizeEvent(ev)
	return ev, changed, nil
}

// Config holds everything a session needs to render ink.
type Config struct {
	// MinWidth and MaxWidth bound the stroke width in pixels.
	MinWidth int
	MaxWidth int

	// PenColor is used for every stamped dot.
	PenColor RGBA

	// VelocityFilterWeight blends the current velocity with the previous
	// smoothed one. 1 means no smoothing.
	VelocityFilterWeight float32

	ClearPolicy      ClearPolicy
	CoordinatePolicy CoordinatePolicy

	// Width and Height are the canvas size. Zero means unknown; the raster
	// buffer is then allocated on the first Resize.
	Width  int
	Height int

	// VersionCode is stamped into every Signature snapshot.
	VersionCode int

	Listener Listener
	Sink     CommitSink
	Queue    *DrawQueue
}

// DefaultConfig returns the configuration used when no options are given:
// widths 3 to 7 px, black ink and a filter weight of 0.9.
func DefaultConfig() Config {
	return Config{
		MinWidth:             3,
		MaxWidth:             7,
		PenColor:             Black,
		VelocityFilterWeight: 0.9,
		ClearPolicy:          ClearPurgesLog,
		CoordinatePolicy:     CoordinateSanitize,
		VersionCode:          VersionCode,
	}
}

// Validate reports whether c describes a usable configuration.
func (c Config) Validate() error {
	switch {
	case c.MinWidth <= 0:
		return fmt.Errorf("%w: min width %d must be positive", ErrInvalidConfig, c.MinWidth)
	case c.MaxWidth < c.MinWidth:
		return fmt.Errorf("%w: max width %d below min width %d", ErrInvalidConfig, c.MaxWidth, c.MinWidth)
	case c.VelocityFilterWeight < 0 || c.VelocityFilterWeight > 1 || !finite(c.VelocityFilterWeight):
		return fmt.Errorf("%w: velocity filter weight %v outside [0, 1]", ErrInvalidConfig, c.VelocityFilterWeight)
	case c.Width < 0 || c.Height < 0:
		return fmt.Errorf("%w: canvas size %dx%d", ErrInvalidConfig, c.Width, c.Height)
	}
	return nil
}

// SessionOption configures a Session during creation.
// Use functional options to customize Session behavior.
//
// Example:
//
//	s, err := ink.NewSession(
//		ink.WithCanvasSize(600, 200),
//		ink.WithPenColor(ink.Hex("#1a237e")),
//	)
type SessionOption func(*Config)

// WithMinWidth sets the minimum stroke width in pixels.
func WithMinWidth(px int) SessionOption {
	return func(c *Config) {
		c.MinWidth = px
	}
}

// WithMaxWidth sets the maximum stroke width in pixels.
func WithMaxWidth(px int) SessionOption {
	return func(c *Config) {
		c.MaxWidth = px
	}
}

// WithPenColor sets the ink color.
func WithPenColor(col RGBA) SessionOption {
	return func(c *Config) {
		c.PenColor = col
	}
}

// WithVelocityFilterWeight sets the velocity smoothing weight in [0, 1].
func WithVelocityFilterWeight(w float32) SessionOption {
	return func(c *Config) {
		c.VelocityFilterWeight = w
	}
}

// WithClearPolicy sets what Clear does with the event log.
func WithClearPolicy(p ClearPolicy) SessionOption {
	return func(c *Config) {
		c.ClearPolicy = p
	}
}

// WithCoordinatePolicy sets how non-finite coordinates are handled.
func WithCoordinatePolicy(p CoordinatePolicy) SessionOption {
	return func(c *Config) {
		c.CoordinatePolicy = p
	}
}

// WithCanvasSize sets the canvas size so the raster buffer can be
// allocated on the first drawn segment.
func WithCanvasSize(width, height int) SessionOption {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithListener registers a callback for stroke notifications.
func WithListener(l Listener) SessionOption {
	return func(c *Config) {
		c.Listener = l
	}
}

// WithCommitSink registers a port that receives every accepted event after
// it has been rendered. See the persist package for an asynchronous sink.
func WithCommitSink(s CommitSink) SessionOption {
	return func(c *Config) {
		c.Sink = s
	}
}

// WithVersionCode sets the version code stamped into snapshots.
func WithVersionCode(v int) SessionOption {
	return func(c *Config) {
		c.VersionCode = v
	}
}

// WithDrawQueue hands every event's draw instructions to q for a separate
// rendering goroutine.
func WithDrawQueue(q *DrawQueue) SessionOption {
	return func(c *Config) {
		c.Queue = q
	}
}

// WithConfig replaces the whole configuration. Options after it still apply.
func WithConfig(cfg Config) SessionOption {
	return func(c *Config) {
		*c = cfg
	}
}
