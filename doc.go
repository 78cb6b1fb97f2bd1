// Package ink turns a pointer's motion trace into a smooth, variable-width
// ink stroke.
//
// # Overview
//
// ink consumes an ordered stream of raw pointer events (down, move, up) and
// produces three outputs from them:
//
//   - a raster image (RGBA8888 [Pixmap]) stamped dot by dot along each curve
//   - a compact SVG document whose paths are coalesced by stroke width
//   - a serialized event log that replays into byte-identical raster and SVG
//
// It is a pure-Go core: it never touches a display surface, a database
// driver, or a UI toolkit. Platform layers feed it already-timestamped,
// pixel-space events and pull the outputs on demand.
//
// # Quick Start
//
//	s, err := ink.NewSession(ink.WithCanvasSize(400, 200))
//	if err != nil {
//		return err
//	}
//
//	for _, ev := range events {
//		if _, err := s.Add(ev); err != nil {
//			return err // unknown action, fatal
//		}
//	}
//
//	svg := s.SVG()
//	img := s.Bitmap(ink.White, nil)
//	trimmed := s.TransparentBitmap(true, nil)
//
// # Pipeline
//
// Each event flows through the same components:
//
//   - [Fitter]: keeps a four-point sliding window and derives Catmull-Rom
//     style control points; every full window yields one [CurveSegment]
//     whose width follows the smoothed pointer velocity
//   - [Rasterizer]: samples the segment roughly once per pixel of arc length
//     and stamps round dots into the owned buffer
//   - [SVGBuilder]: appends the segment as a relative cubic command, opening
//     a new path whenever the rounded width or continuity changes
//
// [Compose], [Recolor] and [Trim] post-process the raster buffer.
//
// # Replay
//
// A [Session] records every raw event. [Session.Signature] snapshots the
// log, [MarshalEvents] and [UnmarshalEvents] convert it to and from the
// `timestamp,action,x,y` text form, and [Session.Restore] rebuilds the
// raster and SVG outputs exactly, given the same configuration.
//
// # Persistence
//
// The core exposes committed events through the [CommitSink] port. The
// persist sub-package implements an asynchronous sidecar that writes them to
// a store driver (see the store sub-packages) without ever blocking or
// failing the drawing session.
//
// # Coordinate System
//
// Uses standard computer graphics coordinates:
//   - Origin (0,0) at top-left
//   - X increases right
//   - Y increases down
//   - Timestamps in milliseconds
package ink

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionCode is stamped into every Signature snapshot.
	VersionCode = 1
)
