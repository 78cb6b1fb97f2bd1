// Package export writes a signature to image and document formats.
//
// Exporters register themselves by name. The png and svg exporters are
// built in; others live in sub-packages that register on import:
//
//	import _ "github.com/gogpu/ink/export/pdf"
//
//	e, err := export.New("pdf")
//	if err != nil {
//		return err
//	}
//	err = e.Export(w, session, export.Options{})
package export

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/gogpu/ink"
)

// ErrEmptyImage is returned when there is nothing to encode, such as a
// trimmed single-column signature or a canvas without a size.
var ErrEmptyImage = errors.New("export: empty image")

// Source is what exporters read from. *ink.Session implements it.
type Source interface {
	Signature() ink.Signature
	Config() ink.Config
	CanvasSize() (width, height int)
	SVG() string
	Bitmap(background ink.RGBA, pen *ink.RGBA) *ink.Pixmap
	TransparentBitmap(trim bool, pen *ink.RGBA) *ink.Pixmap
}

// Options control how a signature is exported. Formats ignore options
// they cannot express.
type Options struct {
	// Background fills the canvas; nil keeps it transparent.
	Background *ink.RGBA

	// Trim crops raster output to the inked area. It only applies to a
	// transparent background.
	Trim bool

	// Pen overrides the session's ink color.
	Pen *ink.RGBA
}

// Exporter writes a signature in one format.
type Exporter interface {
	Export(w io.Writer, src Source, opts Options) error
}

// Factory creates an Exporter. Factories are registered via Register()
// and called by New().
type Factory func() Exporter

var (
	registryMu sync.RWMutex
	exporters  = make(map[string]Factory)
)

// Register makes an exporter available under name, usually from init().
//
// Register panics if factory is nil or name is already registered.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if factory == nil {
		panic("export: Register factory is nil")
	}
	if _, dup := exporters[name]; dup {
		panic("export: Register called twice for " + name)
	}
	exporters[name] = factory
}

// Unregister removes an exporter. It is intended for tests.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(exporters, name)
}

// New creates the exporter registered under name.
func New(name string) (Exporter, error) {
	registryMu.RLock()
	factory, ok := exporters[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("export: unknown format %q (forgotten import?)", name)
	}
	return factory(), nil
}

// MustNew is like New but panics on error.
func MustNew(name string) Exporter {
	e, err := New(name)
	if err != nil {
		panic(err)
	}
	return e
}

// Formats returns a sorted list of registered format names.
func Formats() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(exporters))
	for name := range exporters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PenColor returns the ink color to use for src under opts.
func PenColor(src Source, opts Options) ink.RGBA {
	if opts.Pen != nil {
		return *opts.Pen
	}
	return src.Config().PenColor
}
