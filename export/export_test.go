package export_test

import (
	"bytes"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/ink"
	"github.com/gogpu/ink/export"
)

var line = []ink.RawEvent{
	{Timestamp: 0, Action: ink.ActionDown, X: 10, Y: 10},
	{Timestamp: 10, Action: ink.ActionMove, X: 20, Y: 10},
	{Timestamp: 20, Action: ink.ActionMove, X: 30, Y: 10},
	{Timestamp: 30, Action: ink.ActionUp, X: 40, Y: 10},
}

func signed(t *testing.T, w, h int) *ink.Session {
	t.Helper()
	s, err := ink.NewSession(ink.WithCanvasSize(w, h))
	require.NoError(t, err)
	for _, ev := range line {
		_, err := s.Add(ev)
		require.NoError(t, err)
	}
	return s
}

type nopExporter struct{}

func (nopExporter) Export(io.Writer, export.Source, export.Options) error { return nil }

func TestRegistry(t *testing.T) {
	formats := export.Formats()
	assert.Contains(t, formats, "png")
	assert.Contains(t, formats, "svg")

	_, err := export.New("tiff")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "forgotten import?")

	export.Register("nop", func() export.Exporter { return nopExporter{} })
	defer export.Unregister("nop")
	assert.NotNil(t, export.MustNew("nop"))

	assert.Panics(t, func() {
		export.Register("nop", func() export.Exporter { return nopExporter{} })
	})
	assert.Panics(t, func() { export.Register("nil", nil) })
	assert.Panics(t, func() { export.MustNew("tiff") })
}

func TestPNG(t *testing.T) {
	s := signed(t, 100, 50)

	var buf bytes.Buffer
	require.NoError(t, export.MustNew("png").Export(&buf, s, export.Options{}))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 50, img.Bounds().Dy())

	_, _, _, a := img.At(25, 10).RGBA()
	assert.NotZero(t, a, "stroke pixel is transparent")
	_, _, _, a = img.At(90, 45).RGBA()
	assert.Zero(t, a, "background pixel is inked")
}

func TestPNGTrimmed(t *testing.T) {
	s := signed(t, 100, 50)

	var buf bytes.Buffer
	require.NoError(t, export.MustNew("png").Export(&buf, s, export.Options{Trim: true}))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Less(t, img.Bounds().Dx(), 100)
	assert.Less(t, img.Bounds().Dy(), 50)
}

func TestPNGBackground(t *testing.T) {
	s := signed(t, 100, 50)

	var buf bytes.Buffer
	bg := ink.White
	require.NoError(t, export.MustNew("png").Export(&buf, s, export.Options{Background: &bg, Trim: true}))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx(), "trim applies to transparent output only")

	r, g, b, a := img.At(90, 45).RGBA()
	assert.Equal(t, [4]uint32{0xffff, 0xffff, 0xffff, 0xffff}, [4]uint32{r, g, b, a})
}

func TestPNGEmptyCanvas(t *testing.T) {
	s, err := ink.NewSession()
	require.NoError(t, err)

	err = export.MustNew("png").Export(io.Discard, s, export.Options{})
	assert.ErrorIs(t, err, export.ErrEmptyImage)
}

func TestSVG(t *testing.T) {
	s := signed(t, 100, 50)

	var buf bytes.Buffer
	require.NoError(t, export.MustNew("svg").Export(&buf, s, export.Options{}))
	assert.Equal(t, s.SVG(), buf.String())
	assert.True(t, strings.HasPrefix(buf.String(), "<svg"))
}

func TestPenColor(t *testing.T) {
	s := signed(t, 10, 10)
	assert.Equal(t, ink.Black, export.PenColor(s, export.Options{}))

	red := ink.Red
	assert.Equal(t, ink.Red, export.PenColor(s, export.Options{Pen: &red}))
}
