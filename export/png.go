package export

import (
	"fmt"
	"image/png"
	"io"

	"github.com/gogpu/ink"
)

func init() {
	Register("png", func() Exporter { return PNG{} })
}

// PNG encodes the raster buffer.
type PNG struct {
	// Level is the zlib compression level.
	Level png.CompressionLevel
}

// Raster returns the image PNG would encode for src under opts.
func Raster(src Source, opts Options) *ink.Pixmap {
	if opts.Background != nil {
		return src.Bitmap(*opts.Background, opts.Pen)
	}
	return src.TransparentBitmap(opts.Trim, opts.Pen)
}

// Export implements Exporter.
func (e PNG) Export(w io.Writer, src Source, opts Options) error {
	pm := Raster(src, opts)
	if pm.Empty() {
		return ErrEmptyImage
	}
	enc := png.Encoder{CompressionLevel: e.Level}
	if err := enc.Encode(w, pm.RGBA()); err != nil {
		return fmt.Errorf("export: png: %w", err)
	}
	return nil
}
