package export

import (
	"fmt"
	"io"
)

func init() {
	Register("svg", func() Exporter { return SVG{} })
}

// SVG writes the session's vector document. Paths carry width only, so
// Pen, Background and Trim are ignored.
type SVG struct{}

// Export implements Exporter.
func (SVG) Export(w io.Writer, src Source, _ Options) error {
	if _, err := io.WriteString(w, src.SVG()); err != nil {
		return fmt.Errorf("export: svg: %w", err)
	}
	return nil
}
