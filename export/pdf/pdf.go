// Package pdf registers a "pdf" exporter that redraws a signature as
// vector curves with github.com/jung-kurt/gofpdf.
//
// The page has the canvas size with one PDF point per pixel. Each curve
// segment becomes one cubic Bezier stroked at the mean of its end widths,
// the same width the SVG output uses.
package pdf

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/gogpu/ink"
	"github.com/gogpu/ink/export"
)

func init() {
	export.Register("pdf", func() export.Exporter { return Exporter{} })
}

// Exporter writes a single-page PDF.
type Exporter struct {
	// Created is stamped as the creation date. The zero value uses a fixed
	// epoch so identical signatures produce identical files.
	Created time.Time
}

func rgb255(c ink.RGBA) (r, g, b int) {
	return int(c.R*255 + 0.5), int(c.G*255 + 0.5), int(c.B*255 + 0.5)
}

// Export implements export.Exporter.
func (e Exporter) Export(w io.Writer, src export.Source, opts export.Options) error {
	width, height := src.CanvasSize()
	if width <= 0 || height <= 0 {
		return export.ErrEmptyImage
	}
	segs, err := ink.FitEvents(src.Config(), src.Signature().Events)
	if err != nil {
		return fmt.Errorf("export: pdf: %w", err)
	}

	orientation := "P"
	if width > height {
		orientation = "L"
	}
	doc := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: orientation,
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: float64(width), Ht: float64(height)},
	})
	created := e.Created
	if created.IsZero() {
		created = time.Unix(0, 0).UTC()
	}
	doc.SetCreationDate(created)
	doc.SetCreator("ink "+ink.Version, true)
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)
	doc.AddPage()

	if bg := opts.Background; bg != nil && bg.A > 0 {
		doc.SetAlpha(bg.A, "Normal")
		doc.SetFillColor(rgb255(*bg))
		doc.Rect(0, 0, float64(width), float64(height), "F")
	}

	pen := export.PenColor(src, opts)
	doc.SetAlpha(pen.A, "Normal")
	doc.SetDrawColor(rgb255(pen))
	doc.SetLineCapStyle("round")
	doc.SetLineJoinStyle("round")
	for _, s := range segs {
		doc.SetLineWidth(float64(s.StartWidth+s.EndWidth) / 2)
		doc.CurveBezierCubic(
			float64(s.Start.X), float64(s.Start.Y),
			float64(s.Control1.X), float64(s.Control1.Y),
			float64(s.Control2.X), float64(s.Control2.Y),
			float64(s.End.X), float64(s.End.Y),
			"D",
		)
	}

	if err := doc.Output(w); err != nil {
		return fmt.Errorf("export: pdf: %w", err)
	}
	return nil
}
