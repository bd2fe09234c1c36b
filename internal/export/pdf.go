package export

import (
	"bytes"
	"context"
	"fmt"
	"image/color"
	"time"

	"emojiforge/internal/state"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"
)

// PDFExporter writes a document as a single square PDF page whose side is
// the requested pixel size in points.
type PDFExporter struct {
	log *zap.Logger
	now func() time.Time
}

func NewPDFExporter(log *zap.Logger) *PDFExporter {
	if log == nil {
		log = zap.NewNop()
	}
	return &PDFExporter{log: log, now: time.Now}
}

// Render returns the PDF bytes for doc at size×size.
func (e *PDFExporter) Render(ctx context.Context, doc state.Document, size int) ([]byte, error) {
	pdf, err := e.build(ctx, doc, size)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	e.log.Debug("rendered pdf", zap.String("id", doc.ID), zap.Int("size", size), zap.Int("bytes", buf.Len()))
	return buf.Bytes(), nil
}

// WriteFile renders doc and stores it at path.
func (e *PDFExporter) WriteFile(ctx context.Context, path string, doc state.Document, size int) error {
	pdf, err := e.build(ctx, doc, size)
	if err != nil {
		return err
	}
	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	e.log.Info("exported pdf", zap.String("id", doc.ID), zap.String("path", path), zap.Int("size", size))
	return nil
}

func (e *PDFExporter) build(ctx context.Context, doc state.Document, size int) (*gofpdf.Fpdf, error) {
	sc, err := project(doc, size)
	if err != nil {
		return nil, err
	}
	side := float64(size)
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: side, Ht: side},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(doc.Name, true)
	pdf.SetCreator("emojiforge", false)
	pdf.SetCreationDate(e.now())
	pdf.AddPage()
	pdf.SetLineCapStyle("round")
	pdf.SetLineJoinStyle("round")

	if sc.background.A > 0 {
		setFill(pdf, sc.background, 1)
		pdf.Rect(0, 0, side, side, "F")
	}
	for _, l := range sc.layers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, s := range l.shapes {
			drawShape(pdf, s, l.opacity)
		}
	}
	pdf.SetAlpha(1, "Normal")
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("build pdf: %w", err)
	}
	return pdf, nil
}

// drawShape paints fill and stroke in separate passes because each carries
// its own alpha.
func drawShape(pdf *gofpdf.Fpdf, s shape, opacity float64) {
	if s.filled() {
		setFill(pdf, s.fill, opacity)
		outline(pdf, s, "F")
	}
	if s.stroked() {
		setStroke(pdf, s.stroke, opacity)
		pdf.SetLineWidth(s.width)
		outline(pdf, s, "D")
	}
}

func outline(pdf *gofpdf.Fpdf, s shape, style string) {
	switch s.kind {
	case state.KindCircle:
		c := s.points[0]
		pdf.Circle(c.X, c.Y, s.radius, style)
	case state.KindRectangle:
		pts := make([]gofpdf.PointType, len(s.points))
		for i, p := range s.points {
			pts[i] = gofpdf.PointType{X: p.X, Y: p.Y}
		}
		pdf.Polygon(pts, style)
	case state.KindPath:
		pdf.MoveTo(s.points[0].X, s.points[0].Y)
		for _, p := range s.points[1:] {
			pdf.LineTo(p.X, p.Y)
		}
		pdf.DrawPath(style)
	}
}

func setFill(pdf *gofpdf.Fpdf, c color.NRGBA, opacity float64) {
	pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
	pdf.SetAlpha(float64(c.A)/255*opacity, "Normal")
}

func setStroke(pdf *gofpdf.Fpdf, c color.NRGBA, opacity float64) {
	pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
	pdf.SetAlpha(float64(c.A)/255*opacity, "Normal")
}
