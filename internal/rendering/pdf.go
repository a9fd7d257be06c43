package rendering

import (
	"bytes"

	"github.com/Tushar365/reportappmedghor/internal/models"
	"github.com/jung-kurt/gofpdf"
)

type rgb struct{ r, g, b int }

var (
	titleFill  = rgb{0xFF, 0x99, 0x00}
	brandFill  = rgb{0xFF, 0xE6, 0xCC}
	headerFill = rgb{0xCC, 0xCC, 0xCC}
	shadedFill = rgb{0xF5, 0xF5, 0xF5}
	plainFill  = rgb{0xFF, 0xFF, 0xFF}
)

// Renderer turns report specs into PDF documents.
type Renderer struct {
	compress bool
}

type Option func(*Renderer)

// WithCompression toggles content stream compression. Uncompressed output
// is handy when inspecting documents.
func WithCompression(on bool) Option {
	return func(r *Renderer) { r.compress = on }
}

func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{compress: true}
	for _, o := range opts {
		o(r)
	}
	return r
}

var defaultRenderer = NewRenderer()

// Render draws spec with the default renderer.
func Render(spec models.ReportSpec) ([]byte, error) {
	return defaultRenderer.Render(spec)
}

// Render produces the PDF bytes for spec. The same spec always yields the
// same document.
func (r *Renderer) Render(spec models.ReportSpec) ([]byte, error) {
	layout, err := Plan(spec)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, margin)
	pdf.SetCellMargin(0)
	pdf.SetCompression(r.compress)
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(spec.StartDate)
	pdf.SetModificationDate(spec.StartDate)
	pdf.SetTitle(layout.Title, true)
	pdf.SetAuthor(layout.Author, true)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetDrawColor(0, 0, 0)

	for _, page := range layout.Pages {
		pdf.AddPage()
		if page.Title != nil {
			drawBanner(pdf, page.Title, titleFill, titleBorder, titleFontSize, titleLeading)
		}
		if page.Brand != nil {
			drawBanner(pdf, page.Brand, brandFill, brandBorder, brandFontSize, brandLeading)
		}
		for _, row := range page.Rows {
			drawRow(pdf, layout, row)
		}
		// Rules go on last so the fill of the row below cannot cover them.
		for _, row := range page.Rows {
			if row.Kind == HeaderRow {
				drawHeaderRule(pdf, layout, row)
			}
		}
	}

	if err := pdf.Error(); err != nil {
		return nil, &RenderError{Err: err}
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, &RenderError{Err: err}
	}
	return buf.Bytes(), nil
}

func setFill(pdf *gofpdf.Fpdf, c rgb) {
	pdf.SetFillColor(c.r, c.g, c.b)
}

func drawBanner(pdf *gofpdf.Fpdf, b *Banner, fill rgb, border, size, leading float64) {
	setFill(pdf, fill)
	pdf.SetLineWidth(border)
	pdf.Rect(margin, b.Y, contentWidth, b.Height, "FD")

	pdf.SetFont(fontFamily, "B", size)
	y := b.Y + (b.Height-float64(len(b.Lines))*leading)/2
	for _, line := range b.Lines {
		pdf.SetXY(margin+titlePadX, y)
		pdf.CellFormat(contentWidth-2*titlePadX, leading, line, "", 0, "CM", false, 0, "")
		y += leading
	}
}

func drawRow(pdf *gofpdf.Fpdf, l *Layout, row Row) {
	style, size, leading, fill := "", dataFontSize, dataLeading, plainFill
	switch {
	case row.Kind == HeaderRow:
		style, size, leading, fill = "B", headerFontSize, headerLeading, headerFill
	case row.Shaded:
		fill = shadedFill
	}

	pdf.SetFont(fontFamily, style, size)
	pdf.SetLineWidth(gridWidth)
	setFill(pdf, fill)

	x := l.TableX
	for i, lines := range row.Cells {
		w := l.ColumnWidths[i]
		pdf.Rect(x, row.Y, w, row.Height, "FD")
		y := row.Y + (row.Height-float64(len(lines))*leading)/2
		for _, line := range lines {
			pdf.SetXY(x+cellPadX, y)
			pdf.CellFormat(w-2*cellPadX, leading, line, "", 0, columnAligns[i], false, 0, "")
			y += leading
		}
		x += w
	}
}

func drawHeaderRule(pdf *gofpdf.Fpdf, l *Layout, row Row) {
	pdf.SetLineWidth(headerRuleWidth)
	bottom := row.Y + row.Height
	pdf.Line(l.TableX, bottom, l.TableX+l.TableWidth(), bottom)
}
