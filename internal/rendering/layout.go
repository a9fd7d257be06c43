package rendering

import (
	"strconv"
	"strings"

	"github.com/Tushar365/reportappmedghor/internal/models"
	"github.com/jung-kurt/gofpdf"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Page geometry in millimetres. Typographic sizes come in points and are
// converted with ptToMM.
const (
	pageWidth    = 210.0
	pageHeight   = 297.0
	margin       = 12.7
	contentWidth = pageWidth - 2*margin
	bottomLimit  = pageHeight - margin

	ptToMM = 25.4 / 72

	gapAfterTitle = 5.08
	gapAfterBrand = 3.81

	titleFontSize   = 16.0
	titleLeading    = 20 * ptToMM
	titlePadY       = 15 * ptToMM
	titlePadX       = 10 * ptToMM
	titleBorder     = 2 * ptToMM
	brandFontSize   = 14.0
	brandLeading    = 14 * 1.2 * ptToMM
	brandPadY       = 10 * ptToMM
	brandBorder     = 1 * ptToMM
	headerFontSize  = 11.0
	headerLeading   = 11 * 1.2 * ptToMM
	headerPadY      = 12 * ptToMM
	dataFontSize    = 10.0
	dataLeading     = 10 * 1.2 * ptToMM
	dataPadY        = 8 * ptToMM
	cellPadX        = 6 * ptToMM
	gridWidth       = 1 * ptToMM
	headerRuleWidth = 2 * ptToMM

	fontFamily = "Helvetica"
	missing    = "N/A"
	dateLayout = "02.01.2006"
)

// SL, name and rate widths as fractions of the content width
var columnFractions = [3]float64{0.5 / 7.5, 5 / 7.5, 1.5 / 7.5}

var columnAligns = [3]string{"CM", "LM", "CM"}

type RowKind int

const (
	HeaderRow RowKind = iota
	DataRow
)

// Banner is a full-width coloured block above the table.
type Banner struct {
	Y      float64
	Height float64
	Lines  []string
}

// Row is one table row placed on a page. Cells hold the wrapped, encoded
// text lines of the SL, name and rate columns.
type Row struct {
	Kind   RowKind
	Serial int
	Y      float64
	Height float64
	Shaded bool
	Cells  [3][]string
}

type Page struct {
	Number int
	Title  *Banner
	Brand  *Banner
	Rows   []Row
}

// DataRows returns the serial numbers of the data rows on the page.
func (p Page) DataRows() []int {
	var serials []int
	for _, r := range p.Rows {
		if r.Kind == DataRow {
			serials = append(serials, r.Serial)
		}
	}
	return serials
}

// Layout is the full placement of a sheet, computed before anything is drawn.
type Layout struct {
	Pages        []Page
	TableX       float64
	ColumnWidths [3]float64
	Title        string
	Author       string
}

func (l *Layout) TableWidth() float64 {
	return l.ColumnWidths[0] + l.ColumnWidths[1] + l.ColumnWidths[2]
}

// measurer wraps text with the metrics of the core fonts.
type measurer struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

func newMeasurer() *measurer {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCellMargin(0)
	return &measurer{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

func (m *measurer) wrap(text, style string, size, width float64) []string {
	m.pdf.SetFont(fontFamily, style, size)
	var out []string
	for _, line := range m.pdf.SplitLines([]byte(m.tr(text)), width) {
		out = append(out, string(line))
	}
	if len(out) == 0 {
		out = []string{""}
	}
	return out
}

func cellText(s string) string {
	if strings.TrimSpace(s) == "" {
		return missing
	}
	return s
}

// Plan lays out a sheet without drawing it.
func Plan(spec models.ReportSpec) (*Layout, error) {
	if len(spec.Lines) == 0 {
		return nil, ErrEmptyInput
	}
	m := newMeasurer()
	if err := m.pdf.Error(); err != nil {
		return nil, &RenderError{Err: err}
	}

	l := &Layout{
		Title:  "Medghor Offer - " + spec.BrandName,
		Author: "Medghor",
	}
	for i, f := range columnFractions {
		l.ColumnWidths[i] = contentWidth * f
	}
	l.TableX = margin + (contentWidth-l.TableWidth())/2

	y := margin
	first := Page{Number: 1}

	titleLines := []string{
		m.tr("**OFFER ITEM**"),
		m.tr("FROM " + spec.StartDate.Format(dateLayout) + " TO " + spec.EndDate.Format(dateLayout)),
		m.tr("CONTACT - " + spec.Contact()),
	}
	titleHeight := float64(len(titleLines))*titleLeading + 2*titlePadY
	first.Title = &Banner{Y: y, Height: titleHeight, Lines: titleLines}
	y += titleHeight + gapAfterTitle

	brandLines := m.wrap(spec.BrandName, "B", brandFontSize, contentWidth-2*titlePadX)
	// The brand banner never runs past the first page; extra lines are dropped.
	if fit := int((bottomLimit - y - 2*brandPadY) / brandLeading); len(brandLines) > fit {
		brandLines = brandLines[:max(fit, 1)]
	}
	brandHeight := float64(len(brandLines))*brandLeading + 2*brandPadY
	first.Brand = &Banner{Y: y, Height: brandHeight, Lines: brandLines}
	y += brandHeight + gapAfterBrand

	label := cases.Upper(language.Und).String(spec.RateColumnLabel)
	header := Row{Kind: HeaderRow}
	for i, text := range []string{"SL", "PRODUCT NAME", label} {
		header.Cells[i] = m.wrap(text, "B", headerFontSize, l.ColumnWidths[i]-2*cellPadX)
	}
	header.Height = float64(maxLines(header.Cells))*headerLeading + 2*headerPadY

	pages := []Page{first}
	cur := &pages[0]
	hasData := false

	newPage := func() {
		pages = append(pages, Page{Number: len(pages) + 1})
		cur = &pages[len(pages)-1]
		y = margin
		hasData = false
	}

	for i, line := range spec.Lines {
		serial := i + 1
		row := Row{Kind: DataRow, Serial: serial, Shaded: serial%2 == 0}
		for c, text := range []string{strconv.Itoa(serial), cellText(line.Name), cellText(line.Rate)} {
			row.Cells[c] = m.wrap(text, "", dataFontSize, l.ColumnWidths[c]-2*cellPadX)
		}
		row.Height = float64(maxLines(row.Cells))*dataLeading + 2*dataPadY

		need := row.Height
		if !hasData {
			need += header.Height
		}
		// A row that cannot fit even on a fresh page is placed anyway.
		if y+need > bottomLimit && (hasData || cur.Title != nil) {
			newPage()
		}
		if !hasData {
			h := header
			h.Y = y
			cur.Rows = append(cur.Rows, h)
			y += h.Height
		}
		row.Y = y
		cur.Rows = append(cur.Rows, row)
		y += row.Height
		hasData = true
	}

	l.Pages = pages
	return l, nil
}

func maxLines(cells [3][]string) int {
	n := 1
	for _, c := range cells {
		if len(c) > n {
			n = len(c)
		}
	}
	return n
}
