package rendering

import (
	"strconv"

	"github.com/Tushar365/reportappmedghor/internal/models"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const sheetName = "Focus Items"

// Spreadsheet exports the product table of spec as an xlsx workbook with
// the same columns and N/A substitution as the PDF.
func Spreadsheet(spec models.ReportSpec) ([]byte, error) {
	if len(spec.Lines) == 0 {
		return nil, ErrEmptyInput
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, &RenderError{Err: err}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11, Family: fontFamily},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#CCCCCC"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return nil, &RenderError{Err: err}
	}
	shadedStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#F5F5F5"}, Pattern: 1},
	})
	if err != nil {
		return nil, &RenderError{Err: err}
	}

	header := []interface{}{"SL", "PRODUCT NAME", cases.Upper(language.Und).String(spec.RateColumnLabel)}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, &RenderError{Err: err}
	}
	if err := f.SetCellStyle(sheetName, "A1", "C1", headerStyle); err != nil {
		return nil, &RenderError{Err: err}
	}

	for i, line := range spec.Lines {
		serial := i + 1
		row := strconv.Itoa(serial + 1)
		values := []interface{}{serial, cellText(line.Name), cellText(line.Rate)}
		if err := f.SetSheetRow(sheetName, "A"+row, &values); err != nil {
			return nil, &RenderError{Err: err}
		}
		if serial%2 == 0 {
			if err := f.SetCellStyle(sheetName, "A"+row, "C"+row, shadedStyle); err != nil {
				return nil, &RenderError{Err: err}
			}
		}
	}

	if err := f.SetColWidth(sheetName, "A", "A", 6); err != nil {
		return nil, &RenderError{Err: err}
	}
	if err := f.SetColWidth(sheetName, "B", "B", 60); err != nil {
		return nil, &RenderError{Err: err}
	}
	if err := f.SetColWidth(sheetName, "C", "C", 18); err != nil {
		return nil, &RenderError{Err: err}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, &RenderError{Err: err}
	}
	return buf.Bytes(), nil
}
