package rendering

import (
	"fmt"
	"time"
)

// FocusItemsFilename names a freshly generated sheet.
func FocusItemsFilename(start, end time.Time) string {
	return fmt.Sprintf("Medghor_Focus_Items_%s_%s.pdf", start.Format("02012006"), end.Format("02012006"))
}

// SavedReportFilename names a sheet re-rendered from a stored report.
func SavedReportFilename(id int64) string {
	return fmt.Sprintf("Medghor_Report_%d.pdf", id)
}

func SpreadsheetFilename(id int64) string {
	return fmt.Sprintf("Medghor_Report_%d.xlsx", id)
}
