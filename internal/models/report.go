package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultContactNumber is printed when a sheet has no contact number.
const DefaultContactNumber = "1234567890"

// ReportSpec is everything needed to render one sheet.
type ReportSpec struct {
	StartDate       time.Time     `json:"start_date"`
	EndDate         time.Time     `json:"end_date"`
	BrandName       string        `json:"brand_name"`
	RateColumnLabel string        `json:"rate_column_label"`
	Lines           []ProductLine `json:"lines"`
	ContactNumber   string        `json:"contact_number,omitempty"`
}

// Contact returns the contact number, falling back to the default.
func (s ReportSpec) Contact() string {
	if s.ContactNumber == "" {
		return DefaultContactNumber
	}
	return s.ContactNumber
}

type SavedReport struct {
	ID        int64         `json:"id" db:"id"`
	StartDate time.Time     `json:"start_date" db:"start_date"`
	EndDate   time.Time     `json:"end_date" db:"end_date"`
	BrandName string        `json:"brand_name" db:"brand_name"`
	Lines     []ProductLine `json:"products" db:"products"`
	OwnerID   *uuid.UUID    `json:"owner_id,omitempty" db:"owner_id"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`
}

// Spec rebuilds a render spec from a stored report. The rate label is not
// stored, so the caller supplies it.
func (r *SavedReport) Spec(rateColumnLabel, contact string) ReportSpec {
	lines := make([]ProductLine, len(r.Lines))
	copy(lines, r.Lines)
	return ReportSpec{
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		BrandName:       r.BrandName,
		RateColumnLabel: rateColumnLabel,
		Lines:           lines,
		ContactNumber:   contact,
	}
}
