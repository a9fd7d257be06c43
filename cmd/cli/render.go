package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Tushar365/reportappmedghor/internal/common"
	"github.com/Tushar365/reportappmedghor/internal/models"
	"github.com/Tushar365/reportappmedghor/internal/rendering"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// sheetFile is the JSON accepted by the render command
type sheetFile struct {
	StartDate       string               `json:"start_date"`
	EndDate         string               `json:"end_date"`
	BrandName       string               `json:"brand_name"`
	RateColumnLabel string               `json:"rate_column_label"`
	ContactNumber   string               `json:"contact_number"`
	Lines           []models.ProductLine `json:"lines"`
}

type RenderCmd struct {
	input       string
	outDir      string
	spreadsheet bool
	logger      zerolog.Logger
}

func NewRenderCmd(logger zerolog.Logger) *cobra.Command {
	rc := &RenderCmd{logger: logger}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a sheet from a JSON file without touching the database",
		RunE:  rc.run,
	}

	cmd.Flags().StringVar(&rc.input, "input", "", "Path to the sheet JSON")
	cmd.Flags().StringVar(&rc.outDir, "out", ".", "Directory to write the PDF to")
	cmd.Flags().BoolVar(&rc.spreadsheet, "xlsx", false, "Also write an .xlsx copy")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func (rc *RenderCmd) run(cmd *cobra.Command, args []string) error {
	written, err := renderFile(rc.input, rc.outDir, rc.spreadsheet)
	if err != nil {
		return err
	}
	for _, path := range written {
		rc.logger.Info().Str("file", path).Msg("written")
	}
	return nil
}

func loadSheet(path string) (models.ReportSpec, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return models.ReportSpec{}, err
	}
	var in sheetFile
	if err := json.Unmarshal(raw, &in); err != nil {
		return models.ReportSpec{}, fmt.Errorf("invalid sheet file: %w", err)
	}

	start, err := common.ParseDate(in.StartDate, "start_date")
	if err != nil {
		return models.ReportSpec{}, err
	}
	end, err := common.ParseDate(in.EndDate, "end_date")
	if err != nil {
		return models.ReportSpec{}, err
	}
	label := in.RateColumnLabel
	if label == "" {
		label = "Rate/Discount"
	}
	return models.ReportSpec{
		StartDate:       start,
		EndDate:         end,
		BrandName:       in.BrandName,
		RateColumnLabel: label,
		Lines:           in.Lines,
		ContactNumber:   in.ContactNumber,
	}, nil
}

// renderFile writes the PDF (and optionally the spreadsheet) for the sheet
// in input and returns the paths written.
func renderFile(input, outDir string, spreadsheet bool) ([]string, error) {
	spec, err := loadSheet(input)
	if err != nil {
		return nil, err
	}

	pdf, err := rendering.Render(spec)
	if err != nil {
		return nil, err
	}
	pdfPath := filepath.Join(outDir, rendering.FocusItemsFilename(spec.StartDate, spec.EndDate))
	if err := os.WriteFile(pdfPath, pdf, 0o644); err != nil {
		return nil, err
	}
	written := []string{pdfPath}

	if spreadsheet {
		data, err := rendering.Spreadsheet(spec)
		if err != nil {
			return written, err
		}
		xlsxPath := pdfPath[:len(pdfPath)-len(".pdf")] + ".xlsx"
		if err := os.WriteFile(xlsxPath, data, 0o644); err != nil {
			return written, err
		}
		written = append(written, xlsxPath)
	}
	return written, nil
}
