package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/Tushar365/reportappmedghor/internal/common"
	"github.com/Tushar365/reportappmedghor/internal/models"
	"github.com/Tushar365/reportappmedghor/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	defaultRateLabel = "Rate/Discount"
	defaultBrand     = "GENERIC FOCUS BRAND"
)

// ReportHandlers handles sheet generation and saved reports
type ReportHandlers struct {
	reportService services.ReportService
	editorService services.EditorService
}

func NewReportHandlers(reportService services.ReportService, editorService services.EditorService) *ReportHandlers {
	return &ReportHandlers{reportService: reportService, editorService: editorService}
}

// GenerateRequest describes a sheet. When Lines is omitted the caller's
// editor lines are used.
type GenerateRequest struct {
	StartDate       string                `json:"start_date"`
	EndDate         string                `json:"end_date"`
	BrandName       string                `json:"brand_name"`
	RateColumnLabel string                `json:"rate_column_label"`
	ContactNumber   string                `json:"contact_number"`
	Lines           *[]models.ProductLine `json:"lines"`
}

type ReportSummary struct {
	*models.SavedReport
	ProductCount int `json:"product_count"`
}

func rateLabel(c echo.Context) string {
	if label := c.QueryParam("rate_label"); label != "" {
		return label
	}
	return defaultRateLabel
}

func parseReportID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

func sendDocument(c echo.Context, doc *services.Document) error {
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", doc.Filename))
	if doc.URL != "" {
		c.Response().Header().Set("X-Document-URL", doc.URL)
	}
	return c.Blob(http.StatusOK, doc.ContentType, doc.Data)
}

// Generate renders the sheet, saves the report and returns the PDF
func (h *ReportHandlers) Generate(c echo.Context) error {
	ctx := c.Request().Context()
	principal, ok := common.GetPrincipalFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req GenerateRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	start, err := common.ParseDate(req.StartDate, "start_date")
	if err != nil {
		return common.SendValidationError(c, "start_date", err.Error())
	}
	end, err := common.ParseDate(req.EndDate, "end_date")
	if err != nil {
		return common.SendValidationError(c, "end_date", err.Error())
	}

	spec := models.ReportSpec{
		StartDate:       start,
		EndDate:         end,
		BrandName:       req.BrandName,
		RateColumnLabel: req.RateColumnLabel,
		ContactNumber:   req.ContactNumber,
	}
	if spec.BrandName == "" {
		spec.BrandName = defaultBrand
	}
	if spec.RateColumnLabel == "" {
		spec.RateColumnLabel = defaultRateLabel
	}
	if req.Lines != nil {
		spec.Lines = *req.Lines
	} else {
		spec.Lines, err = h.editorService.Lines(ctx, principal.UserID)
		if err != nil {
			return respondError(c, err, "Editor")
		}
	}

	var owner *uuid.UUID
	if id, err := uuid.Parse(principal.UserID); err == nil {
		owner = &id
	}

	generated, err := h.reportService.Generate(ctx, owner, spec)
	if err != nil {
		return respondError(c, err, "Report")
	}
	c.Response().Header().Set("X-Report-ID", strconv.FormatInt(generated.Report.ID, 10))
	return sendDocument(c, generated.Document)
}

// ListReports lists saved reports, newest first. ?mine=true limits the list
// to the caller's reports.
func (h *ReportHandlers) ListReports(c echo.Context) error {
	ctx := c.Request().Context()
	var owner *uuid.UUID
	if c.QueryParam("mine") == "true" {
		principal, ok := common.GetPrincipalFromContext(ctx)
		if !ok {
			return common.SendUnauthorizedError(c)
		}
		id, err := uuid.Parse(principal.UserID)
		if err != nil {
			return common.SendUnauthorizedError(c)
		}
		owner = &id
	}

	reports, err := h.reportService.List(ctx, owner)
	if err != nil {
		return respondError(c, err, "Report")
	}
	summaries := make([]ReportSummary, 0, len(reports))
	for _, r := range reports {
		summaries = append(summaries, ReportSummary{SavedReport: r, ProductCount: len(r.Lines)})
	}
	return c.JSON(http.StatusOK, summaries)
}

func (h *ReportHandlers) GetReport(c echo.Context) error {
	id, err := parseReportID(c)
	if err != nil {
		return common.SendValidationError(c, "id", "must be an integer")
	}
	report, err := h.reportService.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err, "Report")
	}
	return c.JSON(http.StatusOK, report)
}

// DownloadPDF re-renders a saved report
func (h *ReportHandlers) DownloadPDF(c echo.Context) error {
	id, err := parseReportID(c)
	if err != nil {
		return common.SendValidationError(c, "id", "must be an integer")
	}
	doc, err := h.reportService.RenderSaved(c.Request().Context(), id, rateLabel(c))
	if err != nil {
		return respondError(c, err, "Report")
	}
	return sendDocument(c, doc)
}

func (h *ReportHandlers) DownloadSpreadsheet(c echo.Context) error {
	id, err := parseReportID(c)
	if err != nil {
		return common.SendValidationError(c, "id", "must be an integer")
	}
	doc, err := h.reportService.ExportSpreadsheet(c.Request().Context(), id, rateLabel(c))
	if err != nil {
		return respondError(c, err, "Report")
	}
	return sendDocument(c, doc)
}

// LoadIntoEditor copies a saved report's lines into the caller's editor
func (h *ReportHandlers) LoadIntoEditor(c echo.Context) error {
	userID, ok := principalID(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := parseReportID(c)
	if err != nil {
		return common.SendValidationError(c, "id", "must be an integer")
	}
	lines, err := h.editorService.LoadReport(c.Request().Context(), userID, id)
	if err != nil {
		return respondError(c, err, "Report")
	}
	return c.JSON(http.StatusOK, editorResponse(lines))
}

func (h *ReportHandlers) DeleteReport(c echo.Context) error {
	id, err := parseReportID(c)
	if err != nil {
		return common.SendValidationError(c, "id", "must be an integer")
	}
	if err := h.reportService.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, err, "Report")
	}
	return c.NoContent(http.StatusNoContent)
}
