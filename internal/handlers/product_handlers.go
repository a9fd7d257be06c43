package handlers

import (
	"net/http"
	"strconv"

	"github.com/Tushar365/reportappmedghor/internal/common"
	"github.com/Tushar365/reportappmedghor/internal/services"

	"github.com/labstack/echo/v4"
)

type ProductHandlers struct {
	reportService services.ReportService
}

func NewProductHandlers(reportService services.ReportService) *ProductHandlers {
	return &ProductHandlers{reportService: reportService}
}

// PopularProducts lists the most used products for quick add
func (h *ProductHandlers) PopularProducts(c echo.Context) error {
	limit := services.DefaultPopularLimit
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return common.SendValidationError(c, "limit", "must be a positive integer")
		}
		limit = n
	}

	usages, err := h.reportService.TopProducts(c.Request().Context(), limit)
	if err != nil {
		return respondError(c, err, "Product")
	}
	return c.JSON(http.StatusOK, usages)
}
