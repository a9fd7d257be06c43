package handlers

import (
	"net/http"
	"strconv"

	"github.com/Tushar365/reportappmedghor/internal/common"
	"github.com/Tushar365/reportappmedghor/internal/models"
	"github.com/Tushar365/reportappmedghor/internal/services"

	"github.com/labstack/echo/v4"
)

// EditorHandlers expose the caller's working list of product lines
type EditorHandlers struct {
	editorService services.EditorService
}

func NewEditorHandlers(editorService services.EditorService) *EditorHandlers {
	return &EditorHandlers{editorService: editorService}
}

type EditorResponse struct {
	Lines []models.ProductLine `json:"lines"`
}

type QuickAddRequest struct {
	ProductName string `json:"product_name"`
}

func editorResponse(lines []models.ProductLine) EditorResponse {
	if lines == nil {
		lines = []models.ProductLine{}
	}
	return EditorResponse{Lines: lines}
}

func principalID(c echo.Context) (string, bool) {
	p, ok := common.GetPrincipalFromContext(c.Request().Context())
	return p.UserID, ok
}

func (h *EditorHandlers) GetEditor(c echo.Context) error {
	userID, ok := principalID(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	lines, err := h.editorService.Lines(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err, "Editor")
	}
	return c.JSON(http.StatusOK, editorResponse(lines))
}

func (h *EditorHandlers) AddLine(c echo.Context) error {
	userID, ok := principalID(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	var line models.ProductLine
	if err := c.Bind(&line); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	lines, err := h.editorService.Add(c.Request().Context(), userID, line)
	if err != nil {
		return respondError(c, err, "Editor")
	}
	return c.JSON(http.StatusCreated, editorResponse(lines))
}

// QuickAdd appends a popular product with its last used rate
func (h *EditorHandlers) QuickAdd(c echo.Context) error {
	userID, ok := principalID(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	var req QuickAddRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.ProductName == "" {
		return common.SendValidationError(c, "product_name", "is required")
	}
	lines, err := h.editorService.QuickAdd(c.Request().Context(), userID, req.ProductName)
	if err != nil {
		return respondError(c, err, "Product")
	}
	return c.JSON(http.StatusCreated, editorResponse(lines))
}

func (h *EditorHandlers) RemoveLine(c echo.Context) error {
	userID, ok := principalID(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return common.SendValidationError(c, "index", "must be an integer")
	}
	lines, err := h.editorService.Remove(c.Request().Context(), userID, index)
	if err != nil {
		return respondError(c, err, "Editor")
	}
	return c.JSON(http.StatusOK, editorResponse(lines))
}

func (h *EditorHandlers) Clear(c echo.Context) error {
	userID, ok := principalID(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	if err := h.editorService.Clear(c.Request().Context(), userID); err != nil {
		return respondError(c, err, "Editor")
	}
	return c.NoContent(http.StatusNoContent)
}
