package handlers

import (
	"errors"
	"net/http"

	"github.com/Tushar365/reportappmedghor/internal/common"
	"github.com/Tushar365/reportappmedghor/internal/rendering"
	"github.com/Tushar365/reportappmedghor/internal/repositories"
	"github.com/Tushar365/reportappmedghor/internal/services"
	"github.com/Tushar365/reportappmedghor/internal/session"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// respondError maps service errors onto the error envelope. resource names
// the thing that was looked up, for not-found messages.
func respondError(c echo.Context, err error, resource string) error {
	logger := zerolog.Ctx(c.Request().Context())

	var (
		renderErr  *rendering.RenderError
		writeErr   *repositories.StoreWriteError
		validation *services.ValidationError
		indexErr   *session.IndexError
	)
	switch {
	case errors.Is(err, rendering.ErrEmptyInput):
		return common.SendValidationError(c, "lines", "at least one product line is required")
	case errors.Is(err, session.ErrMissingName):
		return common.SendValidationError(c, "name", err.Error())
	case errors.Is(err, session.ErrMissingRate):
		return common.SendValidationError(c, "rate", err.Error())
	case errors.As(err, &indexErr):
		return common.SendValidationError(c, "index", indexErr.Error())
	case errors.As(err, &validation):
		return common.SendValidationError(c, validation.Field, validation.Message)
	case errors.Is(err, repositories.ErrNotFound):
		return common.SendNotFoundError(c, resource)
	case errors.Is(err, services.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, common.CreateErrorResponse("UNAUTHORIZED", err.Error(), nil))
	case errors.Is(err, services.ErrAccountDisabled):
		return c.JSON(http.StatusForbidden, common.CreateErrorResponse("FORBIDDEN", err.Error(), nil))
	case errors.As(err, &renderErr):
		logger.Error().Err(err).Msg("document rendering failed")
		return common.SendServerError(c, "Failed to render document")
	case errors.As(err, &writeErr):
		if writeErr.Conflict() {
			return common.SendConflictError(c, resource+" already exists")
		}
		logger.Error().Err(err).Str("op", writeErr.Op).Msg("store write failed")
		return common.SendUnavailableError(c, "Storage is unavailable, nothing was saved")
	default:
		logger.Error().Err(err).Msg("request failed")
		return common.SendServerError(c, "Internal server error")
	}
}
