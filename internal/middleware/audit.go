package middleware

import (
	"net/http"
	"time"

	"github.com/Tushar365/reportappmedghor/internal/common"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// AuditMiddleware records who changed what
type AuditMiddleware struct {
	logger zerolog.Logger
}

func NewAuditMiddleware(logger zerolog.Logger) *AuditMiddleware {
	return &AuditMiddleware{logger: logger.With().Str("component", "audit").Logger()}
}

// AuditRequest logs every mutating request with the caller and outcome.
// Reads are skipped unless they fail.
func (m *AuditMiddleware) AuditRequest() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			method := c.Request().Method
			if method == http.MethodGet && err == nil && c.Response().Status < 400 {
				return err
			}

			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}

			event := m.logger.Info()
			if err != nil {
				event = m.logger.Warn().Err(err)
			}
			if principal, ok := common.GetPrincipalFromContext(c.Request().Context()); ok {
				event = event.Str("user_id", principal.UserID).
					Str("username", principal.Username).
					Str("role", string(principal.Highest()))
			}
			event.
				Str("action", method+" "+c.Path()).
				Str("resource_id", c.Param("id")).
				Int("status", status).
				Dur("duration", time.Since(start)).
				Msg("audit")

			return err
		}
	}
}
