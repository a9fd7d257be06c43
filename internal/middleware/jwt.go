package middleware

import (
	"errors"
	"net/http"

	"github.com/Tushar365/reportappmedghor/internal/common"
	"github.com/Tushar365/reportappmedghor/internal/models"
	"github.com/Tushar365/reportappmedghor/internal/services"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

const principalContextKey = "principal"

// JWTConfig validates bearer tokens with the auth service and stores the
// caller's principal in the request context. Roles and the active flag come
// from the user store, not from the token.
func JWTConfig(authSvc services.AuthService) echojwt.Config {
	return echojwt.Config{
		ContextKey: principalContextKey,
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			return authSvc.Authenticate(c.Request().Context(), auth)
		},
		SuccessHandler: func(c echo.Context) {
			p, ok := c.Get(principalContextKey).(models.Principal)
			if !ok {
				return
			}
			ctx := common.WithPrincipal(c.Request().Context(), p)
			c.SetRequest(c.Request().WithContext(ctx))
		},
		ErrorHandler: func(c echo.Context, err error) error {
			if errors.Is(err, services.ErrAccountDisabled) {
				return c.JSON(http.StatusForbidden, common.CreateErrorResponse("FORBIDDEN", err.Error(), nil))
			}
			return common.SendUnauthorizedError(c)
		},
	}
}

// JWTMiddleware handles JWT token validation
func JWTMiddleware(authSvc services.AuthService) echo.MiddlewareFunc {
	return echojwt.WithConfig(JWTConfig(authSvc))
}
