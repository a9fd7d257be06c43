package handlers

import (
	"net/http"

	"github.com/Tushar365/reportappmedghor/internal/common"
	"github.com/Tushar365/reportappmedghor/internal/models"
	"github.com/Tushar365/reportappmedghor/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// AuthHandlers handles authentication-related HTTP requests
type AuthHandlers struct {
	authService services.AuthService
}

func NewAuthHandlers(authService services.AuthService) *AuthHandlers {
	return &AuthHandlers{authService: authService}
}

// LoginResponse represents the login response
type LoginResponse struct {
	models.TokenResponse
	User *models.User `json:"user"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type SetRolesRequest struct {
	Roles []string `json:"roles"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// Register creates a viewer account
func (h *AuthHandlers) Register(c echo.Context) error {
	var req services.RegisterInput
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	user, err := h.authService.Register(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err, "User")
	}
	return c.JSON(http.StatusCreated, user)
}

// Login handles user login with username and password
func (h *AuthHandlers) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.Username == "" || req.Password == "" {
		return common.SendClientError(c, "Username and password are required")
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return respondError(c, err, "User")
	}
	return c.JSON(http.StatusOK, LoginResponse{TokenResponse: *token, User: user})
}

func callerID(c echo.Context) (uuid.UUID, bool) {
	principal, ok := common.GetPrincipalFromContext(c.Request().Context())
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(principal.UserID)
	return id, err == nil
}

// Me returns the calling user
func (h *AuthHandlers) Me(c echo.Context) error {
	id, ok := callerID(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	user, err := h.authService.GetUser(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err, "User")
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile changes the caller's email and full name
func (h *AuthHandlers) UpdateProfile(c echo.Context) error {
	id, ok := callerID(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	var req services.ProfileInput
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	user, err := h.authService.UpdateProfile(c.Request().Context(), id, req)
	if err != nil {
		return respondError(c, err, "Email")
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AuthHandlers) ChangePassword(c echo.Context) error {
	id, ok := callerID(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	var req ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	if err := h.authService.ChangePassword(c.Request().Context(), id, req.CurrentPassword, req.NewPassword); err != nil {
		return respondError(c, err, "User")
	}
	return c.NoContent(http.StatusNoContent)
}

// SetRoles replaces a user's roles (admin only)
func (h *AuthHandlers) SetRoles(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendValidationError(c, "id", "must be a valid UUID")
	}

	var req SetRolesRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	roles := make([]models.Role, 0, len(req.Roles))
	for _, name := range req.Roles {
		role, err := models.ParseRole(name)
		if err != nil {
			return common.SendValidationError(c, "roles", err.Error())
		}
		roles = append(roles, role)
	}

	if err := h.authService.SetRoles(c.Request().Context(), id, roles); err != nil {
		return respondError(c, err, "User")
	}
	return c.NoContent(http.StatusNoContent)
}
