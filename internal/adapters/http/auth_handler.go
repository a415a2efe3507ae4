package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/smartnote/core/internal/domain/entities"
	"github.com/smartnote/core/internal/infrastructure/logger"
	"github.com/smartnote/core/internal/ports"
)

// AuthHandler handles login requests
type AuthHandler struct {
	userService ports.UserService
	logger      *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(userService ports.UserService, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		logger:      logger.WithComponent("auth_handler"),
	}
}

// Login godoc
// @Summary Log in
// @Description Check an email and password and return the public user profile
// @Tags users
// @Accept json
// @Produce json
// @Param request body ports.LoginRequest true "Credentials"
// @Success 200 {object} entities.Profile
// @Failure 401 {object} ports.ErrorResponse
// @Router /users/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req ports.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password!")
	}

	profile, err := h.userService.Login(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, entities.ErrUnauthorized) {
			h.logger.LogSecurityEvent("invalid_credentials", "", c.RealIP(), map[string]interface{}{
				"email": req.Email,
			})
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password!")
		}
		h.logger.Errorw("Login failed", "error", err, "email", req.Email)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to log in").SetInternal(err)
	}

	return c.JSON(http.StatusOK, profile)
}
