package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/scholartrack/core/internal/application/services"
	"github.com/scholartrack/core/internal/domain/entities"
	"github.com/scholartrack/core/internal/infrastructure/logger"
	"github.com/scholartrack/core/internal/ports"
)

// MessageResponse is the generic success envelope
type MessageResponse struct {
	Message string `json:"message"`
}

// AuthHandler handles authentication requests
type AuthHandler struct {
	authService *services.AuthService
	logger      *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Login handles owner login
func (h *AuthHandler) Login(c echo.Context) error {
	var req ports.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	response, err := h.authService.Login(c.Request().Context(), req)
	if err != nil {
		h.logger.Warn("Login failed", "username", req.Username)
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}

	return c.JSON(http.StatusOK, response)
}

// ChangePassword handles a password change for the logged-in owner
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	var req ports.ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.ChangePassword(c.Request().Context(), req); err != nil {
		if errors.Is(err, entities.ErrUnauthorized) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Current password is incorrect")
		}
		h.logger.Error("Password change failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Password change failed")
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Password changed"})
}

// DashboardHandler serves the landing-page summary
type DashboardHandler struct {
	dashboardService *services.DashboardService
	logger           *logger.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *services.DashboardService, logger *logger.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		logger:           logger,
	}
}

// GetDashboard returns the aggregated summary
func (h *DashboardHandler) GetDashboard(c echo.Context) error {
	response, err := h.dashboardService.GetDashboard(c.Request().Context())
	if err != nil {
		h.logger.Error("Dashboard load failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load dashboard")
	}
	return c.JSON(http.StatusOK, response)
}

// SettingsHandler handles the settings store and notification testing
type SettingsHandler struct {
	settingsService *services.SettingsService
	exportService   *services.ExportService
	notifiers       func(c echo.Context) ([]ports.Notifier, error)
	logger          *logger.Logger
}

// NewSettingsHandler creates a new settings handler. notifiers builds the
// currently configured backends, for the test endpoint.
func NewSettingsHandler(settingsService *services.SettingsService, exportService *services.ExportService, notifiers func(c echo.Context) ([]ports.Notifier, error), logger *logger.Logger) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
		exportService:   exportService,
		notifiers:       notifiers,
		logger:          logger,
	}
}

// GetSettings returns all settings with secrets masked
func (h *SettingsHandler) GetSettings(c echo.Context) error {
	values, err := h.settingsService.GetSettings(c.Request().Context())
	if err != nil {
		h.logger.Error("Settings load failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load settings")
	}
	return c.JSON(http.StatusOK, values)
}

// UpdateSettings stores the posted values
func (h *SettingsHandler) UpdateSettings(c echo.Context) error {
	var values map[string]string
	if err := c.Bind(&values); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := h.settingsService.UpdateSettings(c.Request().Context(), values); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Settings saved"})
}

// TestNotification sends a short message through every configured backend
func (h *SettingsHandler) TestNotification(c echo.Context) error {
	backends, err := h.notifiers(c)
	if err != nil {
		h.logger.Error("Notifier build failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to build notifiers")
	}
	if len(backends) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "No notification backends configured")
	}

	results := make(map[string]string, len(backends))
	for _, n := range backends {
		sender, ok := n.(ports.MessageSender)
		if !ok {
			continue
		}
		if err := sender.SendMessage(c.Request().Context(), "Test notification from Research Dashboard"); err != nil {
			h.logger.Error("Test notification failed", "channel", n.Name(), "error", err)
			results[n.Name()] = err.Error()
			continue
		}
		results[n.Name()] = "ok"
	}

	return c.JSON(http.StatusOK, results)
}

// ExportVault runs a full vault export
func (h *SettingsHandler) ExportVault(c echo.Context) error {
	stats, err := h.exportService.ExportVault(c.Request().Context())
	if err != nil {
		h.logger.Error("Vault export failed", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, stats)
}

// pathID parses the :id route parameter.
func pathID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid ID")
	}
	return id, nil
}

// notFoundOr maps a repository error to 404 when it is the given sentinel.
func notFoundOr(err, sentinel error, fallback string) error {
	if errors.Is(err, sentinel) {
		return echo.NewHTTPError(http.StatusNotFound, sentinel.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, fallback)
}
