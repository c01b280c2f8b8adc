package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/scholartrack/core/internal/application/services"
	"github.com/scholartrack/core/internal/domain/entities"
	"github.com/scholartrack/core/internal/infrastructure/logger"
	"github.com/scholartrack/core/internal/ports"
)

const dailyLogsDefaultLimit = 30

// JournalHandler handles daily log and milestone requests
type JournalHandler struct {
	journalService *services.JournalService
	logger         *logger.Logger
}

// NewJournalHandler creates a new journal handler
func NewJournalHandler(journalService *services.JournalService, logger *logger.Logger) *JournalHandler {
	return &JournalHandler{
		journalService: journalService,
		logger:         logger,
	}
}

// UpsertDailyLog creates or replaces the log for a date
func (h *JournalHandler) UpsertDailyLog(c echo.Context) error {
	var req ports.UpsertDailyLogRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	log, err := h.journalService.UpsertDailyLog(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("Daily log save failed", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, log)
}

// GetDailyLog returns the log for the :date path parameter (2006-01-02)
func (h *JournalHandler) GetDailyLog(c echo.Context) error {
	day, err := time.Parse("2006-01-02", c.Param("date"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
	}

	log, err := h.journalService.GetDailyLog(c.Request().Context(), day)
	if err != nil {
		return notFoundOr(err, entities.ErrDailyLogNotFound, "Failed to load daily log")
	}
	return c.JSON(http.StatusOK, log)
}

// ListDailyLogs returns recent logs, newest first
func (h *JournalHandler) ListDailyLogs(c echo.Context) error {
	limit := dailyLogsDefaultLimit
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid limit")
		}
		limit = n
	}

	logs, err := h.journalService.ListDailyLogs(c.Request().Context(), limit)
	if err != nil {
		h.logger.Error("Daily log list failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load daily logs")
	}
	return c.JSON(http.StatusOK, logs)
}

// CreateMilestone adds a milestone
func (h *JournalHandler) CreateMilestone(c echo.Context) error {
	var req ports.CreateMilestoneRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	milestone, err := h.journalService.CreateMilestone(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("Create milestone failed", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, milestone)
}

// UpdateMilestone handles a milestone update
func (h *JournalHandler) UpdateMilestone(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req ports.UpdateMilestoneRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	milestone, err := h.journalService.UpdateMilestone(c.Request().Context(), id, req)
	if err != nil {
		return notFoundOr(err, entities.ErrMilestoneNotFound, "Failed to update milestone")
	}
	return c.JSON(http.StatusOK, milestone)
}

// DeleteMilestone removes a milestone
func (h *JournalHandler) DeleteMilestone(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.journalService.DeleteMilestone(c.Request().Context(), id); err != nil {
		return notFoundOr(err, entities.ErrMilestoneNotFound, "Failed to delete milestone")
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Milestone deleted"})
}

// ListMilestones returns milestones in manual order
func (h *JournalHandler) ListMilestones(c echo.Context) error {
	milestones, err := h.journalService.ListMilestones(c.Request().Context())
	if err != nil {
		h.logger.Error("Milestone list failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load milestones")
	}
	return c.JSON(http.StatusOK, milestones)
}
