package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/scholartrack/core/internal/application/services"
	"github.com/scholartrack/core/internal/domain/entities"
	"github.com/scholartrack/core/internal/infrastructure/logger"
	"github.com/scholartrack/core/internal/ports"
)

// Default window for GET /events/deadlines.
const deadlinesDefaultWindow = 90

// EventHandler handles event tracking requests
type EventHandler struct {
	eventService *services.EventService
	logger       *logger.Logger
}

// NewEventHandler creates a new event handler
func NewEventHandler(eventService *services.EventService, logger *logger.Logger) *EventHandler {
	return &EventHandler{
		eventService: eventService,
		logger:       logger,
	}
}

// CreateEvent handles event creation
func (h *EventHandler) CreateEvent(c echo.Context) error {
	var req ports.CreateEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	event, err := h.eventService.CreateEvent(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("Create event failed", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, event)
}

// GetEvent returns a single event
func (h *EventHandler) GetEvent(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	event, err := h.eventService.GetEvent(c.Request().Context(), id)
	if err != nil {
		return notFoundOr(err, entities.ErrEventNotFound, "Failed to load event")
	}
	return c.JSON(http.StatusOK, event)
}

// UpdateEvent handles an event update
func (h *EventHandler) UpdateEvent(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req ports.UpdateEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	event, err := h.eventService.UpdateEvent(c.Request().Context(), id, req)
	if err != nil {
		return notFoundOr(err, entities.ErrEventNotFound, "Failed to update event")
	}
	return c.JSON(http.StatusOK, event)
}

// DeleteEvent removes an event
func (h *EventHandler) DeleteEvent(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.eventService.DeleteEvent(c.Request().Context(), id); err != nil {
		return notFoundOr(err, entities.ErrEventNotFound, "Failed to delete event")
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Event deleted"})
}

// ListEvents returns events matching the query filters
func (h *EventHandler) ListEvents(c echo.Context) error {
	filter := ports.EventFilter{
		Search: c.QueryParam("q"),
		SortBy: c.QueryParam("sort"),
	}
	if v := c.QueryParam("category"); v != "" {
		category := entities.EventCategory(v)
		if !category.IsValid() {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid category")
		}
		filter.Category = &category
	}
	if v := c.QueryParam("location"); v != "" {
		filter.Location = &v
	}
	if v := c.QueryParam("status"); v != "" {
		status := entities.EventStatus(v)
		if !status.IsValid() {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid status")
		}
		filter.Status = &status
	}

	events, err := h.eventService.ListEvents(c.Request().Context(), filter)
	if err != nil {
		h.logger.Error("List events failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load events")
	}
	return c.JSON(http.StatusOK, events)
}

// TogglePin flips an event's pinned flag
func (h *EventHandler) TogglePin(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	event, err := h.eventService.TogglePin(c.Request().Context(), id)
	if err != nil {
		return notFoundOr(err, entities.ErrEventNotFound, "Failed to toggle pin")
	}
	return c.JSON(http.StatusOK, event)
}

// UpcomingDeadlines returns events with a deadline in the coming window
func (h *EventHandler) UpcomingDeadlines(c echo.Context) error {
	window := deadlinesDefaultWindow
	if v := c.QueryParam("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid days parameter")
		}
		window = n
	}

	events, err := h.eventService.UpcomingDeadlines(c.Request().Context(), window, 0)
	if err != nil {
		h.logger.Error("Deadline list failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load deadlines")
	}
	return c.JSON(http.StatusOK, events)
}

// Categories returns the distinct event categories in use
func (h *EventHandler) Categories(c echo.Context) error {
	categories, err := h.eventService.Categories(c.Request().Context())
	if err != nil {
		h.logger.Error("Category list failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load categories")
	}
	return c.JSON(http.StatusOK, categories)
}
