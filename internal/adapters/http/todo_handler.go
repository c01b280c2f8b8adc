package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/scholartrack/core/internal/application/services"
	"github.com/scholartrack/core/internal/domain/entities"
	"github.com/scholartrack/core/internal/infrastructure/logger"
	"github.com/scholartrack/core/internal/ports"
)

// TodoHandler handles task requests
type TodoHandler struct {
	todoService *services.TodoService
	logger      *logger.Logger
}

// NewTodoHandler creates a new todo handler
func NewTodoHandler(todoService *services.TodoService, logger *logger.Logger) *TodoHandler {
	return &TodoHandler{
		todoService: todoService,
		logger:      logger,
	}
}

// CreateTodo handles task creation
func (h *TodoHandler) CreateTodo(c echo.Context) error {
	var req ports.CreateTodoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	todo, err := h.todoService.CreateTodo(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("Create todo failed", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, todo)
}

// GetTodo returns a single task
func (h *TodoHandler) GetTodo(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	todo, err := h.todoService.GetTodo(c.Request().Context(), id)
	if err != nil {
		return notFoundOr(err, entities.ErrTodoNotFound, "Failed to load todo")
	}
	return c.JSON(http.StatusOK, todo)
}

// UpdateTodo handles a task update
func (h *TodoHandler) UpdateTodo(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req ports.UpdateTodoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	todo, err := h.todoService.UpdateTodo(c.Request().Context(), id, req)
	if err != nil {
		return notFoundOr(err, entities.ErrTodoNotFound, "Failed to update todo")
	}
	return c.JSON(http.StatusOK, todo)
}

// DeleteTodo removes a task
func (h *TodoHandler) DeleteTodo(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.todoService.DeleteTodo(c.Request().Context(), id); err != nil {
		return notFoundOr(err, entities.ErrTodoNotFound, "Failed to delete todo")
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Todo deleted"})
}

// ListTodos returns tasks, optionally filtered by status
func (h *TodoHandler) ListTodos(c echo.Context) error {
	var filter ports.TodoFilter
	if v := c.QueryParam("status"); v != "" {
		status := entities.TodoStatus(v)
		if !status.IsValid() {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid status")
		}
		filter.Status = &status
	}

	todos, err := h.todoService.ListTodos(c.Request().Context(), filter)
	if err != nil {
		h.logger.Error("List todos failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load todos")
	}
	return c.JSON(http.StatusOK, todos)
}
