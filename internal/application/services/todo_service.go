package services

import (
	"context"
	"fmt"

	"github.com/scholartrack/core/internal/domain/entities"
	"github.com/scholartrack/core/internal/infrastructure/logger"
	"github.com/scholartrack/core/internal/ports"
)

// TodoService handles task operations
type TodoService struct {
	todoRepo ports.TodoRepository
	logger   *logger.Logger
}

// NewTodoService creates a new todo service
func NewTodoService(todoRepo ports.TodoRepository, logger *logger.Logger) *TodoService {
	return &TodoService{
		todoRepo: todoRepo,
		logger:   logger,
	}
}

// CreateTodo creates a new task
func (s *TodoService) CreateTodo(ctx context.Context, req ports.CreateTodoRequest) (*entities.Todo, error) {
	priority := req.Priority
	if priority == "" {
		priority = entities.PriorityMedium
	}
	if !priority.IsValid() {
		return nil, entities.ErrInvalidPriority
	}

	todo := &entities.Todo{
		Title:       req.Title,
		Description: req.Description,
		Priority:    priority,
		DueDate:     dateOnlyPtr(req.DueDate),
		Status:      entities.TodoStatusPending,
		Category:    req.Category,
	}

	if err := s.todoRepo.Create(ctx, todo); err != nil {
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}

	s.logger.Info("Todo created", "todo_id", todo.ID, "title", todo.Title)
	return todo, nil
}

// GetTodo retrieves a task by ID
func (s *TodoService) GetTodo(ctx context.Context, id int) (*entities.Todo, error) {
	return s.todoRepo.GetByID(ctx, id)
}

// UpdateTodo updates a task's fields
func (s *TodoService) UpdateTodo(ctx context.Context, id int, req ports.UpdateTodoRequest) (*entities.Todo, error) {
	todo, err := s.todoRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		todo.Title = *req.Title
	}
	if req.Description != nil {
		todo.Description = req.Description
	}
	if req.Priority != nil {
		if !req.Priority.IsValid() {
			return nil, entities.ErrInvalidPriority
		}
		todo.Priority = *req.Priority
	}
	if req.DueDate != nil {
		todo.DueDate = dateOnlyPtr(req.DueDate)
	}
	if req.Status != nil {
		if !req.Status.IsValid() {
			return nil, entities.ErrInvalidStatus
		}
		todo.Status = *req.Status
	}
	if req.Category != nil {
		todo.Category = req.Category
	}

	if err := s.todoRepo.Update(ctx, todo); err != nil {
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}
	return todo, nil
}

// DeleteTodo removes a task
func (s *TodoService) DeleteTodo(ctx context.Context, id int) error {
	if err := s.todoRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Todo deleted", "todo_id", id)
	return nil
}

// ListTodos returns tasks matching the filter
func (s *TodoService) ListTodos(ctx context.Context, filter ports.TodoFilter) ([]*entities.Todo, error) {
	return s.todoRepo.List(ctx, filter)
}
