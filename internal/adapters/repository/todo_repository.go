package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/scholartrack/core/internal/domain/entities"
	"github.com/scholartrack/core/internal/ports"
)

const todoColumns = `id, title, description, priority, due_date, status, category, created_at, updated_at`

// priorityRank orders priorities high first in SQL. Unknown values sort last.
const priorityRank = `CASE priority WHEN 'high' THEN 0 WHEN 'medium' THEN 1 WHEN 'low' THEN 2 ELSE 3 END`

// TodoRepositoryImpl implements the TodoRepository interface
type TodoRepositoryImpl struct {
	db *sqlx.DB
}

// NewTodoRepository creates a new todo repository
func NewTodoRepository(db *sqlx.DB) ports.TodoRepository {
	return &TodoRepositoryImpl{db: db}
}

func (r *TodoRepositoryImpl) Create(ctx context.Context, todo *entities.Todo) error {
	query := `
		INSERT INTO todos (title, description, priority, due_date, status, category)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		todo.Title, todo.Description, todo.Priority, todo.DueDate, todo.Status, todo.Category,
	).Scan(&todo.ID, &todo.CreatedAt, &todo.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create todo: %w", err)
	}

	return nil
}

func (r *TodoRepositoryImpl) GetByID(ctx context.Context, id int) (*entities.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE id = $1`

	var todo entities.Todo
	err := r.db.GetContext(ctx, &todo, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrTodoNotFound
		}
		return nil, fmt.Errorf("get todo by id: %w", err)
	}

	return &todo, nil
}

func (r *TodoRepositoryImpl) Update(ctx context.Context, todo *entities.Todo) error {
	query := `
		UPDATE todos
		SET title = $2, description = $3, priority = $4, due_date = $5, status = $6,
			category = $7, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query,
		todo.ID, todo.Title, todo.Description, todo.Priority, todo.DueDate,
		todo.Status, todo.Category,
	).Scan(&todo.UpdatedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return entities.ErrTodoNotFound
		}
		return fmt.Errorf("update todo: %w", err)
	}

	return nil
}

func (r *TodoRepositoryImpl) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM todos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return entities.ErrTodoNotFound
	}

	return nil
}

func (r *TodoRepositoryImpl) List(ctx context.Context, filter ports.TodoFilter) ([]*entities.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos`
	args := []interface{}{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += " WHERE status = $1"
	}

	query += ` ORDER BY status ASC, ` + priorityRank + `, due_date ASC NULLS LAST`

	var todos []*entities.Todo
	err := r.db.SelectContext(ctx, &todos, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}

	return todos, nil
}

func (r *TodoRepositoryImpl) ListPending(ctx context.Context, limit int) ([]*entities.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos
		WHERE status IN ('pending', 'in_progress')
		ORDER BY due_date ASC NULLS LAST, ` + priorityRank
	args := []interface{}{}

	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	var todos []*entities.Todo
	err := r.db.SelectContext(ctx, &todos, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list pending todos: %w", err)
	}

	return todos, nil
}

func (r *TodoRepositoryImpl) CountOverdue(ctx context.Context, today time.Time) (int64, error) {
	query := `SELECT COUNT(*) FROM todos WHERE due_date < $1 AND status != 'completed'`

	var count int64
	err := r.db.GetContext(ctx, &count, query, entities.DateOnly(today))
	if err != nil {
		return 0, fmt.Errorf("count overdue todos: %w", err)
	}

	return count, nil
}
