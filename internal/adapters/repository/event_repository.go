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

const eventColumns = `id, title, category, edition, website, association, relevance_tags,
	location, city, submission_deadline, notification_date, camera_ready_date,
	event_start_date, event_end_date, description, notes, status, pinned,
	created_at, updated_at`

// EventRepositoryImpl implements the EventRepository interface
type EventRepositoryImpl struct {
	db *sqlx.DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *sqlx.DB) ports.EventRepository {
	return &EventRepositoryImpl{db: db}
}

func (r *EventRepositoryImpl) Create(ctx context.Context, event *entities.Event) error {
	query := `
		INSERT INTO events (title, category, edition, website, association, relevance_tags,
			location, city, submission_deadline, notification_date, camera_ready_date,
			event_start_date, event_end_date, description, notes, status, pinned)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		event.Title, event.Category, event.Edition, event.Website, event.Association,
		event.RelevanceTags, event.Location, event.City, event.SubmissionDeadline,
		event.NotificationDate, event.CameraReadyDate, event.EventStartDate,
		event.EventEndDate, event.Description, event.Notes, event.Status, event.Pinned,
	).Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create event: %w", err)
	}

	return nil
}

func (r *EventRepositoryImpl) GetByID(ctx context.Context, id int) (*entities.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	var event entities.Event
	err := r.db.GetContext(ctx, &event, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrEventNotFound
		}
		return nil, fmt.Errorf("get event by id: %w", err)
	}

	return &event, nil
}

func (r *EventRepositoryImpl) Update(ctx context.Context, event *entities.Event) error {
	query := `
		UPDATE events
		SET title = $2, category = $3, edition = $4, website = $5, association = $6,
			relevance_tags = $7, location = $8, city = $9, submission_deadline = $10,
			notification_date = $11, camera_ready_date = $12, event_start_date = $13,
			event_end_date = $14, description = $15, notes = $16, status = $17,
			pinned = $18, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query,
		event.ID, event.Title, event.Category, event.Edition, event.Website,
		event.Association, event.RelevanceTags, event.Location, event.City,
		event.SubmissionDeadline, event.NotificationDate, event.CameraReadyDate,
		event.EventStartDate, event.EventEndDate, event.Description, event.Notes,
		event.Status, event.Pinned,
	).Scan(&event.UpdatedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return entities.ErrEventNotFound
		}
		return fmt.Errorf("update event: %w", err)
	}

	return nil
}

func (r *EventRepositoryImpl) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return entities.ErrEventNotFound
	}

	return nil
}

func (r *EventRepositoryImpl) List(ctx context.Context, filter ports.EventFilter) ([]*entities.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE 1=1`
	args := []interface{}{}

	if filter.Category != nil {
		args = append(args, *filter.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if filter.Location != nil {
		args = append(args, *filter.Location)
		query += fmt.Sprintf(" AND location = $%d", len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		query += fmt.Sprintf(" AND (title ILIKE $%d OR relevance_tags ILIKE $%d OR description ILIKE $%d)", n, n, n)
	}

	switch filter.SortBy {
	case "name":
		query += " ORDER BY title ASC"
	case "date_added":
		query += " ORDER BY created_at DESC"
	default:
		query += " ORDER BY submission_deadline ASC NULLS LAST"
	}

	var events []*entities.Event
	err := r.db.SelectContext(ctx, &events, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	return events, nil
}

func (r *EventRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM events`)
	if err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}

	return count, nil
}

func (r *EventRepositoryImpl) CountByCategory(ctx context.Context, category entities.EventCategory) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM events WHERE category = $1`, category)
	if err != nil {
		return 0, fmt.Errorf("count events by category: %w", err)
	}

	return count, nil
}

func (r *EventRepositoryImpl) ListPinned(ctx context.Context) ([]*entities.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE pinned ORDER BY submission_deadline ASC NULLS LAST`

	var events []*entities.Event
	err := r.db.SelectContext(ctx, &events, query)
	if err != nil {
		return nil, fmt.Errorf("list pinned events: %w", err)
	}

	return events, nil
}

func (r *EventRepositoryImpl) ListByStatus(ctx context.Context, status entities.EventStatus) ([]*entities.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE status = $1 ORDER BY submission_deadline ASC NULLS LAST`

	var events []*entities.Event
	err := r.db.SelectContext(ctx, &events, query, status)
	if err != nil {
		return nil, fmt.Errorf("list events by status: %w", err)
	}

	return events, nil
}

func (r *EventRepositoryImpl) ListByDeadlineRange(ctx context.Context, from, to time.Time, limit int) ([]*entities.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events
		WHERE submission_deadline IS NOT NULL
			AND submission_deadline >= $1
			AND submission_deadline <= $2
		ORDER BY submission_deadline ASC`
	args := []interface{}{entities.DateOnly(from), entities.DateOnly(to)}

	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	var events []*entities.Event
	err := r.db.SelectContext(ctx, &events, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events by deadline range: %w", err)
	}

	return events, nil
}

func (r *EventRepositoryImpl) ListByDeadline(ctx context.Context, day time.Time) ([]*entities.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE submission_deadline = $1`

	var events []*entities.Event
	err := r.db.SelectContext(ctx, &events, query, entities.DateOnly(day))
	if err != nil {
		return nil, fmt.Errorf("list events by deadline: %w", err)
	}

	return events, nil
}

func (r *EventRepositoryImpl) Categories(ctx context.Context) ([]entities.EventCategory, error) {
	var categories []entities.EventCategory
	err := r.db.SelectContext(ctx, &categories, `SELECT DISTINCT category FROM events ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("list event categories: %w", err)
	}

	return categories, nil
}
