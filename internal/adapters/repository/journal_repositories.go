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

// DailyLogRepositoryImpl implements the DailyLogRepository interface
type DailyLogRepositoryImpl struct {
	db *sqlx.DB
}

// NewDailyLogRepository creates a new daily log repository
func NewDailyLogRepository(db *sqlx.DB) ports.DailyLogRepository {
	return &DailyLogRepositoryImpl{db: db}
}

func (r *DailyLogRepositoryImpl) Upsert(ctx context.Context, log *entities.DailyLog) error {
	query := `
		INSERT INTO daily_logs (log_date, content, hours_worked, mood, tags)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (log_date) DO UPDATE
		SET content = EXCLUDED.content, hours_worked = EXCLUDED.hours_worked,
			mood = EXCLUDED.mood, tags = EXCLUDED.tags, updated_at = CURRENT_TIMESTAMP
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		entities.DateOnly(log.LogDate), log.Content, log.HoursWorked, log.Mood, log.Tags,
	).Scan(&log.ID, &log.CreatedAt, &log.UpdatedAt)

	if err != nil {
		return fmt.Errorf("upsert daily log: %w", err)
	}

	return nil
}

func (r *DailyLogRepositoryImpl) GetByDate(ctx context.Context, day time.Time) (*entities.DailyLog, error) {
	query := `SELECT id, log_date, content, hours_worked, mood, tags, created_at, updated_at
		FROM daily_logs WHERE log_date = $1`

	var log entities.DailyLog
	err := r.db.GetContext(ctx, &log, query, entities.DateOnly(day))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrDailyLogNotFound
		}
		return nil, fmt.Errorf("get daily log by date: %w", err)
	}

	return &log, nil
}

func (r *DailyLogRepositoryImpl) List(ctx context.Context, limit int) ([]*entities.DailyLog, error) {
	query := `SELECT id, log_date, content, hours_worked, mood, tags, created_at, updated_at
		FROM daily_logs ORDER BY log_date DESC`
	args := []interface{}{}

	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	var logs []*entities.DailyLog
	err := r.db.SelectContext(ctx, &logs, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list daily logs: %w", err)
	}

	return logs, nil
}

// MilestoneRepositoryImpl implements the MilestoneRepository interface
type MilestoneRepositoryImpl struct {
	db *sqlx.DB
}

// NewMilestoneRepository creates a new milestone repository
func NewMilestoneRepository(db *sqlx.DB) ports.MilestoneRepository {
	return &MilestoneRepositoryImpl{db: db}
}

func (r *MilestoneRepositoryImpl) Create(ctx context.Context, milestone *entities.Milestone) error {
	// New milestones go to the end of the manual ordering.
	query := `
		INSERT INTO phd_milestones (title, description, target_date, completed_date, status, category, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6,
			(SELECT COALESCE(MAX(sort_order), 0) + 1 FROM phd_milestones))
		RETURNING id, sort_order, created_at`

	err := r.db.QueryRowContext(ctx, query,
		milestone.Title, milestone.Description, milestone.TargetDate,
		milestone.CompletedDate, milestone.Status, milestone.Category,
	).Scan(&milestone.ID, &milestone.SortOrder, &milestone.CreatedAt)

	if err != nil {
		return fmt.Errorf("create milestone: %w", err)
	}

	return nil
}

func (r *MilestoneRepositoryImpl) GetByID(ctx context.Context, id int) (*entities.Milestone, error) {
	query := `SELECT id, title, description, target_date, completed_date, status, category, sort_order, created_at
		FROM phd_milestones WHERE id = $1`

	var milestone entities.Milestone
	err := r.db.GetContext(ctx, &milestone, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrMilestoneNotFound
		}
		return nil, fmt.Errorf("get milestone by id: %w", err)
	}

	return &milestone, nil
}

func (r *MilestoneRepositoryImpl) Update(ctx context.Context, milestone *entities.Milestone) error {
	query := `
		UPDATE phd_milestones
		SET title = $2, description = $3, target_date = $4, completed_date = $5,
			status = $6, category = $7, sort_order = $8
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		milestone.ID, milestone.Title, milestone.Description, milestone.TargetDate,
		milestone.CompletedDate, milestone.Status, milestone.Category, milestone.SortOrder,
	)
	if err != nil {
		return fmt.Errorf("update milestone: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return entities.ErrMilestoneNotFound
	}

	return nil
}

func (r *MilestoneRepositoryImpl) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM phd_milestones WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete milestone: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return entities.ErrMilestoneNotFound
	}

	return nil
}

func (r *MilestoneRepositoryImpl) List(ctx context.Context) ([]*entities.Milestone, error) {
	query := `SELECT id, title, description, target_date, completed_date, status, category, sort_order, created_at
		FROM phd_milestones
		ORDER BY sort_order ASC, target_date ASC NULLS LAST`

	var milestones []*entities.Milestone
	err := r.db.SelectContext(ctx, &milestones, query)
	if err != nil {
		return nil, fmt.Errorf("list milestones: %w", err)
	}

	return milestones, nil
}

func (r *MilestoneRepositoryImpl) ListOpen(ctx context.Context, limit int) ([]*entities.Milestone, error) {
	query := `SELECT id, title, description, target_date, completed_date, status, category, sort_order, created_at
		FROM phd_milestones
		WHERE status IN ('pending', 'in_progress')
		ORDER BY target_date ASC NULLS LAST`
	args := []interface{}{}

	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	var milestones []*entities.Milestone
	err := r.db.SelectContext(ctx, &milestones, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list open milestones: %w", err)
	}

	return milestones, nil
}
