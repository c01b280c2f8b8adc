package services

import (
	"context"
	"fmt"
	"time"

	"github.com/scholartrack/core/internal/domain/entities"
	"github.com/scholartrack/core/internal/infrastructure/logger"
	"github.com/scholartrack/core/internal/ports"
)

// JournalService handles daily logs and PhD milestones
type JournalService struct {
	logRepo       ports.DailyLogRepository
	milestoneRepo ports.MilestoneRepository
	logger        *logger.Logger
	now           func() time.Time
}

// NewJournalService creates a new journal service
func NewJournalService(logRepo ports.DailyLogRepository, milestoneRepo ports.MilestoneRepository, logger *logger.Logger) *JournalService {
	return &JournalService{
		logRepo:       logRepo,
		milestoneRepo: milestoneRepo,
		logger:        logger,
		now:           time.Now,
	}
}

// UpsertDailyLog creates or replaces the log entry for its date. There is at
// most one entry per calendar day.
func (s *JournalService) UpsertDailyLog(ctx context.Context, req ports.UpsertDailyLogRequest) (*entities.DailyLog, error) {
	if req.LogDate.IsZero() {
		return nil, entities.ErrInvalidDate
	}

	log := &entities.DailyLog{
		LogDate:     entities.DateOnly(req.LogDate),
		Content:     req.Content,
		HoursWorked: req.HoursWorked,
		Mood:        req.Mood,
		Tags:        req.Tags,
	}

	if err := s.logRepo.Upsert(ctx, log); err != nil {
		return nil, fmt.Errorf("failed to save daily log: %w", err)
	}

	s.logger.Info("Daily log saved", "log_date", log.LogDate.Format("2006-01-02"))
	return log, nil
}

// GetDailyLog retrieves the log for a calendar day
func (s *JournalService) GetDailyLog(ctx context.Context, day time.Time) (*entities.DailyLog, error) {
	return s.logRepo.GetByDate(ctx, entities.DateOnly(day))
}

// ListDailyLogs returns logs newest first
func (s *JournalService) ListDailyLogs(ctx context.Context, limit int) ([]*entities.DailyLog, error) {
	return s.logRepo.List(ctx, limit)
}

// CreateMilestone adds a milestone at the end of the ordering
func (s *JournalService) CreateMilestone(ctx context.Context, req ports.CreateMilestoneRequest) (*entities.Milestone, error) {
	milestone := &entities.Milestone{
		Title:       req.Title,
		Description: req.Description,
		TargetDate:  dateOnlyPtr(req.TargetDate),
		Status:      entities.MilestoneStatusPending,
		Category:    req.Category,
	}

	if err := s.milestoneRepo.Create(ctx, milestone); err != nil {
		return nil, fmt.Errorf("failed to create milestone: %w", err)
	}

	s.logger.Info("Milestone created", "milestone_id", milestone.ID, "title", milestone.Title)
	return milestone, nil
}

// UpdateMilestone updates a milestone. A transition to completed stamps the
// completion date once.
func (s *JournalService) UpdateMilestone(ctx context.Context, id int, req ports.UpdateMilestoneRequest) (*entities.Milestone, error) {
	milestone, err := s.milestoneRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		milestone.Title = *req.Title
	}
	if req.Description != nil {
		milestone.Description = req.Description
	}
	if req.TargetDate != nil {
		milestone.TargetDate = dateOnlyPtr(req.TargetDate)
	}
	if req.Category != nil {
		milestone.Category = req.Category
	}
	if req.SortOrder != nil {
		milestone.SortOrder = *req.SortOrder
	}
	if req.Status != nil {
		if !req.Status.IsValid() {
			return nil, entities.ErrInvalidStatus
		}
		milestone.MarkStatus(*req.Status, s.now())
	}

	if err := s.milestoneRepo.Update(ctx, milestone); err != nil {
		return nil, fmt.Errorf("failed to update milestone: %w", err)
	}
	return milestone, nil
}

// DeleteMilestone removes a milestone
func (s *JournalService) DeleteMilestone(ctx context.Context, id int) error {
	return s.milestoneRepo.Delete(ctx, id)
}

// ListMilestones returns milestones in manual order
func (s *JournalService) ListMilestones(ctx context.Context) ([]*entities.Milestone, error) {
	return s.milestoneRepo.List(ctx)
}
