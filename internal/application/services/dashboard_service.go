package services

import (
	"context"
	"fmt"
	"time"

	"github.com/scholartrack/core/internal/domain/entities"
	"github.com/scholartrack/core/internal/infrastructure/logger"
	"github.com/scholartrack/core/internal/ports"
)

// Landing-page limits.
const (
	dashboardDeadlineWindow = 60
	dashboardDeadlineLimit  = 15
	dashboardTodoLimit      = 10
	dashboardMilestoneLimit = 5
)

// DashboardService aggregates the landing-page summary
type DashboardService struct {
	eventRepo     ports.EventRepository
	todoRepo      ports.TodoRepository
	milestoneRepo ports.MilestoneRepository
	logger        *logger.Logger
	now           func() time.Time
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(eventRepo ports.EventRepository, todoRepo ports.TodoRepository, milestoneRepo ports.MilestoneRepository, logger *logger.Logger) *DashboardService {
	return &DashboardService{
		eventRepo:     eventRepo,
		todoRepo:      todoRepo,
		milestoneRepo: milestoneRepo,
		logger:        logger,
		now:           time.Now,
	}
}

// GetDashboard collects the summary lists and counts in one response
func (s *DashboardService) GetDashboard(ctx context.Context) (*ports.DashboardResponse, error) {
	today := entities.DateOnly(s.now())

	deadlines, err := s.eventRepo.ListByDeadlineRange(ctx, today,
		today.AddDate(0, 0, dashboardDeadlineWindow), dashboardDeadlineLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load upcoming deadlines: %w", err)
	}

	pinned, err := s.eventRepo.ListPinned(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load pinned events: %w", err)
	}

	openCFPs, err := s.eventRepo.ListByStatus(ctx, entities.EventStatusCFPOpen)
	if err != nil {
		return nil, fmt.Errorf("failed to load open CFPs: %w", err)
	}

	todos, err := s.todoRepo.ListPending(ctx, dashboardTodoLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load pending todos: %w", err)
	}

	milestones, err := s.milestoneRepo.ListOpen(ctx, dashboardMilestoneLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load milestones: %w", err)
	}

	eventCount, err := s.eventRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count events: %w", err)
	}

	overdue, err := s.todoRepo.CountOverdue(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("failed to count overdue todos: %w", err)
	}

	return &ports.DashboardResponse{
		UpcomingDeadlines: deadlines,
		PinnedEvents:      pinned,
		OpenCFPs:          openCFPs,
		PendingTodos:      todos,
		OpenMilestones:    milestones,
		Counts: ports.DashboardCounts{
			Events:       eventCount,
			OverdueTodos: overdue,
		},
	}, nil
}
