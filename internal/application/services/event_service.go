package services

import (
	"context"
	"fmt"
	"time"

	"github.com/scholartrack/core/internal/domain/entities"
	"github.com/scholartrack/core/internal/infrastructure/logger"
	"github.com/scholartrack/core/internal/ports"
)

// EventService handles event tracking operations
type EventService struct {
	eventRepo ports.EventRepository
	logger    *logger.Logger
}

// NewEventService creates a new event service
func NewEventService(eventRepo ports.EventRepository, logger *logger.Logger) *EventService {
	return &EventService{
		eventRepo: eventRepo,
		logger:    logger,
	}
}

// CreateEvent creates a new tracked event
func (s *EventService) CreateEvent(ctx context.Context, req ports.CreateEventRequest) (*entities.Event, error) {
	if !req.Category.IsValid() {
		return nil, entities.ErrInvalidCategory
	}

	status := req.Status
	if status == "" {
		status = entities.EventStatusUpcoming
	}
	if !status.IsValid() {
		return nil, entities.ErrInvalidStatus
	}

	event := &entities.Event{
		Title:              req.Title,
		Category:           req.Category,
		Edition:            req.Edition,
		Website:            req.Website,
		Association:        req.Association,
		RelevanceTags:      req.RelevanceTags,
		Location:           req.Location,
		City:               req.City,
		SubmissionDeadline: dateOnlyPtr(req.SubmissionDeadline),
		NotificationDate:   dateOnlyPtr(req.NotificationDate),
		CameraReadyDate:    dateOnlyPtr(req.CameraReadyDate),
		EventStartDate:     dateOnlyPtr(req.EventStartDate),
		EventEndDate:       dateOnlyPtr(req.EventEndDate),
		Description:        req.Description,
		Notes:              req.Notes,
		Status:             status,
		Pinned:             req.Pinned,
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	s.logger.Info("Event created", "event_id", event.ID, "title", event.Title)
	return event, nil
}

// GetEvent retrieves an event by ID
func (s *EventService) GetEvent(ctx context.Context, id int) (*entities.Event, error) {
	return s.eventRepo.GetByID(ctx, id)
}

// UpdateEvent updates an event's fields
func (s *EventService) UpdateEvent(ctx context.Context, id int, req ports.UpdateEventRequest) (*entities.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Category != nil {
		if !req.Category.IsValid() {
			return nil, entities.ErrInvalidCategory
		}
		event.Category = *req.Category
	}
	if req.Edition != nil {
		event.Edition = req.Edition
	}
	if req.Website != nil {
		event.Website = req.Website
	}
	if req.Association != nil {
		event.Association = req.Association
	}
	if req.RelevanceTags != nil {
		event.RelevanceTags = req.RelevanceTags
	}
	if req.Location != nil {
		event.Location = req.Location
	}
	if req.City != nil {
		event.City = req.City
	}
	if req.SubmissionDeadline != nil {
		event.SubmissionDeadline = dateOnlyPtr(req.SubmissionDeadline)
	}
	if req.NotificationDate != nil {
		event.NotificationDate = dateOnlyPtr(req.NotificationDate)
	}
	if req.CameraReadyDate != nil {
		event.CameraReadyDate = dateOnlyPtr(req.CameraReadyDate)
	}
	if req.EventStartDate != nil {
		event.EventStartDate = dateOnlyPtr(req.EventStartDate)
	}
	if req.EventEndDate != nil {
		event.EventEndDate = dateOnlyPtr(req.EventEndDate)
	}
	if req.Description != nil {
		event.Description = req.Description
	}
	if req.Notes != nil {
		event.Notes = req.Notes
	}
	if req.Status != nil {
		if !req.Status.IsValid() {
			return nil, entities.ErrInvalidStatus
		}
		event.Status = *req.Status
	}
	if req.Pinned != nil {
		event.Pinned = *req.Pinned
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	s.logger.Info("Event updated", "event_id", event.ID, "title", event.Title)
	return event, nil
}

// DeleteEvent removes an event
func (s *EventService) DeleteEvent(ctx context.Context, id int) error {
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Event deleted", "event_id", id)
	return nil
}

// ListEvents returns events matching the filter
func (s *EventService) ListEvents(ctx context.Context, filter ports.EventFilter) ([]*entities.Event, error) {
	return s.eventRepo.List(ctx, filter)
}

// TogglePin flips an event's pinned flag
func (s *EventService) TogglePin(ctx context.Context, id int) (*entities.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	event.Pinned = !event.Pinned
	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to toggle pin: %w", err)
	}
	return event, nil
}

// UpcomingDeadlines returns events with a submission deadline within the next
// withinDays days, ascending.
func (s *EventService) UpcomingDeadlines(ctx context.Context, withinDays, limit int) ([]*entities.Event, error) {
	today := entities.DateOnly(time.Now())
	return s.eventRepo.ListByDeadlineRange(ctx, today, today.AddDate(0, 0, withinDays), limit)
}

// Categories returns the distinct categories in use
func (s *EventService) Categories(ctx context.Context) ([]entities.EventCategory, error) {
	return s.eventRepo.Categories(ctx)
}

// dateOnlyPtr truncates an optional timestamp to a calendar date.
func dateOnlyPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := entities.DateOnly(*t)
	return &d
}
