package entities

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrEventNotFound      = errors.New("event not found")
	ErrResearcherNotFound = errors.New("researcher not found")
	ErrResourceNotFound   = errors.New("resource not found")
	ErrTodoNotFound       = errors.New("todo not found")
	ErrDailyLogNotFound   = errors.New("daily log not found")
	ErrMilestoneNotFound  = errors.New("milestone not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCategory    = errors.New("invalid category")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrInvalidPriority    = errors.New("invalid priority")
	ErrInvalidDate        = errors.New("invalid date")
	ErrUnauthorized       = errors.New("unauthorized")
)

// Enums and types
type EventCategory string

const (
	EventCategoryConference      EventCategory = "conference"
	EventCategoryJournal         EventCategory = "journal"
	EventCategoryWorkshop        EventCategory = "workshop"
	EventCategorySeminar         EventCategory = "seminar"
	EventCategorySchool          EventCategory = "school"
	EventCategoryWebinar         EventCategory = "webinar"
	EventCategoryTalk            EventCategory = "talk"
	EventCategoryCallForChapters EventCategory = "call_for_chapters"
)

type EventStatus string

const (
	EventStatusUpcoming  EventStatus = "upcoming"
	EventStatusCFPOpen   EventStatus = "cfp_open"
	EventStatusCFPClosed EventStatus = "cfp_closed"
	EventStatusOngoing   EventStatus = "ongoing"
	EventStatusPast      EventStatus = "past"
)

type ResourceType string

const (
	ResourceTypeLibrary      ResourceType = "library"
	ResourceTypeCompany      ResourceType = "company"
	ResourceTypePlatform     ResourceType = "platform"
	ResourceTypeFramework    ResourceType = "framework"
	ResourceTypeCodeRepo     ResourceType = "code_repo"
	ResourceTypeOrganisation ResourceType = "organisation"
)

type TodoStatus string

const (
	TodoStatusPending    TodoStatus = "pending"
	TodoStatusInProgress TodoStatus = "in_progress"
	TodoStatusCompleted  TodoStatus = "completed"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

type MilestoneStatus string

const (
	MilestoneStatusPending    MilestoneStatus = "pending"
	MilestoneStatusInProgress MilestoneStatus = "in_progress"
	MilestoneStatusCompleted  MilestoneStatus = "completed"
	MilestoneStatusDelayed    MilestoneStatus = "delayed"
)

// Event represents a tracked conference, journal, workshop or similar venue.
// Date fields are calendar dates without a time component.
type Event struct {
	ID                 int           `json:"id" db:"id"`
	Title              string        `json:"title" db:"title"`
	Category           EventCategory `json:"category" db:"category"`
	Edition            *string       `json:"edition" db:"edition"`
	Website            *string       `json:"website" db:"website"`
	Association        *string       `json:"association" db:"association"`
	RelevanceTags      *string       `json:"relevance_tags" db:"relevance_tags"`
	Location           *string       `json:"location" db:"location"`
	City               *string       `json:"city" db:"city"`
	SubmissionDeadline *time.Time    `json:"submission_deadline" db:"submission_deadline"`
	NotificationDate   *time.Time    `json:"notification_date" db:"notification_date"`
	CameraReadyDate    *time.Time    `json:"camera_ready_date" db:"camera_ready_date"`
	EventStartDate     *time.Time    `json:"event_start_date" db:"event_start_date"`
	EventEndDate       *time.Time    `json:"event_end_date" db:"event_end_date"`
	Description        *string       `json:"description" db:"description"`
	Notes              *string       `json:"notes" db:"notes"`
	Status             EventStatus   `json:"status" db:"status"`
	Pinned             bool          `json:"pinned" db:"pinned"`
	CreatedAt          time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at" db:"updated_at"`
}

// Researcher represents a contact in the field.
type Researcher struct {
	ID            int       `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Website       *string   `json:"website" db:"website"`
	Affiliation   *string   `json:"affiliation" db:"affiliation"`
	ResearchAreas *string   `json:"research_areas" db:"research_areas"`
	Notes         *string   `json:"notes" db:"notes"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// Resource represents a library, company, platform, framework, code repo or organisation.
type Resource struct {
	ID           int          `json:"id" db:"id"`
	Name         string       `json:"name" db:"name"`
	ResourceType ResourceType `json:"resource_type" db:"resource_type"`
	Website      *string      `json:"website" db:"website"`
	Description  *string      `json:"description" db:"description"`
	Tags         *string      `json:"tags" db:"tags"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
}

// Todo represents a task item.
type Todo struct {
	ID          int        `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description *string    `json:"description" db:"description"`
	Priority    Priority   `json:"priority" db:"priority"`
	DueDate     *time.Time `json:"due_date" db:"due_date"`
	Status      TodoStatus `json:"status" db:"status"`
	Category    *string    `json:"category" db:"category"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// DailyLog represents the work log for a single calendar day.
// At most one log exists per log_date.
type DailyLog struct {
	ID          int       `json:"id" db:"id"`
	LogDate     time.Time `json:"log_date" db:"log_date"`
	Content     *string   `json:"content" db:"content"`
	HoursWorked float64   `json:"hours_worked" db:"hours_worked"`
	Mood        *string   `json:"mood" db:"mood"`
	Tags        *string   `json:"tags" db:"tags"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Milestone represents a PhD milestone with manual ordering.
type Milestone struct {
	ID            int             `json:"id" db:"id"`
	Title         string          `json:"title" db:"title"`
	Description   *string         `json:"description" db:"description"`
	TargetDate    *time.Time      `json:"target_date" db:"target_date"`
	CompletedDate *time.Time      `json:"completed_date" db:"completed_date"`
	Status        MilestoneStatus `json:"status" db:"status"`
	Category      *string         `json:"category" db:"category"`
	SortOrder     int             `json:"sort_order" db:"sort_order"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}

// AppSetting is a string-keyed configuration row. Writes are upserts on key.
type AppSetting struct {
	ID    int    `json:"id" db:"id"`
	Key   string `json:"key" db:"key"`
	Value string `json:"value" db:"value"`
}

// User is the single dashboard owner account.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// DateOnly truncates t to midnight UTC so calendar arithmetic ignores the
// time component.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(DateOnly(b).Sub(DateOnly(a)).Hours() / 24)
}

// DaysUntilDeadline returns the days from today to the submission deadline.
// The second return is false when the event has no deadline.
func (e *Event) DaysUntilDeadline(today time.Time) (int, bool) {
	if e.SubmissionDeadline == nil {
		return 0, false
	}
	return DaysBetween(today, *e.SubmissionDeadline), true
}

// IsDeadlineSoon reports whether the deadline is within the next 14 days.
func (e *Event) IsDeadlineSoon(today time.Time) bool {
	d, ok := e.DaysUntilDeadline(today)
	return ok && d >= 0 && d <= 14
}

// IsDeadlinePassed reports whether the deadline is behind today.
func (e *Event) IsDeadlinePassed(today time.Time) bool {
	d, ok := e.DaysUntilDeadline(today)
	return ok && d < 0
}

// IsOverdue reports whether the todo is past due and not completed.
func (t *Todo) IsOverdue(today time.Time) bool {
	if t.DueDate == nil || t.Status == TodoStatusCompleted {
		return false
	}
	return DateOnly(*t.DueDate).Before(DateOnly(today))
}

// MarkStatus transitions a milestone and stamps the completion date when it
// first reaches completed.
func (m *Milestone) MarkStatus(status MilestoneStatus, today time.Time) {
	m.Status = status
	if status == MilestoneStatusCompleted && m.CompletedDate == nil {
		d := DateOnly(today)
		m.CompletedDate = &d
	}
}

func (c EventCategory) IsValid() bool {
	switch c {
	case EventCategoryConference, EventCategoryJournal, EventCategoryWorkshop,
		EventCategorySeminar, EventCategorySchool, EventCategoryWebinar,
		EventCategoryTalk, EventCategoryCallForChapters:
		return true
	default:
		return false
	}
}

func (s EventStatus) IsValid() bool {
	switch s {
	case EventStatusUpcoming, EventStatusCFPOpen, EventStatusCFPClosed,
		EventStatusOngoing, EventStatusPast:
		return true
	default:
		return false
	}
}

func (r ResourceType) IsValid() bool {
	switch r {
	case ResourceTypeLibrary, ResourceTypeCompany, ResourceTypePlatform,
		ResourceTypeFramework, ResourceTypeCodeRepo, ResourceTypeOrganisation:
		return true
	default:
		return false
	}
}

func (s TodoStatus) IsValid() bool {
	switch s {
	case TodoStatusPending, TodoStatusInProgress, TodoStatusCompleted:
		return true
	default:
		return false
	}
}

func (p Priority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

func (s MilestoneStatus) IsValid() bool {
	switch s {
	case MilestoneStatusPending, MilestoneStatusInProgress,
		MilestoneStatusCompleted, MilestoneStatusDelayed:
		return true
	default:
		return false
	}
}
