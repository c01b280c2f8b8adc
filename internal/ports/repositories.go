package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/scholartrack/core/internal/domain/entities"
)

// EventRepository defines the interface for event data operations
type EventRepository interface {
	Create(ctx context.Context, event *entities.Event) error
	GetByID(ctx context.Context, id int) (*entities.Event, error)
	Update(ctx context.Context, event *entities.Event) error
	Delete(ctx context.Context, id int) error
	List(ctx context.Context, filter EventFilter) ([]*entities.Event, error)
	Count(ctx context.Context) (int64, error)
	CountByCategory(ctx context.Context, category entities.EventCategory) (int64, error)
	ListPinned(ctx context.Context) ([]*entities.Event, error)
	ListByStatus(ctx context.Context, status entities.EventStatus) ([]*entities.Event, error)
	// ListByDeadlineRange returns events with a non-null submission deadline
	// in [from, to], ascending by deadline.
	ListByDeadlineRange(ctx context.Context, from, to time.Time, limit int) ([]*entities.Event, error)
	// ListByDeadline returns events whose submission deadline equals day exactly.
	ListByDeadline(ctx context.Context, day time.Time) ([]*entities.Event, error)
	Categories(ctx context.Context) ([]entities.EventCategory, error)
}

// ResearcherRepository defines the interface for researcher data operations
type ResearcherRepository interface {
	Create(ctx context.Context, researcher *entities.Researcher) error
	GetByID(ctx context.Context, id int) (*entities.Researcher, error)
	Update(ctx context.Context, researcher *entities.Researcher) error
	Delete(ctx context.Context, id int) error
	List(ctx context.Context, search string) ([]*entities.Researcher, error)
}

// ResourceRepository defines the interface for resource data operations
type ResourceRepository interface {
	Create(ctx context.Context, resource *entities.Resource) error
	GetByID(ctx context.Context, id int) (*entities.Resource, error)
	Update(ctx context.Context, resource *entities.Resource) error
	Delete(ctx context.Context, id int) error
	List(ctx context.Context, filter ResourceFilter) ([]*entities.Resource, error)
	Types(ctx context.Context) ([]entities.ResourceType, error)
}

// TodoRepository defines the interface for todo data operations
type TodoRepository interface {
	Create(ctx context.Context, todo *entities.Todo) error
	GetByID(ctx context.Context, id int) (*entities.Todo, error)
	Update(ctx context.Context, todo *entities.Todo) error
	Delete(ctx context.Context, id int) error
	List(ctx context.Context, filter TodoFilter) ([]*entities.Todo, error)
	// ListPending returns todos with status pending or in_progress, ordered
	// by due date ascending with nulls last, then priority high to low.
	ListPending(ctx context.Context, limit int) ([]*entities.Todo, error)
	CountOverdue(ctx context.Context, today time.Time) (int64, error)
}

// DailyLogRepository defines the interface for daily log data operations
type DailyLogRepository interface {
	// Upsert creates or updates the log row for log.LogDate.
	Upsert(ctx context.Context, log *entities.DailyLog) error
	GetByDate(ctx context.Context, day time.Time) (*entities.DailyLog, error)
	List(ctx context.Context, limit int) ([]*entities.DailyLog, error)
}

// MilestoneRepository defines the interface for milestone data operations
type MilestoneRepository interface {
	// Create assigns the next sort order (max+1) before inserting.
	Create(ctx context.Context, milestone *entities.Milestone) error
	GetByID(ctx context.Context, id int) (*entities.Milestone, error)
	Update(ctx context.Context, milestone *entities.Milestone) error
	Delete(ctx context.Context, id int) error
	List(ctx context.Context) ([]*entities.Milestone, error)
	ListOpen(ctx context.Context, limit int) ([]*entities.Milestone, error)
}

// SettingRepository defines the interface for the string-keyed settings store
type SettingRepository interface {
	Get(ctx context.Context, key string) (string, error)
	// GetDefault returns fallback when the key is absent.
	GetDefault(ctx context.Context, key, fallback string) string
	Set(ctx context.Context, key, value string) error
	GetAll(ctx context.Context, keys []string) (map[string]string, error)
}

// UserRepository defines the interface for the dashboard owner account
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	First(ctx context.Context) (*entities.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

// Filter types for repository queries
type EventFilter struct {
	Category *entities.EventCategory
	Location *string
	Status   *entities.EventStatus
	Search   string
	SortBy   string // deadline, name, date_added
}

type ResourceFilter struct {
	ResourceType *entities.ResourceType
	Search       string
}

type TodoFilter struct {
	Status *entities.TodoStatus
}
