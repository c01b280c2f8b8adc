package ports

import (
	"context"
	"time"

	"github.com/scholartrack/core/internal/domain/entities"
)

// EventService interface for event tracking operations
type EventService interface {
	CreateEvent(ctx context.Context, req CreateEventRequest) (*entities.Event, error)
	GetEvent(ctx context.Context, id int) (*entities.Event, error)
	UpdateEvent(ctx context.Context, id int, req UpdateEventRequest) (*entities.Event, error)
	DeleteEvent(ctx context.Context, id int) error
	ListEvents(ctx context.Context, filter EventFilter) ([]*entities.Event, error)
	TogglePin(ctx context.Context, id int) (*entities.Event, error)
	UpcomingDeadlines(ctx context.Context, withinDays, limit int) ([]*entities.Event, error)
	Categories(ctx context.Context) ([]entities.EventCategory, error)
}

// TodoService interface for task operations
type TodoService interface {
	CreateTodo(ctx context.Context, req CreateTodoRequest) (*entities.Todo, error)
	GetTodo(ctx context.Context, id int) (*entities.Todo, error)
	UpdateTodo(ctx context.Context, id int, req UpdateTodoRequest) (*entities.Todo, error)
	DeleteTodo(ctx context.Context, id int) error
	ListTodos(ctx context.Context, filter TodoFilter) ([]*entities.Todo, error)
}

// CatalogService interface for researcher and resource directories
type CatalogService interface {
	CreateResearcher(ctx context.Context, req CreateResearcherRequest) (*entities.Researcher, error)
	GetResearcher(ctx context.Context, id int) (*entities.Researcher, error)
	UpdateResearcher(ctx context.Context, id int, req UpdateResearcherRequest) (*entities.Researcher, error)
	DeleteResearcher(ctx context.Context, id int) error
	ListResearchers(ctx context.Context, search string) ([]*entities.Researcher, error)

	CreateResource(ctx context.Context, req CreateResourceRequest) (*entities.Resource, error)
	GetResource(ctx context.Context, id int) (*entities.Resource, error)
	UpdateResource(ctx context.Context, id int, req UpdateResourceRequest) (*entities.Resource, error)
	DeleteResource(ctx context.Context, id int) error
	ListResources(ctx context.Context, filter ResourceFilter) ([]*entities.Resource, error)
	ResourceTypes(ctx context.Context) ([]entities.ResourceType, error)
}

// JournalService interface for daily logs and milestones
type JournalService interface {
	UpsertDailyLog(ctx context.Context, req UpsertDailyLogRequest) (*entities.DailyLog, error)
	GetDailyLog(ctx context.Context, day time.Time) (*entities.DailyLog, error)
	ListDailyLogs(ctx context.Context, limit int) ([]*entities.DailyLog, error)

	CreateMilestone(ctx context.Context, req CreateMilestoneRequest) (*entities.Milestone, error)
	UpdateMilestone(ctx context.Context, id int, req UpdateMilestoneRequest) (*entities.Milestone, error)
	DeleteMilestone(ctx context.Context, id int) error
	ListMilestones(ctx context.Context) ([]*entities.Milestone, error)
}

// SettingsService interface for the app settings store
type SettingsService interface {
	GetSettings(ctx context.Context) (map[string]string, error)
	UpdateSettings(ctx context.Context, values map[string]string) error
}

// AuthService interface for the single-owner account
type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	ValidateToken(ctx context.Context, token string) (*entities.User, error)
	ChangePassword(ctx context.Context, req ChangePasswordRequest) error
}

// DashboardService aggregates the landing-page summary
type DashboardService interface {
	GetDashboard(ctx context.Context) (*DashboardResponse, error)
}

// VaultExporter renders tracked entities into a markdown vault
type VaultExporter interface {
	ExportAll(events []*entities.Event, researchers []*entities.Researcher, logs []*entities.DailyLog) (*ExportStats, error)
}

// ExportService runs a full vault export
type ExportService interface {
	ExportVault(ctx context.Context) (*ExportStats, error)
}

// ExportStats counts what an export run wrote
type ExportStats struct {
	Events      int `json:"events"`
	Researchers int `json:"researchers"`
	DailyLogs   int `json:"daily_logs"`
}

// Event related types
type CreateEventRequest struct {
	Title              string                 `json:"title" validate:"required,max=300"`
	Category           entities.EventCategory `json:"category" validate:"required"`
	Edition            *string                `json:"edition"`
	Website            *string                `json:"website" validate:"omitempty,url"`
	Association        *string                `json:"association"`
	RelevanceTags      *string                `json:"relevance_tags"`
	Location           *string                `json:"location"`
	City               *string                `json:"city"`
	SubmissionDeadline *time.Time             `json:"submission_deadline"`
	NotificationDate   *time.Time             `json:"notification_date"`
	CameraReadyDate    *time.Time             `json:"camera_ready_date"`
	EventStartDate     *time.Time             `json:"event_start_date"`
	EventEndDate       *time.Time             `json:"event_end_date"`
	Description        *string                `json:"description"`
	Notes              *string                `json:"notes"`
	Status             entities.EventStatus   `json:"status"`
	Pinned             bool                   `json:"pinned"`
}

type UpdateEventRequest struct {
	Title              *string                 `json:"title" validate:"omitempty,max=300"`
	Category           *entities.EventCategory `json:"category"`
	Edition            *string                 `json:"edition"`
	Website            *string                 `json:"website" validate:"omitempty,url"`
	Association        *string                 `json:"association"`
	RelevanceTags      *string                 `json:"relevance_tags"`
	Location           *string                 `json:"location"`
	City               *string                 `json:"city"`
	SubmissionDeadline *time.Time              `json:"submission_deadline"`
	NotificationDate   *time.Time              `json:"notification_date"`
	CameraReadyDate    *time.Time              `json:"camera_ready_date"`
	EventStartDate     *time.Time              `json:"event_start_date"`
	EventEndDate       *time.Time              `json:"event_end_date"`
	Description        *string                 `json:"description"`
	Notes              *string                 `json:"notes"`
	Status             *entities.EventStatus   `json:"status"`
	Pinned             *bool                   `json:"pinned"`
}

// Todo related types
type CreateTodoRequest struct {
	Title       string            `json:"title" validate:"required,max=300"`
	Description *string           `json:"description"`
	Priority    entities.Priority `json:"priority"`
	DueDate     *time.Time        `json:"due_date"`
	Category    *string           `json:"category"`
}

type UpdateTodoRequest struct {
	Title       *string              `json:"title" validate:"omitempty,max=300"`
	Description *string              `json:"description"`
	Priority    *entities.Priority   `json:"priority"`
	DueDate     *time.Time           `json:"due_date"`
	Status      *entities.TodoStatus `json:"status"`
	Category    *string              `json:"category"`
}

// Catalog related types
type CreateResearcherRequest struct {
	Name          string  `json:"name" validate:"required,max=200"`
	Website       *string `json:"website" validate:"omitempty,url"`
	Affiliation   *string `json:"affiliation"`
	ResearchAreas *string `json:"research_areas"`
	Notes         *string `json:"notes"`
}

type UpdateResearcherRequest struct {
	Name          *string `json:"name" validate:"omitempty,max=200"`
	Website       *string `json:"website" validate:"omitempty,url"`
	Affiliation   *string `json:"affiliation"`
	ResearchAreas *string `json:"research_areas"`
	Notes         *string `json:"notes"`
}

type CreateResourceRequest struct {
	Name         string                `json:"name" validate:"required,max=200"`
	ResourceType entities.ResourceType `json:"resource_type" validate:"required"`
	Website      *string               `json:"website" validate:"omitempty,url"`
	Description  *string               `json:"description"`
	Tags         *string               `json:"tags"`
}

type UpdateResourceRequest struct {
	Name         *string                `json:"name" validate:"omitempty,max=200"`
	ResourceType *entities.ResourceType `json:"resource_type"`
	Website      *string                `json:"website" validate:"omitempty,url"`
	Description  *string                `json:"description"`
	Tags         *string                `json:"tags"`
}

// Journal related types
type UpsertDailyLogRequest struct {
	LogDate     time.Time `json:"log_date" validate:"required"`
	Content     *string   `json:"content"`
	HoursWorked float64   `json:"hours_worked" validate:"min=0,max=24"`
	Mood        *string   `json:"mood"`
	Tags        *string   `json:"tags"`
}

type CreateMilestoneRequest struct {
	Title       string     `json:"title" validate:"required,max=300"`
	Description *string    `json:"description"`
	TargetDate  *time.Time `json:"target_date"`
	Category    *string    `json:"category"`
}

type UpdateMilestoneRequest struct {
	Title       *string                   `json:"title" validate:"omitempty,max=300"`
	Description *string                   `json:"description"`
	TargetDate  *time.Time                `json:"target_date"`
	Status      *entities.MilestoneStatus `json:"status"`
	Category    *string                   `json:"category"`
	SortOrder   *int                      `json:"sort_order"`
}

// Auth related types
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
	User      *entities.User `json:"user"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// Dashboard related types
type DashboardResponse struct {
	UpcomingDeadlines []*entities.Event     `json:"upcoming_deadlines"`
	PinnedEvents      []*entities.Event     `json:"pinned_events"`
	OpenCFPs          []*entities.Event     `json:"open_cfps"`
	PendingTodos      []*entities.Todo      `json:"pending_todos"`
	OpenMilestones    []*entities.Milestone `json:"open_milestones"`
	Counts            DashboardCounts       `json:"counts"`
}

type DashboardCounts struct {
	Events       int64 `json:"events"`
	OverdueTodos int64 `json:"overdue_todos"`
}
