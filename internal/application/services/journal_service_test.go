package services

import (
	"context"
	"testing"
	"time"

	"github.com/scholartrack/core/internal/domain/entities"
	"github.com/scholartrack/core/internal/infrastructure/logger"
	"github.com/scholartrack/core/internal/ports"
)

type memMilestoneRepo struct {
	milestones map[int]*entities.Milestone
	nextID     int
	nextOrder  int
}

func newMemMilestoneRepo() *memMilestoneRepo {
	return &memMilestoneRepo{milestones: map[int]*entities.Milestone{}, nextID: 1, nextOrder: 1}
}

func (m *memMilestoneRepo) Create(_ context.Context, milestone *entities.Milestone) error {
	milestone.ID = m.nextID
	milestone.SortOrder = m.nextOrder
	m.nextID++
	m.nextOrder++
	cp := *milestone
	m.milestones[cp.ID] = &cp
	return nil
}

func (m *memMilestoneRepo) GetByID(_ context.Context, id int) (*entities.Milestone, error) {
	ms, ok := m.milestones[id]
	if !ok {
		return nil, entities.ErrMilestoneNotFound
	}
	cp := *ms
	return &cp, nil
}

func (m *memMilestoneRepo) Update(_ context.Context, milestone *entities.Milestone) error {
	if _, ok := m.milestones[milestone.ID]; !ok {
		return entities.ErrMilestoneNotFound
	}
	cp := *milestone
	m.milestones[cp.ID] = &cp
	return nil
}

func (m *memMilestoneRepo) Delete(_ context.Context, id int) error {
	if _, ok := m.milestones[id]; !ok {
		return entities.ErrMilestoneNotFound
	}
	delete(m.milestones, id)
	return nil
}

func (m *memMilestoneRepo) List(_ context.Context) ([]*entities.Milestone, error) {
	var out []*entities.Milestone
	for _, ms := range m.milestones {
		out = append(out, ms)
	}
	return out, nil
}

func (m *memMilestoneRepo) ListOpen(_ context.Context, limit int) ([]*entities.Milestone, error) {
	var out []*entities.Milestone
	for _, ms := range m.milestones {
		if ms.Status == entities.MilestoneStatusPending || ms.Status == entities.MilestoneStatusInProgress {
			out = append(out, ms)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memDailyLogRepo struct {
	logs map[string]*entities.DailyLog
}

func (m *memDailyLogRepo) Upsert(_ context.Context, log *entities.DailyLog) error {
	cp := *log
	m.logs[log.LogDate.Format("2006-01-02")] = &cp
	return nil
}

func (m *memDailyLogRepo) GetByDate(_ context.Context, day time.Time) (*entities.DailyLog, error) {
	log, ok := m.logs[day.Format("2006-01-02")]
	if !ok {
		return nil, entities.ErrDailyLogNotFound
	}
	return log, nil
}

func (m *memDailyLogRepo) List(_ context.Context, limit int) ([]*entities.DailyLog, error) {
	var out []*entities.DailyLog
	for _, log := range m.logs {
		out = append(out, log)
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func newTestJournalService(today time.Time) (*JournalService, *memMilestoneRepo, *memDailyLogRepo) {
	logRepo := &memDailyLogRepo{logs: map[string]*entities.DailyLog{}}
	milestoneRepo := newMemMilestoneRepo()
	svc := NewJournalService(logRepo, milestoneRepo, logger.NewNop())
	svc.now = func() time.Time { return today }
	return svc, milestoneRepo, logRepo
}

func TestMilestoneCompletionStampsDate(t *testing.T) {
	today := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	svc, _, _ := newTestJournalService(today)
	ctx := context.Background()

	created, err := svc.CreateMilestone(ctx, ports.CreateMilestoneRequest{Title: "Qualifying exam"})
	if err != nil {
		t.Fatalf("CreateMilestone: %v", err)
	}
	if created.Status != entities.MilestoneStatusPending {
		t.Errorf("new milestone status = %s, want pending", created.Status)
	}

	completed := entities.MilestoneStatusCompleted
	updated, err := svc.UpdateMilestone(ctx, created.ID, ports.UpdateMilestoneRequest{Status: &completed})
	if err != nil {
		t.Fatalf("UpdateMilestone: %v", err)
	}

	wantDate := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	if updated.CompletedDate == nil || !updated.CompletedDate.Equal(wantDate) {
		t.Errorf("completed date = %v, want %v", updated.CompletedDate, wantDate)
	}

	// Re-completing on a later day keeps the original stamp.
	svc.now = func() time.Time { return today.AddDate(0, 0, 10) }
	again, err := svc.UpdateMilestone(ctx, created.ID, ports.UpdateMilestoneRequest{Status: &completed})
	if err != nil {
		t.Fatalf("UpdateMilestone again: %v", err)
	}
	if !again.CompletedDate.Equal(wantDate) {
		t.Errorf("completed date moved to %v", again.CompletedDate)
	}
}

func TestMilestoneSortOrderAssignedOnCreate(t *testing.T) {
	svc, _, _ := newTestJournalService(time.Now())
	ctx := context.Background()

	first, _ := svc.CreateMilestone(ctx, ports.CreateMilestoneRequest{Title: "first"})
	second, _ := svc.CreateMilestone(ctx, ports.CreateMilestoneRequest{Title: "second"})

	if first.SortOrder >= second.SortOrder {
		t.Errorf("sort order not increasing: %d then %d", first.SortOrder, second.SortOrder)
	}
}

func TestUpsertDailyLogNormalizesDate(t *testing.T) {
	svc, _, repo := newTestJournalService(time.Now())
	ctx := context.Background()

	content := "Wrote the related work section."
	log, err := svc.UpsertDailyLog(ctx, ports.UpsertDailyLogRequest{
		LogDate:     time.Date(2024, 3, 15, 18, 45, 0, 0, time.UTC),
		Content:     &content,
		HoursWorked: 5,
	})
	if err != nil {
		t.Fatalf("UpsertDailyLog: %v", err)
	}

	want := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	if !log.LogDate.Equal(want) {
		t.Errorf("log date = %v, want midnight UTC", log.LogDate)
	}

	// Same day again replaces, never duplicates.
	other := "Replaced."
	if _, err := svc.UpsertDailyLog(ctx, ports.UpsertDailyLogRequest{
		LogDate: time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC),
		Content: &other,
	}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if len(repo.logs) != 1 {
		t.Errorf("got %d log rows for one day", len(repo.logs))
	}

	stored, err := svc.GetDailyLog(ctx, want)
	if err != nil {
		t.Fatalf("GetDailyLog: %v", err)
	}
	if stored.Content == nil || *stored.Content != "Replaced." {
		t.Errorf("content = %v, want replaced", stored.Content)
	}

	// Zero date is rejected.
	if _, err := svc.UpsertDailyLog(ctx, ports.UpsertDailyLogRequest{}); err == nil {
		t.Error("expected error for zero date")
	}
}
