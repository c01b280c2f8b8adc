package entities

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name string
		a, b time.Time
		want int
	}{
		{"same day", date(2024, 1, 10), date(2024, 1, 10), 0},
		{"one week ahead", date(2024, 1, 10), date(2024, 1, 17), 7},
		{"past", date(2024, 1, 10), date(2024, 1, 3), -7},
		{"ignores time component", time.Date(2024, 1, 10, 23, 59, 0, 0, time.UTC), time.Date(2024, 1, 11, 0, 1, 0, 0, time.UTC), 1},
		{"across month boundary", date(2024, 1, 30), date(2024, 2, 2), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysBetween(tt.a, tt.b); got != tt.want {
				t.Errorf("DaysBetween(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestEventDaysUntilDeadline(t *testing.T) {
	today := date(2024, 1, 10)

	deadline := date(2024, 1, 17)
	e := &Event{Title: "ICML", SubmissionDeadline: &deadline}

	days, ok := e.DaysUntilDeadline(today)
	if !ok {
		t.Fatal("expected deadline to be present")
	}
	if days != 7 {
		t.Errorf("days = %d, want 7", days)
	}

	noDeadline := &Event{Title: "seminar"}
	if _, ok := noDeadline.DaysUntilDeadline(today); ok {
		t.Error("expected no deadline")
	}
}

func TestEventDeadlineSoonAndPassed(t *testing.T) {
	today := date(2024, 1, 10)

	tests := []struct {
		name     string
		deadline time.Time
		soon     bool
		passed   bool
	}{
		{"today", date(2024, 1, 10), true, false},
		{"in 14 days", date(2024, 1, 24), true, false},
		{"in 15 days", date(2024, 1, 25), false, false},
		{"yesterday", date(2024, 1, 9), false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &Event{SubmissionDeadline: &tt.deadline}
			if got := e.IsDeadlineSoon(today); got != tt.soon {
				t.Errorf("IsDeadlineSoon = %v, want %v", got, tt.soon)
			}
			if got := e.IsDeadlinePassed(today); got != tt.passed {
				t.Errorf("IsDeadlinePassed = %v, want %v", got, tt.passed)
			}
		})
	}
}

func TestTodoIsOverdue(t *testing.T) {
	today := date(2024, 1, 10)
	yesterday := date(2024, 1, 9)
	tomorrow := date(2024, 1, 11)

	tests := []struct {
		name string
		todo Todo
		want bool
	}{
		{"past due pending", Todo{DueDate: &yesterday, Status: TodoStatusPending}, true},
		{"past due completed", Todo{DueDate: &yesterday, Status: TodoStatusCompleted}, false},
		{"due tomorrow", Todo{DueDate: &tomorrow, Status: TodoStatusPending}, false},
		{"no due date", Todo{Status: TodoStatusPending}, false},
		{"due today", Todo{DueDate: &today, Status: TodoStatusInProgress}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.todo.IsOverdue(today); got != tt.want {
				t.Errorf("IsOverdue = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMilestoneMarkStatus(t *testing.T) {
	today := date(2024, 3, 15)

	m := &Milestone{Title: "Proposal defense", Status: MilestoneStatusInProgress}
	m.MarkStatus(MilestoneStatusCompleted, today)

	if m.Status != MilestoneStatusCompleted {
		t.Errorf("status = %s, want completed", m.Status)
	}
	if m.CompletedDate == nil || !m.CompletedDate.Equal(today) {
		t.Errorf("completed date = %v, want %v", m.CompletedDate, today)
	}

	// A later transition must not move the original completion date.
	later := date(2024, 4, 1)
	m.MarkStatus(MilestoneStatusCompleted, later)
	if !m.CompletedDate.Equal(today) {
		t.Errorf("completed date moved to %v, want %v", m.CompletedDate, today)
	}

	// Leaving completed keeps the stamp.
	m.MarkStatus(MilestoneStatusDelayed, later)
	if m.Status != MilestoneStatusDelayed {
		t.Errorf("status = %s, want delayed", m.Status)
	}
	if m.CompletedDate == nil {
		t.Error("completed date cleared on status change")
	}
}

func TestEnumValidation(t *testing.T) {
	if !EventCategoryConference.IsValid() {
		t.Error("conference should be valid")
	}
	if EventCategory("symposium").IsValid() {
		t.Error("symposium should be invalid")
	}
	if !TodoStatusInProgress.IsValid() {
		t.Error("in_progress should be valid")
	}
	if Priority("urgent").IsValid() {
		t.Error("urgent should be invalid")
	}
	if !MilestoneStatusDelayed.IsValid() {
		t.Error("delayed should be valid")
	}
	if ResourceType("dataset").IsValid() {
		t.Error("dataset should be invalid")
	}
}
