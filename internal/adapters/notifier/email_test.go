package notifier

import (
	"context"
	"net/smtp"
	"strings"
	"testing"

	"github.com/scholartrack/core/internal/domain/entities"
)

func newTestEmail(send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error) *Email {
	e := NewEmail("smtp.example.com", "587", "me@example.com", "secret", "inbox@example.com")
	e.send = send
	return e
}

func TestEmailDeadlineReminder(t *testing.T) {
	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg string

	e := newTestEmail(func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, string(msg)
		return nil
	})

	deadline := date(2024, 1, 13)
	event := &entities.Event{
		Title:              "PETS",
		Category:           entities.EventCategoryJournal,
		SubmissionDeadline: &deadline,
		Website:            strPtr("https://petsymposium.org"),
	}

	if err := e.DeliverDeadlineReminder(context.Background(), event, date(2024, 1, 10)); err != nil {
		t.Fatalf("DeliverDeadlineReminder: %v", err)
	}

	if gotAddr != "smtp.example.com:587" {
		t.Errorf("addr = %q", gotAddr)
	}
	if gotFrom != "me@example.com" {
		t.Errorf("from = %q", gotFrom)
	}
	if len(gotTo) != 1 || gotTo[0] != "inbox@example.com" {
		t.Errorf("to = %v", gotTo)
	}
	if !strings.Contains(gotMsg, "Subject: Journal Deadline: PETS (3 days left)") {
		t.Errorf("subject missing or wrong:\n%s", gotMsg)
	}
	if !strings.Contains(gotMsg, `Content-Type: text/html`) {
		t.Error("missing HTML content type header")
	}
	if !strings.Contains(gotMsg, "2024-01-13") {
		t.Error("body missing deadline date")
	}
	if !strings.Contains(gotMsg, "https://petsymposium.org") {
		t.Error("body missing website link")
	}
}

func TestEmailDailyDigest(t *testing.T) {
	var gotMsg string
	e := newTestEmail(func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotMsg = string(msg)
		return nil
	})

	today := date(2024, 1, 10)
	deadline := date(2024, 1, 15)
	events := []*entities.Event{
		{Title: "USENIX Security", SubmissionDeadline: &deadline},
	}
	todos := []*entities.Todo{
		{Title: "camera ready", Priority: entities.PriorityLow},
	}

	if err := e.DeliverDailyDigest(context.Background(), events, todos, today); err != nil {
		t.Fatalf("DeliverDailyDigest: %v", err)
	}

	if !strings.Contains(gotMsg, "Subject: Daily Digest — 2024-01-10") {
		t.Errorf("subject missing:\n%s", gotMsg)
	}
	if !strings.Contains(gotMsg, "USENIX Security") || !strings.Contains(gotMsg, "5 days left") {
		t.Error("deadline line missing")
	}
	if !strings.Contains(gotMsg, "🟢 camera ready") {
		t.Error("todo line missing")
	}
}

func TestEmailDigestEmptySections(t *testing.T) {
	var gotMsg string
	e := newTestEmail(func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotMsg = string(msg)
		return nil
	})

	if err := e.DeliverDailyDigest(context.Background(), nil, nil, date(2024, 1, 10)); err != nil {
		t.Fatalf("DeliverDailyDigest: %v", err)
	}

	if !strings.Contains(gotMsg, "No upcoming deadlines.") {
		t.Error("missing explicit empty deadline section")
	}
	if !strings.Contains(gotMsg, "No pending tasks.") {
		t.Error("missing explicit empty todo section")
	}
}

func TestPriorityMarker(t *testing.T) {
	tests := []struct {
		priority entities.Priority
		want     string
	}{
		{entities.PriorityHigh, "🔴"},
		{entities.PriorityMedium, "🟡"},
		{entities.PriorityLow, "🟢"},
		{entities.Priority("unset"), "⚪"},
	}
	for _, tt := range tests {
		if got := priorityMarker(tt.priority); got != tt.want {
			t.Errorf("priorityMarker(%s) = %s, want %s", tt.priority, got, tt.want)
		}
	}
}
