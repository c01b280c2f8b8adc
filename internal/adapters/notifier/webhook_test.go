package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/scholartrack/core/internal/domain/entities"
	"github.com/scholartrack/core/internal/ports"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func strPtr(s string) *string { return &s }

func captureServer(t *testing.T, status int) (*httptest.Server, *[]byte) {
	t.Helper()
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read body: %v", err)
		}
		body = b
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv, &body
}

func TestWebhookDeadlineReminder(t *testing.T) {
	srv, body := captureServer(t, http.StatusNoContent)

	deadline := date(2024, 1, 17)
	event := &entities.Event{
		Title:              "NeurIPS",
		Category:           entities.EventCategoryConference,
		SubmissionDeadline: &deadline,
		Website:            strPtr("https://neurips.cc"),
		RelevanceTags:      strPtr("ml, privacy"),
	}

	w := NewWebhook(srv.URL)
	if err := w.DeliverDeadlineReminder(context.Background(), event, date(2024, 1, 10)); err != nil {
		t.Fatalf("DeliverDeadlineReminder: %v", err)
	}

	var payload webhookPayload
	if err := json.Unmarshal(*body, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if len(payload.Embeds) != 1 {
		t.Fatalf("got %d embeds, want 1", len(payload.Embeds))
	}

	e := payload.Embeds[0]
	if !strings.Contains(e.Title, "NeurIPS") {
		t.Errorf("embed title %q missing event title", e.Title)
	}
	if e.Color != colorWarning {
		t.Errorf("color = %#x, want warning at 7 days", e.Color)
	}
	if e.URL != "https://neurips.cc" {
		t.Errorf("url = %q", e.URL)
	}

	fields := map[string]string{}
	for _, f := range e.Fields {
		fields[f.Name] = f.Value
	}
	if fields["Days Left"] != "7" {
		t.Errorf("days left = %q, want 7", fields["Days Left"])
	}
	if fields["Deadline"] != "2024-01-17" {
		t.Errorf("deadline = %q", fields["Deadline"])
	}
	if fields["Tags"] != "ml, privacy" {
		t.Errorf("tags = %q", fields["Tags"])
	}
}

func TestWebhookUrgentColor(t *testing.T) {
	srv, body := captureServer(t, http.StatusOK)

	deadline := date(2024, 1, 12)
	event := &entities.Event{Title: "CCS", Category: entities.EventCategoryConference, SubmissionDeadline: &deadline}

	w := NewWebhook(srv.URL)
	if err := w.DeliverDeadlineReminder(context.Background(), event, date(2024, 1, 10)); err != nil {
		t.Fatalf("DeliverDeadlineReminder: %v", err)
	}

	var payload webhookPayload
	if err := json.Unmarshal(*body, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload.Embeds[0].Color != colorUrgent {
		t.Errorf("color = %#x, want urgent at 2 days", payload.Embeds[0].Color)
	}
}

func TestWebhookDailyDigest(t *testing.T) {
	srv, body := captureServer(t, http.StatusOK)
	today := date(2024, 1, 10)

	var events []*entities.Event
	for i := 0; i < 12; i++ {
		d := today.AddDate(0, 0, i+1)
		events = append(events, &entities.Event{Title: "event", SubmissionDeadline: &d})
	}

	due := date(2024, 1, 12)
	todos := []*entities.Todo{
		{Title: "write rebuttal", Priority: entities.PriorityHigh, DueDate: &due},
		{Title: "read papers", Priority: entities.PriorityMedium},
	}

	w := NewWebhook(srv.URL)
	if err := w.DeliverDailyDigest(context.Background(), events, todos, today); err != nil {
		t.Fatalf("DeliverDailyDigest: %v", err)
	}

	var payload webhookPayload
	if err := json.Unmarshal(*body, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}

	if payload.Content != "**Daily Digest — 2024-01-10**" {
		t.Errorf("content = %q", payload.Content)
	}
	if len(payload.Embeds) != 2 {
		t.Fatalf("got %d embeds, want 2", len(payload.Embeds))
	}

	// Deadlines are capped at 10 lines.
	deadlineLines := strings.Split(payload.Embeds[0].Description, "\n")
	if len(deadlineLines) != webhookDigestEventCap {
		t.Errorf("got %d deadline lines, want %d", len(deadlineLines), webhookDigestEventCap)
	}

	// Todo section reports the total alongside the list.
	if !strings.Contains(payload.Embeds[1].Title, "(2)") {
		t.Errorf("todo embed title %q missing total", payload.Embeds[1].Title)
	}
	if !strings.Contains(payload.Embeds[1].Description, "🔴 write rebuttal (due: 2024-01-12)") {
		t.Errorf("todo section missing high-priority line:\n%s", payload.Embeds[1].Description)
	}
	if !strings.Contains(payload.Embeds[1].Description, "🟡 read papers") {
		t.Errorf("todo section missing medium-priority line:\n%s", payload.Embeds[1].Description)
	}
	if strings.Contains(payload.Embeds[1].Description, "read papers (due:") {
		t.Error("todo without due date must not carry a due suffix")
	}
}

func TestWebhookDigestEmptySections(t *testing.T) {
	srv, body := captureServer(t, http.StatusOK)

	w := NewWebhook(srv.URL)
	if err := w.DeliverDailyDigest(context.Background(), nil, nil, date(2024, 1, 10)); err != nil {
		t.Fatalf("DeliverDailyDigest: %v", err)
	}

	var payload webhookPayload
	if err := json.Unmarshal(*body, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}

	if payload.Embeds[0].Description != "No upcoming deadlines." {
		t.Errorf("deadline section = %q", payload.Embeds[0].Description)
	}
	if payload.Embeds[1].Description != "No pending tasks." {
		t.Errorf("todo section = %q", payload.Embeds[1].Description)
	}
}

func TestWebhookNon2xxIsDeliveryError(t *testing.T) {
	srv, _ := captureServer(t, http.StatusBadGateway)

	w := NewWebhook(srv.URL)
	err := w.SendMessage(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected error on 502")
	}

	var de *ports.DeliveryError
	if !errors.As(err, &de) {
		t.Fatalf("error %T is not a DeliveryError", err)
	}
	if de.Channel != "webhook" {
		t.Errorf("channel = %q", de.Channel)
	}
}

func TestTitleCase(t *testing.T) {
	tests := []struct{ in, want string }{
		{"conference", "Conference"},
		{"call_for_chapters", "Call For Chapters"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := titleCase(tt.in); got != tt.want {
			t.Errorf("titleCase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
