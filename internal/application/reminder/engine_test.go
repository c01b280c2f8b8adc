package reminder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/scholartrack/core/internal/domain/entities"
	"github.com/scholartrack/core/internal/infrastructure/logger"
	"github.com/scholartrack/core/internal/ports"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// fakeEventRepo serves deadline queries from a fixed event slice.
type fakeEventRepo struct {
	ports.EventRepository
	events []*entities.Event
}

func (f *fakeEventRepo) ListByDeadlineRange(_ context.Context, from, to time.Time, limit int) ([]*entities.Event, error) {
	var out []*entities.Event
	for _, e := range f.events {
		if e.SubmissionDeadline == nil {
			continue
		}
		d := entities.DateOnly(*e.SubmissionDeadline)
		if !d.Before(from) && !d.After(to) {
			out = append(out, e)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeEventRepo) ListByDeadline(_ context.Context, day time.Time) ([]*entities.Event, error) {
	var out []*entities.Event
	for _, e := range f.events {
		if e.SubmissionDeadline != nil && entities.DateOnly(*e.SubmissionDeadline).Equal(day) {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeTodoRepo struct {
	ports.TodoRepository
	todos []*entities.Todo
}

func (f *fakeTodoRepo) ListPending(_ context.Context, limit int) ([]*entities.Todo, error) {
	out := f.todos
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeSettingRepo struct {
	ports.SettingRepository
	values map[string]string
}

func (f *fakeSettingRepo) Get(_ context.Context, key string) (string, error) {
	return f.values[key], nil
}

func (f *fakeSettingRepo) GetAll(_ context.Context, keys []string) (map[string]string, error) {
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		out[k] = f.values[k]
	}
	return out, nil
}

// fakeNotifier records deliveries and optionally fails every send.
type fakeNotifier struct {
	name      string
	fail      bool
	reminders []*entities.Event
	digests   int
}

func (f *fakeNotifier) Name() string { return f.name }

func (f *fakeNotifier) DeliverDeadlineReminder(_ context.Context, event *entities.Event, _ time.Time) error {
	if f.fail {
		return ports.NewDeliveryError(f.name, errors.New("send failed"))
	}
	f.reminders = append(f.reminders, event)
	return nil
}

func (f *fakeNotifier) DeliverDailyDigest(_ context.Context, events []*entities.Event, todos []*entities.Todo, _ time.Time) error {
	if f.fail {
		return ports.NewDeliveryError(f.name, errors.New("send failed"))
	}
	f.digests++
	return nil
}

func staticFactory(notifiers ...ports.Notifier) NotifierFactory {
	return func(context.Context) ([]ports.Notifier, error) {
		return notifiers, nil
	}
}

func eventWithDeadline(title string, deadline time.Time) *entities.Event {
	return &entities.Event{Title: title, Category: entities.EventCategoryConference, SubmissionDeadline: &deadline}
}

func newTestEngine(events *fakeEventRepo, todos *fakeTodoRepo, settings *fakeSettingRepo, factory NotifierFactory, today time.Time) *Engine {
	e := NewEngine(events, todos, settings, factory, []int{7, 3, 1}, logger.NewNop())
	e.SetClock(func() time.Time { return today })
	return e
}

func TestRunDeadlineCheckExactMatch(t *testing.T) {
	today := date(2024, 1, 10)
	repo := &fakeEventRepo{events: []*entities.Event{
		eventWithDeadline("exactly seven", date(2024, 1, 17)),
		eventWithDeadline("six days off", date(2024, 1, 16)),
		eventWithDeadline("exactly one", date(2024, 1, 11)),
		eventWithDeadline("exactly three", date(2024, 1, 13)),
		eventWithDeadline("way out", date(2024, 3, 1)),
	}}
	n := &fakeNotifier{name: "webhook"}

	engine := newTestEngine(repo, &fakeTodoRepo{}, &fakeSettingRepo{values: map[string]string{}}, staticFactory(n), today)

	if err := engine.RunDeadlineCheck(context.Background()); err != nil {
		t.Fatalf("RunDeadlineCheck: %v", err)
	}

	if len(n.reminders) != 3 {
		t.Fatalf("got %d reminders, want 3", len(n.reminders))
	}
	got := map[string]bool{}
	for _, e := range n.reminders {
		got[e.Title] = true
	}
	for _, want := range []string{"exactly seven", "exactly three", "exactly one"} {
		if !got[want] {
			t.Errorf("missing reminder for %q", want)
		}
	}
	if got["six days off"] {
		t.Error("six days off must not match any offset")
	}
}

func TestRunDeadlineCheckNoBackendsIsNoop(t *testing.T) {
	today := date(2024, 1, 10)
	repo := &fakeEventRepo{events: []*entities.Event{
		eventWithDeadline("exactly seven", date(2024, 1, 17)),
	}}

	engine := newTestEngine(repo, &fakeTodoRepo{}, &fakeSettingRepo{values: map[string]string{}}, staticFactory(), today)

	if err := engine.RunDeadlineCheck(context.Background()); err != nil {
		t.Fatalf("RunDeadlineCheck with no backends: %v", err)
	}
}

func TestRunDeadlineCheckFailureIsolation(t *testing.T) {
	today := date(2024, 1, 10)
	repo := &fakeEventRepo{events: []*entities.Event{
		eventWithDeadline("a", date(2024, 1, 17)),
		eventWithDeadline("b", date(2024, 1, 17)),
	}}
	failing := &fakeNotifier{name: "webhook", fail: true}
	working := &fakeNotifier{name: "email"}

	engine := newTestEngine(repo, &fakeTodoRepo{}, &fakeSettingRepo{values: map[string]string{}}, staticFactory(failing, working), today)

	if err := engine.RunDeadlineCheck(context.Background()); err != nil {
		t.Fatalf("RunDeadlineCheck: %v", err)
	}

	if len(working.reminders) != 2 {
		t.Errorf("working backend got %d reminders, want 2", len(working.reminders))
	}
}

func TestRunDailyDigestWindow(t *testing.T) {
	today := date(2024, 1, 10)
	// Default offsets {7,3,1}: window is today .. today+14.
	repo := &fakeEventRepo{events: []*entities.Event{
		eventWithDeadline("inside", date(2024, 1, 20)),
		eventWithDeadline("edge", date(2024, 1, 24)),
		eventWithDeadline("outside", date(2024, 1, 25)),
		eventWithDeadline("past", date(2024, 1, 9)),
	}}
	n := &fakeNotifier{name: "webhook"}

	var delivered []*entities.Event
	capture := &captureNotifier{fakeNotifier: n, events: &delivered}

	engine := newTestEngine(repo, &fakeTodoRepo{}, &fakeSettingRepo{values: map[string]string{}}, staticFactory(capture), today)

	if err := engine.RunDailyDigest(context.Background()); err != nil {
		t.Fatalf("RunDailyDigest: %v", err)
	}

	if len(delivered) != 2 {
		t.Fatalf("got %d events in digest, want 2", len(delivered))
	}
	titles := map[string]bool{}
	for _, e := range delivered {
		titles[e.Title] = true
	}
	if !titles["inside"] || !titles["edge"] {
		t.Errorf("digest missing expected events, got %v", titles)
	}
}

type captureNotifier struct {
	*fakeNotifier
	events *[]*entities.Event
}

func (c *captureNotifier) DeliverDailyDigest(ctx context.Context, events []*entities.Event, todos []*entities.Todo, today time.Time) error {
	*c.events = events
	return c.fakeNotifier.DeliverDailyDigest(ctx, events, todos, today)
}

func TestReminderDaysFromSettings(t *testing.T) {
	today := date(2024, 1, 10)
	repo := &fakeEventRepo{events: []*entities.Event{
		eventWithDeadline("in fourteen", date(2024, 1, 24)),
	}}
	n := &fakeNotifier{name: "webhook"}
	settings := &fakeSettingRepo{values: map[string]string{
		ports.SettingReminderDays: "14",
	}}

	engine := newTestEngine(repo, &fakeTodoRepo{}, settings, staticFactory(n), today)

	if err := engine.RunDeadlineCheck(context.Background()); err != nil {
		t.Fatalf("RunDeadlineCheck: %v", err)
	}
	if len(n.reminders) != 1 || n.reminders[0].Title != "in fourteen" {
		t.Errorf("expected a single reminder for the configured offset, got %v", n.reminders)
	}
}

func TestParseReminderDays(t *testing.T) {
	tests := []struct {
		raw  string
		want []int
	}{
		{"7,3,1", []int{7, 3, 1}},
		{" 10 , 5 ", []int{10, 5}},
		{"7,x,1", []int{7, 1}},
		{"-2,3", []int{3}},
		{"", nil},
	}

	for _, tt := range tests {
		got := ParseReminderDays(tt.raw)
		if len(got) != len(tt.want) {
			t.Errorf("ParseReminderDays(%q) = %v, want %v", tt.raw, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("ParseReminderDays(%q) = %v, want %v", tt.raw, got, tt.want)
				break
			}
		}
	}
}

func TestSettingsNotifierFactory(t *testing.T) {
	builder := testBackendBuilder{}

	tests := []struct {
		name   string
		values map[string]string
		want   []string
	}{
		{"nothing configured", map[string]string{}, nil},
		{"webhook only", map[string]string{ports.SettingWebhookURL: "https://example.com/hook"}, []string{"webhook"}},
		{
			"email fully configured",
			map[string]string{
				ports.SettingSMTPServer:   "smtp.example.com",
				ports.SettingSMTPUsername: "u",
				ports.SettingSMTPPassword: "p",
				ports.SettingEmailTo:      "me@example.com",
			},
			[]string{"email"},
		},
		{
			"email missing password is skipped",
			map[string]string{
				ports.SettingSMTPServer:   "smtp.example.com",
				ports.SettingSMTPUsername: "u",
				ports.SettingEmailTo:      "me@example.com",
			},
			nil,
		},
		{
			"both",
			map[string]string{
				ports.SettingWebhookURL:   "https://example.com/hook",
				ports.SettingSMTPServer:   "smtp.example.com",
				ports.SettingSMTPUsername: "u",
				ports.SettingSMTPPassword: "p",
				ports.SettingEmailTo:      "me@example.com",
			},
			[]string{"webhook", "email"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			factory := SettingsNotifierFactory(&fakeSettingRepo{values: tt.values}, builder)
			got, err := factory(context.Background())
			if err != nil {
				t.Fatalf("factory: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d backends, want %d", len(got), len(tt.want))
			}
			for i, n := range got {
				if n.Name() != tt.want[i] {
					t.Errorf("backend %d = %s, want %s", i, n.Name(), tt.want[i])
				}
			}
		})
	}
}

type testBackendBuilder struct{}

func (testBackendBuilder) Webhook(url string) ports.Notifier {
	return &fakeNotifier{name: "webhook"}
}

func (testBackendBuilder) Email(server, port, username, password, to string) ports.Notifier {
	return &fakeNotifier{name: "email"}
}

func TestRollForward(t *testing.T) {
	tests := []struct {
		hour, minute int
		wantH, wantM int
	}{
		{9, 0, 9, 30},
		{9, 45, 10, 15},
		{23, 45, 0, 15},
	}

	for _, tt := range tests {
		h, m := rollForward(tt.hour, tt.minute, deadlineCheckOffset)
		if h != tt.wantH || m != tt.wantM {
			t.Errorf("rollForward(%d, %d) = %d:%d, want %d:%d", tt.hour, tt.minute, h, m, tt.wantH, tt.wantM)
		}
	}
}
