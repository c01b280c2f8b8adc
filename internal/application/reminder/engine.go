// Package reminder implements the deadline reminder and daily digest engine
// together with its cron scheduler.
package reminder

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/scholartrack/core/internal/domain/entities"
	"github.com/scholartrack/core/internal/infrastructure/logger"
	"github.com/scholartrack/core/internal/ports"
)

// digestLookbackPad extends the digest window past the largest reminder
// offset so deadlines stay visible for a week after their last alert.
const digestLookbackPad = 7

// DefaultReminderDays is used when no offsets are configured anywhere.
var DefaultReminderDays = []int{7, 3, 1}

var (
	tickCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reminder_ticks_total",
		Help: "Reminder engine ticks by kind.",
	}, []string{"kind"})

	deliveryCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reminder_deliveries_total",
		Help: "Notification delivery attempts by channel and outcome.",
	}, []string{"channel", "outcome"})
)

// NotifierFactory builds the active notifier backends for one tick.
// Rebuilding per tick means settings changes apply without a restart.
type NotifierFactory func(ctx context.Context) ([]ports.Notifier, error)

// Engine runs the digest and deadline-check ticks.
type Engine struct {
	events    ports.EventRepository
	todos     ports.TodoRepository
	settings  ports.SettingRepository
	notifiers NotifierFactory
	log       *logger.Logger

	defaultDays []int
	now         func() time.Time
}

// NewEngine wires an engine. defaultDays is the config fallback when the
// reminder_days_before setting is absent or unparsable.
func NewEngine(
	events ports.EventRepository,
	todos ports.TodoRepository,
	settings ports.SettingRepository,
	notifiers NotifierFactory,
	defaultDays []int,
	log *logger.Logger,
) *Engine {
	if len(defaultDays) == 0 {
		defaultDays = DefaultReminderDays
	}
	return &Engine{
		events:      events,
		todos:       todos,
		settings:    settings,
		notifiers:   notifiers,
		defaultDays: defaultDays,
		log:         log.WithComponent("reminder"),
		now:         time.Now,
	}
}

// SetClock replaces the engine clock, for tests.
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
}

// RunDailyDigest sends one combined digest per active backend: upcoming
// deadlines within the lookahead window and the pending todo list.
func (e *Engine) RunDailyDigest(ctx context.Context) error {
	tickCounter.WithLabelValues("digest").Inc()

	backends, err := e.notifiers(ctx)
	if err != nil {
		return err
	}
	if len(backends) == 0 {
		e.log.Debug("daily digest skipped, no notification backends configured")
		return nil
	}

	today := entities.DateOnly(e.now())
	maxDays := maxOf(e.reminderDays(ctx)) + digestLookbackPad

	upcoming, err := e.events.ListByDeadlineRange(ctx, today, today.AddDate(0, 0, maxDays), 0)
	if err != nil {
		return err
	}
	pending, err := e.todos.ListPending(ctx, 0)
	if err != nil {
		return err
	}

	for _, n := range backends {
		if err := n.DeliverDailyDigest(ctx, upcoming, pending, today); err != nil {
			deliveryCounter.WithLabelValues(n.Name(), "failure").Inc()
			e.log.WithError(err).Errorw("daily digest delivery failed", "channel", n.Name())
			continue
		}
		deliveryCounter.WithLabelValues(n.Name(), "success").Inc()
	}

	e.log.Infow("daily digest sent",
		"backends", len(backends), "events", len(upcoming), "todos", len(pending))
	return nil
}

// RunDeadlineCheck sends one reminder per event whose submission deadline
// falls exactly on a configured offset from today. A failed delivery never
// blocks the remaining (event, backend) pairs.
func (e *Engine) RunDeadlineCheck(ctx context.Context) error {
	tickCounter.WithLabelValues("deadline_check").Inc()

	backends, err := e.notifiers(ctx)
	if err != nil {
		return err
	}
	if len(backends) == 0 {
		e.log.Debug("deadline check skipped, no notification backends configured")
		return nil
	}

	today := entities.DateOnly(e.now())
	for _, days := range e.reminderDays(ctx) {
		target := today.AddDate(0, 0, days)
		events, err := e.events.ListByDeadline(ctx, target)
		if err != nil {
			return err
		}

		for _, ev := range events {
			for _, n := range backends {
				if err := n.DeliverDeadlineReminder(ctx, ev, today); err != nil {
					deliveryCounter.WithLabelValues(n.Name(), "failure").Inc()
					e.log.WithError(err).Errorw("deadline reminder delivery failed",
						"channel", n.Name(), "event", ev.Title)
					continue
				}
				deliveryCounter.WithLabelValues(n.Name(), "success").Inc()
			}
		}
	}
	return nil
}

// reminderDays resolves the offsets from settings, falling back to the
// configured defaults.
func (e *Engine) reminderDays(ctx context.Context) []int {
	raw, err := e.settings.Get(ctx, ports.SettingReminderDays)
	if err != nil || strings.TrimSpace(raw) == "" {
		return e.defaultDays
	}
	days := ParseReminderDays(raw)
	if len(days) == 0 {
		return e.defaultDays
	}
	return days
}

// ParseReminderDays parses a comma-separated offset list like "7,3,1".
// Invalid or negative entries are dropped.
func ParseReminderDays(raw string) []int {
	var days []int
	for _, part := range strings.Split(raw, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			continue
		}
		days = append(days, n)
	}
	return days
}

func maxOf(days []int) int {
	m := 0
	for _, d := range days {
		if d > m {
			m = d
		}
	}
	return m
}

// SettingsNotifierFactory builds backends from app settings. Webhook is
// active when a URL is set; email when server, username, password and
// recipient are all set. Port defaults to 587.
func SettingsNotifierFactory(settings ports.SettingRepository, build BackendBuilder) NotifierFactory {
	return func(ctx context.Context) ([]ports.Notifier, error) {
		values, err := settings.GetAll(ctx, []string{
			ports.SettingWebhookURL,
			ports.SettingSMTPServer,
			ports.SettingSMTPPort,
			ports.SettingSMTPUsername,
			ports.SettingSMTPPassword,
			ports.SettingEmailTo,
		})
		if err != nil {
			return nil, err
		}

		var out []ports.Notifier
		if url := values[ports.SettingWebhookURL]; url != "" {
			out = append(out, build.Webhook(url))
		}

		server := values[ports.SettingSMTPServer]
		username := values[ports.SettingSMTPUsername]
		password := values[ports.SettingSMTPPassword]
		to := values[ports.SettingEmailTo]
		if server != "" && username != "" && password != "" && to != "" {
			port := values[ports.SettingSMTPPort]
			if port == "" {
				port = "587"
			}
			out = append(out, build.Email(server, port, username, password, to))
		}
		return out, nil
	}
}

// BackendBuilder constructs concrete notifiers from resolved credentials.
// It keeps the adapters package out of the engine's import graph.
type BackendBuilder interface {
	Webhook(url string) ports.Notifier
	Email(server, port, username, password, to string) ports.Notifier
}
