package ports

import (
	"context"
	"fmt"
	"time"

	"github.com/scholartrack/core/internal/domain/entities"
)

// Setting keys for notifier credentials and reminder tuning, stored in
// app_settings and read fresh at the start of each relevant operation.
const (
	SettingWebhookURL   = "webhook_url"
	SettingSMTPServer   = "smtp_server"
	SettingSMTPPort     = "smtp_port"
	SettingSMTPUsername = "smtp_username"
	SettingSMTPPassword = "smtp_password"
	SettingEmailTo      = "email_to"
	SettingVaultPath    = "vault_path"
	SettingReminderDays = "reminder_days_before"
	SettingDigestHour   = "daily_digest_hour"
)

// Notifier is a notification backend. Implementations must treat missing
// optional event fields as absent, never as an error.
type Notifier interface {
	Name() string
	// DeliverDeadlineReminder sends a single-event alert.
	DeliverDeadlineReminder(ctx context.Context, event *entities.Event, today time.Time) error
	// DeliverDailyDigest sends one combined summary of upcoming deadlines
	// and pending todos.
	DeliverDailyDigest(ctx context.Context, events []*entities.Event, todos []*entities.Todo, today time.Time) error
}

// MessageSender is implemented by backends that can deliver a free-form test
// message.
type MessageSender interface {
	SendMessage(ctx context.Context, content string) error
}

// DeliveryError wraps any transport, auth or remote-rejection failure during
// a send. The reminder engine logs these and never escalates them.
type DeliveryError struct {
	Channel string
	Err     error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivery via %s failed: %v", e.Channel, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// NewDeliveryError wraps err for the given channel.
func NewDeliveryError(channel string, err error) *DeliveryError {
	return &DeliveryError{Channel: channel, Err: err}
}
