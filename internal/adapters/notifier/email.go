package notifier

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/scholartrack/core/internal/domain/entities"
	"github.com/scholartrack/core/internal/ports"
)

// Email delivers notifications over SMTP with plain authentication.
type Email struct {
	server   string
	port     string
	username string
	password string
	to       string
	send     func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewEmail creates an SMTP notifier. All fields come from app settings.
func NewEmail(server, port, username, password, to string) *Email {
	return &Email{
		server:   server,
		port:     port,
		username: username,
		password: password,
		to:       to,
		send:     smtp.SendMail,
	}
}

func (e *Email) Name() string {
	return "email"
}

// SendMessage sends a plain-text message, used by the settings test action.
func (e *Email) SendMessage(_ context.Context, content string) error {
	return e.deliver("Test Notification", "<p>"+content+"</p>")
}

// DeliverDeadlineReminder sends a single-event alert email.
func (e *Email) DeliverDeadlineReminder(_ context.Context, event *entities.Event, today time.Time) error {
	days := daysRemaining(event, today)
	subject := fmt.Sprintf("%s Deadline: %s (%d days left)", titleCase(string(event.Category)), event.Title, days)

	var b strings.Builder
	fmt.Fprintf(&b, "<h2>Deadline Reminder</h2>")
	fmt.Fprintf(&b, "<p><strong>%s</strong> has its submission deadline in <strong>%d days</strong>.</p>", event.Title, days)
	b.WriteString("<ul>")
	fmt.Fprintf(&b, "<li>Category: %s</li>", titleCase(string(event.Category)))
	fmt.Fprintf(&b, "<li>Deadline: %s</li>", event.SubmissionDeadline.Format(dateLayout))
	if event.Website != nil {
		fmt.Fprintf(&b, `<li>Website: <a href="%s">%s</a></li>`, *event.Website, *event.Website)
	}
	if event.RelevanceTags != nil {
		fmt.Fprintf(&b, "<li>Tags: %s</li>", *event.RelevanceTags)
	}
	b.WriteString("</ul>")

	return e.deliver(subject, b.String())
}

// DeliverDailyDigest sends the combined summary email. Empty halves render an
// explicit "none" line rather than being omitted.
func (e *Email) DeliverDailyDigest(_ context.Context, events []*entities.Event, todos []*entities.Todo, today time.Time) error {
	subject := fmt.Sprintf("Daily Digest — %s", today.Format(dateLayout))

	var b strings.Builder
	fmt.Fprintf(&b, "<h2>Daily Digest — %s</h2>", today.Format(dateLayout))

	b.WriteString("<h3>Upcoming Deadlines</h3>")
	if len(events) == 0 {
		b.WriteString("<p>No upcoming deadlines.</p>")
	} else {
		b.WriteString("<ul>")
		for i, ev := range events {
			if i == emailDigestEventCap {
				break
			}
			fmt.Fprintf(&b, "<li><strong>%s</strong> — %d days left (%s)</li>",
				ev.Title, daysRemaining(ev, today), ev.SubmissionDeadline.Format(dateLayout))
		}
		b.WriteString("</ul>")
	}

	fmt.Fprintf(&b, "<h3>Pending Todos (%d)</h3>", len(todos))
	if len(todos) == 0 {
		b.WriteString("<p>No pending tasks.</p>")
	} else {
		b.WriteString("<ul>")
		for i, t := range todos {
			if i == digestTodoCap {
				break
			}
			fmt.Fprintf(&b, "<li>%s</li>", todoLine(t))
		}
		b.WriteString("</ul>")
	}

	return e.deliver(subject, b.String())
}

func (e *Email) deliver(subject, htmlBody string) error {
	headers := []string{
		fmt.Sprintf("From: %s", e.username),
		fmt.Sprintf("To: %s", e.to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
	}
	msg := strings.Join(headers, "\r\n") + "\r\n\r\n" + htmlBody

	auth := smtp.PlainAuth("", e.username, e.password, e.server)
	addr := e.server + ":" + e.port

	if err := e.send(addr, auth, e.username, []string{e.to}, []byte(msg)); err != nil {
		return ports.NewDeliveryError(e.Name(), err)
	}
	return nil
}
