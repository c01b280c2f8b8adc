package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/scholartrack/core/internal/domain/entities"
	"github.com/scholartrack/core/internal/ports"
)

// Discord-style embed colors.
const (
	colorUrgent  = 0xFF0000
	colorWarning = 0xFFAA00
	colorNeutral = 0x5865F2
)

// Webhook delivers notifications with a single JSON POST per message to a
// chat webhook URL.
type Webhook struct {
	url    string
	client *http.Client
}

// NewWebhook creates a webhook notifier for url.
func NewWebhook(url string) *Webhook {
	return &Webhook{
		url:    url,
		client: &http.Client{Timeout: deliveryTimeout},
	}
}

func (w *Webhook) Name() string {
	return "webhook"
}

type embedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	URL         string       `json:"url,omitempty"`
	Color       int          `json:"color"`
	Fields      []embedField `json:"fields,omitempty"`
}

type webhookPayload struct {
	Content string  `json:"content"`
	Embeds  []embed `json:"embeds,omitempty"`
}

// SendMessage posts a plain content message, used by the settings test action.
func (w *Webhook) SendMessage(ctx context.Context, content string) error {
	return w.post(ctx, webhookPayload{Content: content})
}

// DeliverDeadlineReminder sends a single-event alert embed.
func (w *Webhook) DeliverDeadlineReminder(ctx context.Context, event *entities.Event, today time.Time) error {
	days := daysRemaining(event, today)

	color := colorWarning
	if days <= urgentDays {
		color = colorUrgent
	}

	e := embed{
		Title: fmt.Sprintf("Deadline Reminder: %s", event.Title),
		Color: color,
		Fields: []embedField{
			{Name: "Category", Value: titleCase(string(event.Category)), Inline: true},
			{Name: "Days Left", Value: fmt.Sprintf("%d", days), Inline: true},
			{Name: "Deadline", Value: event.SubmissionDeadline.Format(dateLayout), Inline: true},
		},
	}
	if event.Website != nil {
		e.URL = *event.Website
	}
	if event.RelevanceTags != nil {
		e.Fields = append(e.Fields, embedField{Name: "Tags", Value: *event.RelevanceTags})
	}

	return w.post(ctx, webhookPayload{Embeds: []embed{e}})
}

// DeliverDailyDigest sends one combined summary message. Empty halves render
// an explicit "none" section rather than being omitted.
func (w *Webhook) DeliverDailyDigest(ctx context.Context, events []*entities.Event, todos []*entities.Todo, today time.Time) error {
	deadlines := embed{Title: "Upcoming Deadlines", Color: colorWarning}
	if len(events) == 0 {
		deadlines.Description = "No upcoming deadlines."
	} else {
		lines := make([]string, 0, webhookDigestEventCap)
		for i, e := range events {
			if i == webhookDigestEventCap {
				break
			}
			lines = append(lines, fmt.Sprintf("**%s** — %d days left (%s)",
				e.Title, daysRemaining(e, today), e.SubmissionDeadline.Format(dateLayout)))
		}
		deadlines.Description = strings.Join(lines, "\n")
	}

	pending := embed{Title: fmt.Sprintf("Pending Todos (%d)", len(todos)), Color: colorNeutral}
	if len(todos) == 0 {
		pending.Description = "No pending tasks."
	} else {
		lines := make([]string, 0, digestTodoCap)
		for i, t := range todos {
			if i == digestTodoCap {
				break
			}
			lines = append(lines, todoLine(t))
		}
		pending.Description = strings.Join(lines, "\n")
	}

	payload := webhookPayload{
		Content: fmt.Sprintf("**Daily Digest — %s**", today.Format(dateLayout)),
		Embeds:  []embed{deadlines, pending},
	}

	return w.post(ctx, payload)
}

func (w *Webhook) post(ctx context.Context, payload webhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return ports.NewDeliveryError(w.Name(), fmt.Errorf("encode payload: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return ports.NewDeliveryError(w.Name(), fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return ports.NewDeliveryError(w.Name(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return ports.NewDeliveryError(w.Name(), fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	return nil
}

// titleCase capitalizes the first letter of each underscore-separated word,
// so "call_for_chapters" renders as "Call For Chapters".
func titleCase(s string) string {
	words := strings.Split(s, "_")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
