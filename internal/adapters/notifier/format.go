package notifier

import (
	"fmt"
	"time"

	"github.com/scholartrack/core/internal/domain/entities"
)

const (
	// deliveryTimeout bounds a single synchronous send.
	deliveryTimeout = 30 * time.Second

	// Digest caps. The total todo count is still reported alongside the
	// capped list.
	webhookDigestEventCap = 10
	emailDigestEventCap   = 15
	digestTodoCap         = 10

	// Days-remaining at or below this renders with urgent styling.
	urgentDays = 3

	dateLayout = "2006-01-02"
)

// priorityMarker maps a todo priority to its digest line indicator.
// Unknown priorities get the neutral marker.
func priorityMarker(p entities.Priority) string {
	switch p {
	case entities.PriorityHigh:
		return "🔴"
	case entities.PriorityMedium:
		return "🟡"
	case entities.PriorityLow:
		return "🟢"
	default:
		return "⚪"
	}
}

// todoLine renders one digest todo entry: marker, title, optional due suffix.
func todoLine(t *entities.Todo) string {
	due := ""
	if t.DueDate != nil {
		due = fmt.Sprintf(" (due: %s)", t.DueDate.Format(dateLayout))
	}
	return fmt.Sprintf("%s %s%s", priorityMarker(t.Priority), t.Title, due)
}

func daysRemaining(e *entities.Event, today time.Time) int {
	d, _ := e.DaysUntilDeadline(today)
	return d
}
