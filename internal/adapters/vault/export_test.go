package vault

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/scholartrack/core/internal/domain/entities"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func strPtr(s string) *string { return &s }

func sampleData() ([]*entities.Event, []*entities.Researcher, []*entities.DailyLog) {
	deadline := date(2024, 5, 22)
	start := date(2024, 12, 9)
	end := date(2024, 12, 15)

	events := []*entities.Event{
		{
			Title:              "NeurIPS 2024",
			Category:           entities.EventCategoryConference,
			Status:             entities.EventStatusCFPOpen,
			Website:            strPtr("https://neurips.cc"),
			SubmissionDeadline: &deadline,
			EventStartDate:     &start,
			EventEndDate:       &end,
			RelevanceTags:      strPtr("ml, privacy"),
			Location:           strPtr("Vancouver"),
			Description:        strPtr("Premier ML conference."),
		},
		{
			Title:    "Crypto Workshop: FHE/MPC?",
			Category: entities.EventCategoryWorkshop,
			Status:   entities.EventStatusUpcoming,
		},
	}

	researchers := []*entities.Researcher{
		{
			Name:          "Ada Lovelace",
			Affiliation:   strPtr("Analytical Engine Lab"),
			ResearchAreas: strPtr("computation, mathematics"),
			Notes:         strPtr("Met at seminar."),
		},
	}

	content := "Worked on the evaluation section."
	logs := []*entities.DailyLog{
		{
			LogDate:     date(2024, 3, 15),
			Content:     &content,
			HoursWorked: 6.5,
			Mood:        strPtr("focused"),
		},
	}

	return events, researchers, logs
}

func TestExportAllLayout(t *testing.T) {
	dir := t.TempDir()
	events, researchers, logs := sampleData()

	stats, err := NewExporter(dir).ExportAll(events, researchers, logs)
	if err != nil {
		t.Fatalf("ExportAll: %v", err)
	}
	if stats.Events != 2 || stats.Researchers != 1 || stats.DailyLogs != 1 {
		t.Errorf("stats = %+v", stats)
	}

	wantFiles := []string{
		filepath.Join(dir, "Research-Dashboard", "Events", "Conferences", "NeurIPS 2024.md"),
		filepath.Join(dir, "Research-Dashboard", "Events", "Workshops", "Crypto Workshop FHEMPC.md"),
		filepath.Join(dir, "Research-Dashboard", "Researchers", "Ada Lovelace.md"),
		filepath.Join(dir, "Research-Dashboard", "Daily Notes", "2024-03-15.md"),
		filepath.Join(dir, "Research-Dashboard", "Index.md"),
	}
	for _, path := range wantFiles {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("missing %s: %v", path, err)
		}
	}
}

func TestExportEventContent(t *testing.T) {
	dir := t.TempDir()
	events, _, _ := sampleData()

	if err := NewExporter(dir).ExportEvent(events[0]); err != nil {
		t.Fatalf("ExportEvent: %v", err)
	}

	b, err := os.ReadFile(filepath.Join(dir, "Research-Dashboard", "Events", "Conferences", "NeurIPS 2024.md"))
	if err != nil {
		t.Fatalf("read note: %v", err)
	}
	content := string(b)

	if !strings.HasPrefix(content, "---\n") {
		t.Error("note missing frontmatter")
	}
	for _, want := range []string{
		`title: "NeurIPS 2024"`,
		"category: conference",
		"status: cfp_open",
		"submission_deadline: 2024-05-22",
		"tags:\n  - ml\n  - privacy",
		"# NeurIPS 2024",
		"## Key Dates",
		"- **Submission Deadline:** 2024-05-22",
		"- **Event Date:** 2024-12-09 to 2024-12-15",
		"## Description",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("note missing %q", want)
		}
	}
}

func TestExportIsByteIdempotent(t *testing.T) {
	dir := t.TempDir()
	events, researchers, logs := sampleData()
	x := NewExporter(dir)

	if _, err := x.ExportAll(events, researchers, logs); err != nil {
		t.Fatalf("first export: %v", err)
	}

	first := map[string][]byte{}
	root := filepath.Join(dir, "Research-Dashboard")
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		first[path] = b
		return nil
	})
	if err != nil {
		t.Fatalf("walk: %v", err)
	}

	if _, err := x.ExportAll(events, researchers, logs); err != nil {
		t.Fatalf("second export: %v", err)
	}

	for path, before := range first {
		after, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("reread %s: %v", path, err)
		}
		if string(before) != string(after) {
			t.Errorf("%s changed between identical exports", path)
		}
	}
}

func TestSanitizeName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"NeurIPS 2024", "NeurIPS 2024"},
		{"Crypto Workshop: FHE/MPC?", "Crypto Workshop FHEMPC"},
		{"a/b\\c:d*e", "abcde"},
		{"  padded  ", "padded"},
		{"under_score-dash", "under_score-dash"},
	}
	for _, tt := range tests {
		if got := SanitizeName(tt.in); got != tt.want {
			t.Errorf("SanitizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCategoryDir(t *testing.T) {
	tests := []struct {
		in   entities.EventCategory
		want string
	}{
		{entities.EventCategoryConference, "Conferences"},
		{entities.EventCategoryJournal, "Journals"},
		{entities.EventCategoryCallForChapters, "Call For Chapters"},
	}
	for _, tt := range tests {
		if got := categoryDir(tt.in); got != tt.want {
			t.Errorf("categoryDir(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
