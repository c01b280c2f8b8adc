// Package vault renders tracked entities as an Obsidian-compatible markdown
// tree. Re-exporting unchanged data writes byte-identical files.
package vault

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/scholartrack/core/internal/domain/entities"
	"github.com/scholartrack/core/internal/ports"
)

const (
	baseDirName = "Research-Dashboard"
	eventsDir   = "Events"
	peopleDir   = "Researchers"
	dailyDir    = "Daily Notes"
	noteExt     = ".md"
	dateLayout  = "2006-01-02"
)

// Exporter writes markdown notes under <vault path>/Research-Dashboard.
type Exporter struct {
	baseDir string
}

// NewExporter creates an exporter rooted at vaultPath.
func NewExporter(vaultPath string) *Exporter {
	return &Exporter{baseDir: filepath.Join(vaultPath, baseDirName)}
}

// ExportAll writes every entity and the top-level index.
func (x *Exporter) ExportAll(events []*entities.Event, researchers []*entities.Researcher, logs []*entities.DailyLog) (*ports.ExportStats, error) {
	stats := &ports.ExportStats{}

	for _, e := range events {
		if err := x.ExportEvent(e); err != nil {
			return stats, fmt.Errorf("export event %q: %w", e.Title, err)
		}
		stats.Events++
	}
	for _, r := range researchers {
		if err := x.ExportResearcher(r); err != nil {
			return stats, fmt.Errorf("export researcher %q: %w", r.Name, err)
		}
		stats.Researchers++
	}
	for _, l := range logs {
		if err := x.ExportDailyLog(l); err != nil {
			return stats, fmt.Errorf("export daily log %s: %w", l.LogDate.Format(dateLayout), err)
		}
		stats.DailyLogs++
	}

	if err := x.writeIndex(events); err != nil {
		return stats, fmt.Errorf("write index: %w", err)
	}
	return stats, nil
}

// ExportEvent writes one event note under Events/<Category>s/.
func (x *Exporter) ExportEvent(e *entities.Event) error {
	dir := filepath.Join(x.baseDir, eventsDir, categoryDir(e.Category))
	path := filepath.Join(dir, SanitizeName(e.Title)+noteExt)

	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "title: %q\n", e.Title)
	fmt.Fprintf(&b, "category: %s\n", e.Category)
	fmt.Fprintf(&b, "status: %s\n", e.Status)
	if e.Website != nil {
		fmt.Fprintf(&b, "website: %q\n", *e.Website)
	}
	if e.SubmissionDeadline != nil {
		fmt.Fprintf(&b, "submission_deadline: %s\n", e.SubmissionDeadline.Format(dateLayout))
	}
	if e.EventStartDate != nil {
		fmt.Fprintf(&b, "event_start: %s\n", e.EventStartDate.Format(dateLayout))
	}
	if e.EventEndDate != nil {
		fmt.Fprintf(&b, "event_end: %s\n", e.EventEndDate.Format(dateLayout))
	}
	writeTagList(&b, e.RelevanceTags)
	if e.Location != nil {
		fmt.Fprintf(&b, "location: %s\n", *e.Location)
	}
	b.WriteString("---\n\n")

	fmt.Fprintf(&b, "# %s\n\n", e.Title)
	if e.Website != nil {
		fmt.Fprintf(&b, "**Website:** [%s](%s)\n", *e.Website, *e.Website)
	}
	if e.Association != nil {
		fmt.Fprintf(&b, "**Association:** %s\n", *e.Association)
	}
	if e.Location != nil {
		fmt.Fprintf(&b, "**Location:** %s\n", *e.Location)
	}
	b.WriteString("\n")

	if e.SubmissionDeadline != nil || e.NotificationDate != nil || e.EventStartDate != nil {
		b.WriteString("## Key Dates\n")
		if e.SubmissionDeadline != nil {
			fmt.Fprintf(&b, "- **Submission Deadline:** %s\n", e.SubmissionDeadline.Format(dateLayout))
		}
		if e.NotificationDate != nil {
			fmt.Fprintf(&b, "- **Notification:** %s\n", e.NotificationDate.Format(dateLayout))
		}
		if e.CameraReadyDate != nil {
			fmt.Fprintf(&b, "- **Camera Ready:** %s\n", e.CameraReadyDate.Format(dateLayout))
		}
		if e.EventStartDate != nil {
			end := ""
			if e.EventEndDate != nil {
				end = " to " + e.EventEndDate.Format(dateLayout)
			}
			fmt.Fprintf(&b, "- **Event Date:** %s%s\n", e.EventStartDate.Format(dateLayout), end)
		}
		b.WriteString("\n")
	}

	if e.Description != nil {
		fmt.Fprintf(&b, "## Description\n%s\n\n", *e.Description)
	}
	if e.Notes != nil {
		fmt.Fprintf(&b, "## Notes\n%s\n\n", *e.Notes)
	}

	return writeNote(path, b.String())
}

// ExportResearcher writes one researcher note.
func (x *Exporter) ExportResearcher(r *entities.Researcher) error {
	path := filepath.Join(x.baseDir, peopleDir, SanitizeName(r.Name)+noteExt)

	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "name: %q\n", r.Name)
	affiliation := ""
	if r.Affiliation != nil {
		affiliation = *r.Affiliation
	}
	fmt.Fprintf(&b, "affiliation: %q\n", affiliation)
	writeTagList(&b, r.ResearchAreas)
	b.WriteString("---\n\n")

	fmt.Fprintf(&b, "# %s\n\n", r.Name)
	if r.Affiliation != nil {
		fmt.Fprintf(&b, "**Affiliation:** %s\n", *r.Affiliation)
	}
	if r.Website != nil {
		fmt.Fprintf(&b, "**Website:** [%s](%s)\n", *r.Website, *r.Website)
	}
	if r.ResearchAreas != nil {
		fmt.Fprintf(&b, "**Research Areas:** %s\n", *r.ResearchAreas)
	}
	if r.Notes != nil {
		fmt.Fprintf(&b, "\n## Notes\n%s\n", *r.Notes)
	}

	return writeNote(path, b.String())
}

// ExportDailyLog writes one daily note named by its ISO date.
func (x *Exporter) ExportDailyLog(l *entities.DailyLog) error {
	day := l.LogDate.Format(dateLayout)
	path := filepath.Join(x.baseDir, dailyDir, day+noteExt)

	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "date: %s\n", day)
	fmt.Fprintf(&b, "hours_worked: %g\n", l.HoursWorked)
	if l.Mood != nil {
		fmt.Fprintf(&b, "mood: %s\n", *l.Mood)
	}
	writeTagList(&b, l.Tags)
	b.WriteString("---\n\n")

	fmt.Fprintf(&b, "# %s\n\n", day)
	if l.HoursWorked > 0 {
		fmt.Fprintf(&b, "**Hours worked:** %g\n", l.HoursWorked)
	}
	if l.Mood != nil {
		fmt.Fprintf(&b, "**Mood:** %s\n", *l.Mood)
	}
	b.WriteString("\n")
	if l.Content != nil {
		b.WriteString(*l.Content)
		b.WriteString("\n")
	}

	return writeNote(path, b.String())
}

func (x *Exporter) writeIndex(events []*entities.Event) error {
	var b strings.Builder
	b.WriteString("# Research Dashboard\n\n")
	b.WriteString("## Quick Links\n")
	b.WriteString("- [[Events]]\n- [[Researchers]]\n- [[Daily Notes]]\n\n")
	b.WriteString("## Event Categories\n")

	seen := map[string]bool{}
	var cats []string
	for _, e := range events {
		d := categoryDir(e.Category)
		if !seen[d] {
			seen[d] = true
			cats = append(cats, d)
		}
	}
	sort.Strings(cats)
	for _, c := range cats {
		fmt.Fprintf(&b, "- [[Events/%s/]]\n", c)
	}

	return writeNote(filepath.Join(x.baseDir, "Index.md"), b.String())
}

// SanitizeName strips everything but letters, digits, spaces, hyphens and
// underscores so titles become safe filenames.
func SanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// categoryDir maps a category to its folder name, e.g. "conference" becomes
// "Conferences". Categories already ending in s are left unpluralized.
func categoryDir(c entities.EventCategory) string {
	s := string(c)
	parts := strings.Split(s, "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	name := strings.Join(parts, " ")
	if strings.HasSuffix(name, "s") {
		return name
	}
	return name + "s"
}

func writeTagList(b *strings.Builder, csv *string) {
	if csv == nil || strings.TrimSpace(*csv) == "" {
		return
	}
	b.WriteString("tags:\n")
	for _, t := range strings.Split(*csv, ",") {
		t = strings.TrimSpace(t)
		if t != "" {
			fmt.Fprintf(b, "  - %s\n", t)
		}
	}
}

func writeNote(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
