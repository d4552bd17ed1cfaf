// Package publisher delivers weekly activity reports to their output
// targets: a Notion database page and local markdown/JSON exports.
package publisher

import (
	"fmt"
	"sort"
	"strings"
	"time"

	activitydomain "github.com/devrecap/devrecap/internal/activity/domain"
)

// WeeklyReport is the fully assembled report handed to every target.
type WeeklyReport struct {
	WeekStart    time.Time
	WeekEnd      time.Time
	Summary      string
	Activities   []activitydomain.WeeklyActivity
	Repositories map[int64]activitydomain.Repository
}

// Title is the canonical report title, shared by Notion pages and export
// filenames.
func (r WeeklyReport) Title() string {
	return fmt.Sprintf("Week of %s", r.WeekStart.Format("2006-01-02"))
}

// Markdown renders the report body: the summary followed by a per-repository
// activity table, most active first.
func (r WeeklyReport) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", r.Title())
	if r.Summary != "" {
		b.WriteString(r.Summary)
		b.WriteString("\n\n")
	}

	if len(r.Activities) == 0 {
		b.WriteString("No activity recorded this week.\n")
		return b.String()
	}

	sorted := make([]activitydomain.WeeklyActivity, len(r.Activities))
	copy(sorted, r.Activities)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].CommitsCount > sorted[j].CommitsCount
	})

	b.WriteString("## Activity\n\n")
	b.WriteString("| Repository | Commits | Lines +/- | Files |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, a := range sorted {
		name := fmt.Sprintf("repo %d", a.RepoID)
		if repo, ok := r.Repositories[a.RepoID]; ok {
			name = repo.FullName
		}
		fmt.Fprintf(&b, "| %s | %d | +%d/-%d | %d |\n",
			name, a.CommitsCount, a.LinesAdded, a.LinesDeleted, a.FilesChanged)
	}
	return b.String()
}
