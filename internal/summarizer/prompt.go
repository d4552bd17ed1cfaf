package summarizer

import (
	"fmt"
	"sort"
	"strings"
	"time"

	activitydomain "github.com/devrecap/devrecap/internal/activity/domain"
)

// BuildWeeklyPrompt renders the week's rollups into the prompt sent to the
// model. Repositories are ordered by commit count so the most active work
// leads the summary.
func BuildWeeklyPrompt(activities []activitydomain.WeeklyActivity, repos map[int64]activitydomain.Repository, weekStart time.Time) string {
	sorted := make([]activitydomain.WeeklyActivity, len(activities))
	copy(sorted, activities)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].CommitsCount > sorted[j].CommitsCount
	})

	var b strings.Builder
	fmt.Fprintf(&b, "Summarize my software development activity for the week of %s.\n\n",
		weekStart.Format("2006-01-02"))
	b.WriteString("Repository activity:\n")
	for _, a := range sorted {
		name := fmt.Sprintf("repo %d", a.RepoID)
		if repo, ok := repos[a.RepoID]; ok {
			name = repo.FullName
		}
		fmt.Fprintf(&b, "- %s: %d commits, +%d/-%d lines, %d files changed\n",
			name, a.CommitsCount, a.LinesAdded, a.LinesDeleted, a.FilesChanged)
		if len(a.Contributors) > 0 {
			fmt.Fprintf(&b, "  contributors: %s\n", strings.Join(a.Contributors, ", "))
		}
	}
	b.WriteString("\nWrite a concise narrative summary (2-3 paragraphs) of what was " +
		"accomplished, highlighting the most active projects. Plain prose, no headings.")
	return b.String()
}

// BuildDailyPrompt renders one day's commits into the prompt sent to the
// model, one line per commit with its repository and message subject.
func BuildDailyPrompt(commits []activitydomain.Commit, repos map[int64]activitydomain.Repository, date time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Analyze my development activity on %s.\n\n", date.Format("2006-01-02"))
	b.WriteString("Commits:\n")
	for _, c := range commits {
		name := fmt.Sprintf("repo %d", c.RepoID)
		if repo, ok := repos[c.RepoID]; ok {
			name = repo.FullName
		}
		subject, _, _ := strings.Cut(c.Message, "\n")
		fmt.Fprintf(&b, "- [%s] %s\n", name, subject)
	}
	b.WriteString("\nSummarize the day's work in 3-5 bullet lines: the main " +
		"outcomes and the technical points that mattered.")
	return b.String()
}
