package publisher

import (
	"strings"
	"testing"
	"time"

	activitydomain "github.com/devrecap/devrecap/internal/activity/domain"
	"github.com/stretchr/testify/assert"
)

func sampleReport() WeeklyReport {
	return WeeklyReport{
		WeekStart: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		WeekEnd:   time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC),
		Summary:   "Shipped the parser rewrite.",
		Activities: []activitydomain.WeeklyActivity{
			{RepoID: 1, CommitsCount: 2, LinesAdded: 30, LinesDeleted: 5, FilesChanged: 4},
			{RepoID: 2, CommitsCount: 7, LinesAdded: 120, LinesDeleted: 40, FilesChanged: 12},
		},
		Repositories: map[int64]activitydomain.Repository{
			1: {ID: 1, FullName: "dev/gadget"},
			2: {ID: 2, FullName: "dev/oxide"},
		},
	}
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Week of 2025-03-10", sampleReport().Title())
}

func TestMarkdown(t *testing.T) {
	md := sampleReport().Markdown()

	assert.Contains(t, md, "# Week of 2025-03-10")
	assert.Contains(t, md, "Shipped the parser rewrite.")
	assert.Contains(t, md, "| dev/oxide | 7 | +120/-40 | 12 |")
	assert.Contains(t, md, "| dev/gadget | 2 | +30/-5 | 4 |")

	// Most active repository listed first.
	assert.Less(t, strings.Index(md, "dev/oxide"), strings.Index(md, "dev/gadget"))
}

func TestMarkdown_NoActivity(t *testing.T) {
	report := sampleReport()
	report.Activities = nil

	md := report.Markdown()
	assert.Contains(t, md, "No activity recorded this week.")
	assert.NotContains(t, md, "| Repository |")
}
