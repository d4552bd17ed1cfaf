package publisher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDailyReport(t *testing.T) {
	report := DailyReport{
		Date:         time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC),
		CommitsCount: 6,
		ReposCount:   2,
		WorkingHours: 3.5,
		Status:       "in_progress",
		Summary:      "Reworked the ingest path.",
	}

	assert.Equal(t, "Daily log 2025-03-11", report.Title())

	md := report.Markdown()
	assert.Contains(t, md, "# Daily log 2025-03-11")
	assert.Contains(t, md, "Reworked the ingest path.")
	assert.Contains(t, md, "- Commits: 6 across 2 repositories")
	assert.Contains(t, md, "- Estimated working hours: 3.5")
	assert.Contains(t, md, "- Status: in_progress")
}
