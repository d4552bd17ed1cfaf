package publisher

import (
	"fmt"
	"strings"
	"time"
)

// DailyReport is one day's activity record: commit counts, the estimated
// working-hours span, a progress status, and the LLM analysis of the day.
type DailyReport struct {
	Date         time.Time
	CommitsCount int
	ReposCount   int
	WorkingHours float64
	Status       string
	Summary      string
}

func (r DailyReport) Title() string {
	return fmt.Sprintf("Daily log %s", r.Date.Format("2006-01-02"))
}

// Markdown renders the record: the analysis followed by the day's figures.
func (r DailyReport) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", r.Title())
	if r.Summary != "" {
		b.WriteString(r.Summary)
		b.WriteString("\n\n")
	}
	fmt.Fprintf(&b, "- Commits: %d across %d repositories\n", r.CommitsCount, r.ReposCount)
	fmt.Fprintf(&b, "- Estimated working hours: %.1f\n", r.WorkingHours)
	fmt.Fprintf(&b, "- Status: %s\n", r.Status)
	return b.String()
}
