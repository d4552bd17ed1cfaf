package domain

import (
	"math"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Progress labels inferred from a day's commit messages.
const (
	StatusDone         = "done"
	StatusInProgress   = "in_progress"
	StatusImplementing = "implementing"
)

// DailyRecord is the per-day activity rollup, keyed by date so re-recording
// a day overwrites in place.
type DailyRecord struct {
	ID           snowflake.ID `gorm:"primaryKey"`
	Date         time.Time    `gorm:"not null;uniqueIndex:ux_daily_records_date"`
	CommitsCount int64        `gorm:"not null;default:0"`
	ReposCount   int64        `gorm:"not null;default:0"`
	WorkingHours float64      `gorm:"not null;default:0"`
	Status       string       `gorm:"type:text"`
	Summary      string       `gorm:"type:text"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (DailyRecord) TableName() string { return "daily_records" }

// DayRange returns the half-open window [start, end) of the calendar day
// offset days before the day containing ref.
func DayRange(offset int, ref time.Time) (time.Time, time.Time) {
	day := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())
	start := day.AddDate(0, 0, -offset)
	return start, start.AddDate(0, 0, 1)
}

// EstimateWorkingHours estimates the day's working time as the span between
// the first and last commit, clamped to [0.5, 8] hours and rounded to one
// decimal. No commits means zero.
func EstimateWorkingHours(commits []Commit) float64 {
	if len(commits) == 0 {
		return 0
	}
	first, last := commits[0].CommittedAt, commits[0].CommittedAt
	for _, c := range commits[1:] {
		if c.CommittedAt.Before(first) {
			first = c.CommittedAt
		}
		if c.CommittedAt.After(last) {
			last = c.CommittedAt
		}
	}
	hours := last.Sub(first).Hours()
	switch {
	case hours < 0.5:
		return 0.5
	case hours > 8:
		return 8
	}
	return math.Round(hours*10) / 10
}

// CategorizeStatus infers the day's progress from commit messages.
// Completion markers win over WIP/TODO markers.
func CategorizeStatus(commits []Commit) string {
	var done, wip bool
	for _, c := range commits {
		m := strings.ToLower(c.Message)
		if strings.Contains(m, "complete") || strings.Contains(m, "done") ||
			strings.Contains(m, "finish") {
			done = true
		}
		if strings.Contains(m, "wip") || strings.Contains(m, "work in progress") ||
			strings.Contains(m, "todo") || strings.Contains(m, "fixme") {
			wip = true
		}
	}
	switch {
	case done:
		return StatusDone
	case wip:
		return StatusInProgress
	}
	return StatusImplementing
}
