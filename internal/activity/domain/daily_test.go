package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDayRange(t *testing.T) {
	ref := time.Date(2025, 3, 12, 15, 30, 0, 0, time.UTC)

	start, end := DayRange(0, ref)
	assert.Equal(t, time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 3, 13, 0, 0, 0, 0, time.UTC), end)

	start, end = DayRange(1, ref)
	assert.Equal(t, time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC), end)
}

func commitAt(hour, min int, message string) Commit {
	return Commit{
		Message:     message,
		CommittedAt: time.Date(2025, 3, 11, hour, min, 0, 0, time.UTC),
	}
}

func TestEstimateWorkingHours(t *testing.T) {
	assert.Equal(t, 0.0, EstimateWorkingHours(nil))

	// Single commit, zero span: floor of half an hour.
	assert.Equal(t, 0.5, EstimateWorkingHours([]Commit{commitAt(10, 0, "fix")}))

	// 09:00 to 12:15 is 3.25h, rounded to one decimal.
	assert.Equal(t, 3.3, EstimateWorkingHours([]Commit{
		commitAt(12, 15, "later"),
		commitAt(9, 0, "earlier"),
	}))

	// 07:00 to 22:00 is capped at 8.
	assert.Equal(t, 8.0, EstimateWorkingHours([]Commit{
		commitAt(7, 0, "morning"),
		commitAt(22, 0, "night"),
	}))
}

func TestCategorizeStatus(t *testing.T) {
	assert.Equal(t, StatusImplementing, CategorizeStatus([]Commit{
		commitAt(10, 0, "add parser skeleton"),
	}))

	assert.Equal(t, StatusInProgress, CategorizeStatus([]Commit{
		commitAt(10, 0, "WIP: parser rewrite"),
	}))
	assert.Equal(t, StatusInProgress, CategorizeStatus([]Commit{
		commitAt(10, 0, "leave a TODO for error paths"),
	}))

	assert.Equal(t, StatusDone, CategorizeStatus([]Commit{
		commitAt(10, 0, "finish parser rewrite"),
	}))

	// Completion wins when both markers appear during the day.
	assert.Equal(t, StatusDone, CategorizeStatus([]Commit{
		commitAt(10, 0, "wip on renderer"),
		commitAt(18, 0, "renderer done"),
	}))
}
