package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func week() (time.Time, time.Time) {
	start := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 7)
}

func TestWeekRange(t *testing.T) {
	// Wednesday 2025-03-12.
	ref := time.Date(2025, 3, 12, 15, 30, 0, 0, time.UTC)

	start, end := WeekRange(0, ref)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC), end)

	prevStart, prevEnd := WeekRange(1, ref)
	assert.Equal(t, time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), prevStart)
	assert.Equal(t, start, prevEnd)
}

func TestAggregateWeek(t *testing.T) {
	weekStart, weekEnd := week()
	repos := map[int64]Repository{
		1: {ID: 1, FullName: "dev/gadget", Language: strPtr("Go")},
		2: {ID: 2, FullName: "dev/oxide", Language: strPtr("Rust")},
	}
	commits := []Commit{
		{RepoID: 1, SHA: "a1", AuthorEmail: strPtr("dev@example.com"), Additions: 50, Deletions: 10, FilesChanged: 3},
		{RepoID: 1, SHA: "a2", AuthorEmail: strPtr("dev@example.com"), Additions: 5, Deletions: 0, FilesChanged: 1},
		{RepoID: 1, SHA: "a3", AuthorEmail: strPtr("pair@example.com"), Additions: 20, Deletions: 5, FilesChanged: 2},
		{RepoID: 2, SHA: "b1", AuthorEmail: strPtr("dev@example.com"), Additions: 100, Deletions: 0, FilesChanged: 4},
	}

	activities := AggregateWeek(commits, repos, weekStart, weekEnd)
	require.Len(t, activities, 2)

	x := activities[0]
	assert.Equal(t, int64(1), x.RepoID)
	assert.Equal(t, int64(3), x.CommitsCount)
	assert.Equal(t, int64(75), x.LinesAdded)
	assert.Equal(t, int64(15), x.LinesDeleted)
	assert.Equal(t, int64(6), x.FilesChanged)
	assert.Equal(t, []string{"dev@example.com", "pair@example.com"}, []string(x.Contributors))
	assert.Equal(t, float64(3), x.Languages["Go"])

	y := activities[1]
	assert.Equal(t, int64(2), y.RepoID)
	assert.Equal(t, int64(1), y.CommitsCount)
	assert.Equal(t, float64(1), y.Languages["Rust"])
	assert.Equal(t, weekStart, y.WeekStart)
	assert.Equal(t, weekEnd, y.WeekEnd)
}

func TestAggregateWeek_SkipsUnknownRepo(t *testing.T) {
	weekStart, weekEnd := week()
	repos := map[int64]Repository{1: {ID: 1}}
	commits := []Commit{
		{RepoID: 1, SHA: "a1", Additions: 10},
		{RepoID: 99, SHA: "zz", Additions: 500},
	}

	activities := AggregateWeek(commits, repos, weekStart, weekEnd)
	require.Len(t, activities, 1)
	assert.Equal(t, int64(1), activities[0].RepoID)
	assert.Equal(t, int64(10), activities[0].LinesAdded)
}

func TestAggregateWeek_ContributorDedupAndNilEmails(t *testing.T) {
	weekStart, weekEnd := week()
	repos := map[int64]Repository{1: {ID: 1}}
	commits := []Commit{
		{RepoID: 1, SHA: "a1", AuthorEmail: strPtr("z@example.com")},
		{RepoID: 1, SHA: "a2", AuthorEmail: strPtr("a@example.com")},
		{RepoID: 1, SHA: "a3", AuthorEmail: strPtr("z@example.com")},
		{RepoID: 1, SHA: "a4", AuthorEmail: nil},
		{RepoID: 1, SHA: "a5", AuthorEmail: strPtr("")},
	}

	activities := AggregateWeek(commits, repos, weekStart, weekEnd)
	require.Len(t, activities, 1)
	assert.Equal(t, []string{"a@example.com", "z@example.com"}, []string(activities[0].Contributors))
	assert.Equal(t, int64(5), activities[0].CommitsCount)
}

func TestAggregateWeek_NoLanguage(t *testing.T) {
	weekStart, weekEnd := week()
	repos := map[int64]Repository{1: {ID: 1, Language: nil}}
	commits := []Commit{{RepoID: 1, SHA: "a1"}}

	activities := AggregateWeek(commits, repos, weekStart, weekEnd)
	require.Len(t, activities, 1)
	assert.Empty(t, activities[0].Languages)
}

func TestAggregateWeek_Empty(t *testing.T) {
	weekStart, weekEnd := week()
	assert.Empty(t, AggregateWeek(nil, nil, weekStart, weekEnd))
}
