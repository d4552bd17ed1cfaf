package domain

import (
	"sort"
	"time"
)

// WeekRange returns the half-open ISO week window [start, end) that is
// offset weeks before the week containing ref. offset 0 is the current
// week, 1 the previous week.
func WeekRange(offset int, ref time.Time) (time.Time, time.Time) {
	loc := ref.Location()
	day := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, loc)
	monday := day.AddDate(0, 0, -((int(day.Weekday()) + 6) % 7))
	start := monday.AddDate(0, 0, -7*offset)
	return start, start.AddDate(0, 0, 7)
}

// AggregateWeek rolls commits up into one WeeklyActivity per repository.
// Pure: output depends only on the inputs. Commits whose repository is not
// in repos are skipped. Contributors are the deduplicated non-nil author
// emails, sorted for deterministic storage. Languages counts commits per
// repository language.
func AggregateWeek(commits []Commit, repos map[int64]Repository, weekStart, weekEnd time.Time) []WeeklyActivity {
	type rollup struct {
		activity     WeeklyActivity
		contributors map[string]struct{}
	}
	byRepo := make(map[int64]*rollup)

	for _, commit := range commits {
		repo, ok := repos[commit.RepoID]
		if !ok {
			continue
		}
		r, ok := byRepo[commit.RepoID]
		if !ok {
			r = &rollup{
				activity: WeeklyActivity{
					RepoID:    commit.RepoID,
					WeekStart: weekStart,
					WeekEnd:   weekEnd,
					Languages: map[string]interface{}{},
				},
				contributors: map[string]struct{}{},
			}
			byRepo[commit.RepoID] = r
		}

		r.activity.CommitsCount++
		r.activity.LinesAdded += commit.Additions
		r.activity.LinesDeleted += commit.Deletions
		r.activity.FilesChanged += commit.FilesChanged
		if commit.AuthorEmail != nil && *commit.AuthorEmail != "" {
			r.contributors[*commit.AuthorEmail] = struct{}{}
		}
		if repo.Language != nil && *repo.Language != "" {
			count, _ := r.activity.Languages[*repo.Language].(float64)
			r.activity.Languages[*repo.Language] = count + 1
		}
	}

	repoIDs := make([]int64, 0, len(byRepo))
	for id := range byRepo {
		repoIDs = append(repoIDs, id)
	}
	sort.Slice(repoIDs, func(i, j int) bool { return repoIDs[i] < repoIDs[j] })

	activities := make([]WeeklyActivity, 0, len(byRepo))
	for _, id := range repoIDs {
		r := byRepo[id]
		contributors := make([]string, 0, len(r.contributors))
		for email := range r.contributors {
			contributors = append(contributors, email)
		}
		sort.Strings(contributors)
		r.activity.Contributors = contributors
		activities = append(activities, r.activity)
	}
	return activities
}
