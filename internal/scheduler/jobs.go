package scheduler

import (
	"context"
	"errors"
	"fmt"

	activitydomain "github.com/devrecap/devrecap/internal/activity/domain"
	costdomain "github.com/devrecap/devrecap/internal/costreport/domain"
	"github.com/devrecap/devrecap/internal/costreport/format"
	"github.com/devrecap/devrecap/internal/costreport/render"
	ledgerdomain "github.com/devrecap/devrecap/internal/ledger/domain"
	"github.com/devrecap/devrecap/internal/publisher"
	"github.com/devrecap/devrecap/internal/summarizer"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// CollectJob syncs repositories and ingests recent commits.
func (s *Scheduler) CollectJob(ctx context.Context) error {
	result, err := s.Collect(ctx)
	if err != nil {
		return err
	}
	return result.Err()
}

// Collect fetches the user's repositories and their commits over the
// lookback window, then persists both. One repository's failure is logged,
// counted, and skipped; the rest of the run continues.
func (s *Scheduler) Collect(ctx context.Context) (RunResult, error) {
	var result RunResult
	now := s.clock.Now()
	since := now.Add(-s.cfg.CollectLookback)

	ghRepos, err := s.github.ListRepositories(ctx)
	if err != nil {
		return result, fmt.Errorf("list repositories: %w", err)
	}

	repos := make([]activitydomain.Repository, 0, len(ghRepos))
	for _, r := range ghRepos {
		repos = append(repos, activitydomain.Repository{
			ID:          r.ID,
			Name:        r.Name,
			FullName:    r.FullName,
			Description: r.Description,
			Language:    r.Language,
			Private:     r.Private,
			Stars:       r.Stars,
			Forks:       r.Forks,
			SyncedAt:    now,
		})
	}
	if err := s.activity.UpsertRepositories(ctx, repos); err != nil {
		return result, err
	}

	for _, repo := range ghRepos {
		if ctx.Err() != nil {
			result.Errors = append(result.Errors, ctx.Err())
			break
		}

		ghCommits, err := s.github.ListCommits(ctx, repo.FullName, since, now)
		if err != nil {
			result.ReposSkipped++
			result.Errors = append(result.Errors, err)
			s.log.Warn("repository collection failed, skipping",
				zap.String("repo", repo.FullName),
				zap.Error(err),
			)
			continue
		}

		commits := make([]activitydomain.Commit, 0, len(ghCommits))
		for _, c := range ghCommits {
			detail, err := s.github.GetCommitStats(ctx, repo.FullName, c.SHA)
			if err != nil {
				// Stats are best-effort; keep the commit without them.
				s.log.Warn("commit stats unavailable",
					zap.String("repo", repo.FullName),
					zap.String("sha", c.SHA),
					zap.Error(err),
				)
				detail = c
			}
			var email *string
			if c.Commit.Author.Email != "" {
				value := c.Commit.Author.Email
				email = &value
			}
			commits = append(commits, activitydomain.Commit{
				RepoID:       repo.ID,
				SHA:          c.SHA,
				Message:      c.Commit.Message,
				AuthorName:   c.Commit.Author.Name,
				AuthorEmail:  email,
				CommittedAt:  c.Commit.Author.Date,
				Additions:    detail.Stats.Additions,
				Deletions:    detail.Stats.Deletions,
				FilesChanged: int64(len(detail.Files)),
				URL:          c.HTMLURL,
			})
		}

		ingest, err := s.activity.IngestCommits(ctx, commits)
		if err != nil {
			result.ReposSkipped++
			result.Errors = append(result.Errors, err)
			continue
		}
		result.ReposProcessed++
		result.CommitsIngested += ingest.Ingested
		result.Errors = append(result.Errors, ingest.Errors...)
	}

	s.log.Info("collection finished",
		zap.Int("repos_processed", result.ReposProcessed),
		zap.Int("repos_skipped", result.ReposSkipped),
		zap.Int("commits_ingested", result.CommitsIngested),
		zap.Int("errors", len(result.Errors)),
	)
	return result, nil
}

// WeeklyReportJob aggregates the previous ISO week, summarizes it with the
// LLM (metered), and publishes the report.
func (s *Scheduler) WeeklyReportJob(ctx context.Context) error {
	weekStart, weekEnd := activitydomain.WeekRange(1, s.clock.Now())

	commits, err := s.activity.CommitsInRange(ctx, weekStart, weekEnd)
	if err != nil {
		return fmt.Errorf("load commits: %w", err)
	}
	if len(commits) == 0 {
		s.log.Info("no commits last week, skipping report",
			zap.Time("week_start", weekStart),
		)
		return nil
	}

	repoIDs := make([]int64, 0, len(commits))
	seen := make(map[int64]struct{})
	for _, c := range commits {
		if _, ok := seen[c.RepoID]; ok {
			continue
		}
		seen[c.RepoID] = struct{}{}
		repoIDs = append(repoIDs, c.RepoID)
	}
	repos, err := s.activity.RepositoriesByID(ctx, repoIDs)
	if err != nil {
		return fmt.Errorf("load repositories: %w", err)
	}

	activities := activitydomain.AggregateWeek(commits, repos, weekStart, weekEnd)
	if err := s.activity.UpsertActivities(ctx, activities); err != nil {
		return err
	}

	prompt := summarizer.BuildWeeklyPrompt(activities, repos, weekStart)
	summary, err := s.summarizer.Summarize(ctx, prompt)
	if err != nil {
		return fmt.Errorf("summarize week: %w", err)
	}

	var jobErr error
	if err := s.trackSummaryUsage(ctx, "weekly_summary", weekStart.Format("2006-01-02"), summary.Usage); err != nil {
		jobErr = errors.Join(jobErr, err)
	}

	report := publisher.WeeklyReport{
		WeekStart:    weekStart,
		WeekEnd:      weekEnd,
		Summary:      summary.Text,
		Activities:   activities,
		Repositories: repos,
	}
	if err := s.publisher.Publish(ctx, report); err != nil {
		jobErr = errors.Join(jobErr, err)
	}

	if s.appCfg.NotifyTo != "" {
		err := s.email.Send(ctx, []string{s.appCfg.NotifyTo}, report.Title(), report.Markdown(), "")
		if err != nil {
			jobErr = errors.Join(jobErr, err)
		}
	}
	return jobErr
}

// trackSummaryUsage meters one summarization call. The ledger request id is
// derived from the operation and period key rather than the provider's
// message id: a re-run after a publish failure issues a fresh provider id,
// and must not bill the same period twice.
func (s *Scheduler) trackSummaryUsage(ctx context.Context, op, periodKey string, usage summarizer.TokenUsage) error {
	inputCost, outputCost, err := summarizer.ComputeCost(usage.Model, usage.InputTokens, usage.OutputTokens)
	if err != nil {
		return fmt.Errorf("price model %s: %w", usage.Model, err)
	}
	return s.metering.Track(ctx, ledgerdomain.UsageRecord{
		RequestID:     op + ":" + periodKey,
		ModelID:       usage.Model,
		InputTokens:   usage.InputTokens,
		OutputTokens:  usage.OutputTokens,
		InputCost:     inputCost,
		OutputCost:    outputCost,
		TotalCost:     inputCost + outputCost,
		OperationType: op,
		Metadata: datatypes.JSONMap{
			"period_key":          periodKey,
			"provider_request_id": usage.RequestID,
		},
	})
}

// DailyActivityJob records the previous day: commit and repository counts,
// an estimated working-hours span, a progress status inferred from commit
// messages, and an LLM analysis (metered) posted to the publishing targets.
func (s *Scheduler) DailyActivityJob(ctx context.Context) error {
	dayStart, dayEnd := activitydomain.DayRange(1, s.clock.Now())

	commits, err := s.activity.CommitsInRange(ctx, dayStart, dayEnd)
	if err != nil {
		return fmt.Errorf("load commits: %w", err)
	}
	if len(commits) == 0 {
		s.log.Info("no commits yesterday, skipping daily record",
			zap.Time("date", dayStart),
		)
		return nil
	}

	repoIDs := make([]int64, 0, len(commits))
	seen := make(map[int64]struct{})
	for _, c := range commits {
		if _, ok := seen[c.RepoID]; ok {
			continue
		}
		seen[c.RepoID] = struct{}{}
		repoIDs = append(repoIDs, c.RepoID)
	}
	repos, err := s.activity.RepositoriesByID(ctx, repoIDs)
	if err != nil {
		return fmt.Errorf("load repositories: %w", err)
	}

	workingHours := activitydomain.EstimateWorkingHours(commits)
	status := activitydomain.CategorizeStatus(commits)

	prompt := summarizer.BuildDailyPrompt(commits, repos, dayStart)
	summary, err := s.summarizer.Summarize(ctx, prompt)
	if err != nil {
		return fmt.Errorf("analyze day: %w", err)
	}

	dateKey := dayStart.Format("2006-01-02")
	var jobErr error
	if err := s.trackSummaryUsage(ctx, "daily_analysis", dateKey, summary.Usage); err != nil {
		jobErr = errors.Join(jobErr, err)
	}

	record := activitydomain.DailyRecord{
		Date:         dayStart,
		CommitsCount: int64(len(commits)),
		ReposCount:   int64(len(repoIDs)),
		WorkingHours: workingHours,
		Status:       status,
		Summary:      summary.Text,
	}
	if err := s.activity.UpsertDailyRecord(ctx, record); err != nil {
		jobErr = errors.Join(jobErr, err)
	}

	report := publisher.DailyReport{
		Date:         dayStart,
		CommitsCount: len(commits),
		ReposCount:   len(repoIDs),
		WorkingHours: workingHours,
		Status:       status,
		Summary:      summary.Text,
	}
	if err := s.publisher.PublishDaily(ctx, report); err != nil {
		jobErr = errors.Join(jobErr, err)
	}
	return jobErr
}

// CostReportJob generates the period cost report and emails it, with a
// separate alert when the period's threshold is exceeded.
func (s *Scheduler) CostReportJob(ctx context.Context, kind costdomain.PeriodKind) error {
	report, err := s.costreport.Generate(ctx, kind)
	if err != nil {
		return fmt.Errorf("generate %s report: %w", kind, err)
	}

	if s.appCfg.NotifyTo == "" {
		s.log.Warn("notify email not configured, skipping cost report delivery",
			zap.String("period", string(kind)),
		)
		return nil
	}

	text := format.FormatText(report)
	html, err := render.RenderHTML(report)
	if err != nil {
		return err
	}

	to := []string{s.appCfg.NotifyTo}
	var jobErr error
	if err := s.email.Send(ctx, to, report.Period, text, html); err != nil {
		jobErr = errors.Join(jobErr, err)
	}

	if report.ThresholdExceeded && report.Threshold != nil {
		alert := format.FormatThresholdAlert(kind, report.TotalCost, *report.Threshold)
		subject := fmt.Sprintf("Cost alert: %s threshold exceeded", kind)
		if err := s.email.Send(ctx, to, subject, alert, ""); err != nil {
			jobErr = errors.Join(jobErr, err)
		}
	}
	return jobErr
}
