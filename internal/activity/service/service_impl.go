package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	activitydomain "github.com/devrecap/devrecap/internal/activity/domain"
	obsmetrics "github.com/devrecap/devrecap/internal/observability/metrics"
	"github.com/devrecap/devrecap/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ServiceParam struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Metrics *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	metrics *obsmetrics.Metrics
}

func NewService(p ServiceParam) activitydomain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("activity.service"),
		genID:   p.GenID,
		metrics: p.Metrics,
	}
}

func (s *Service) UpsertRepositories(ctx context.Context, repos []activitydomain.Repository) error {
	if len(repos) == 0 {
		return nil
	}
	now := time.Now().UTC()
	for i := range repos {
		if repos[i].SyncedAt.IsZero() {
			repos[i].SyncedAt = now
		}
		repos[i].UpdatedAt = now
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "full_name", "description", "language",
				"private", "stars", "forks", "synced_at", "updated_at",
			}),
		}).
		Create(&repos).Error
	if err != nil {
		return fmt.Errorf("upsert repositories: %w", err)
	}
	s.log.Info("repositories synced", zap.Int("count", len(repos)))
	return nil
}

func (s *Service) IngestCommits(ctx context.Context, commits []activitydomain.Commit) (activitydomain.IngestResult, error) {
	var result activitydomain.IngestResult
	for i := range commits {
		commit := commits[i]
		if commit.ID == 0 {
			commit.ID = s.genID.Generate()
		}

		res := s.db.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "repo_id"}, {Name: "sha"}},
				DoNothing: true,
			}).
			Create(&commit)
		switch {
		case res.Error != nil && db.IsDuplicateKeyErr(res.Error):
			result.Duplicates++
		case res.Error != nil:
			result.Failed++
			result.Errors = append(result.Errors,
				fmt.Errorf("commit %s (repo %d): %w", commit.SHA, commit.RepoID, res.Error))
			s.log.Warn("commit ingest failed",
				zap.Int64("repo_id", commit.RepoID),
				zap.String("sha", commit.SHA),
				zap.Error(res.Error),
			)
		case res.RowsAffected == 0:
			result.Duplicates++
		default:
			result.Ingested++
			if s.metrics != nil {
				s.metrics.CommitsIngested.Inc()
			}
		}
	}

	s.log.Info("commits ingested",
		zap.Int("ingested", result.Ingested),
		zap.Int("duplicates", result.Duplicates),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}

func (s *Service) UpsertActivities(ctx context.Context, activities []activitydomain.WeeklyActivity) error {
	if len(activities) == 0 {
		return nil
	}
	now := time.Now().UTC()
	for i := range activities {
		if activities[i].ID == 0 {
			activities[i].ID = s.genID.Generate()
		}
		activities[i].UpdatedAt = now
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "repo_id"}, {Name: "week_start"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"week_end", "commits_count", "lines_added", "lines_deleted",
				"files_changed", "contributors", "languages", "updated_at",
			}),
		}).
		Create(&activities).Error
	if err != nil {
		return fmt.Errorf("upsert weekly activities: %w", err)
	}
	s.log.Info("weekly activities upserted", zap.Int("count", len(activities)))
	return nil
}

func (s *Service) UpsertDailyRecord(ctx context.Context, record activitydomain.DailyRecord) error {
	if record.ID == 0 {
		record.ID = s.genID.Generate()
	}
	record.UpdatedAt = time.Now().UTC()
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"commits_count", "repos_count", "working_hours",
				"status", "summary", "updated_at",
			}),
		}).
		Create(&record).Error
	if err != nil {
		return fmt.Errorf("upsert daily record: %w", err)
	}
	s.log.Info("daily record upserted",
		zap.Time("date", record.Date),
		zap.Int64("commits", record.CommitsCount),
	)
	return nil
}

func (s *Service) CommitsInRange(ctx context.Context, start, end time.Time) ([]activitydomain.Commit, error) {
	var commits []activitydomain.Commit
	err := s.db.WithContext(ctx).
		Where("committed_at >= ? AND committed_at < ?", start, end).
		Order("committed_at").
		Find(&commits).Error
	if err != nil {
		return nil, err
	}
	return commits, nil
}

func (s *Service) RepositoriesByID(ctx context.Context, ids []int64) (map[int64]activitydomain.Repository, error) {
	repos := make(map[int64]activitydomain.Repository, len(ids))
	if len(ids) == 0 {
		return repos, nil
	}
	var rows []activitydomain.Repository
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, repo := range rows {
		repos[repo.ID] = repo
	}
	return repos, nil
}

func (s *Service) ActivitiesForWeek(ctx context.Context, weekStart time.Time) ([]activitydomain.WeeklyActivity, error) {
	var activities []activitydomain.WeeklyActivity
	err := s.db.WithContext(ctx).
		Where("week_start = ?", weekStart).
		Order("repo_id").
		Find(&activities).Error
	if err != nil {
		return nil, err
	}
	return activities, nil
}
