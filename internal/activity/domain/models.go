// Package domain contains persistence models for source-control activity.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Repository mirrors a remote repository. The primary key is the remote
// provider's repository id, so re-syncs address the same row.
type Repository struct {
	ID          int64     `gorm:"primaryKey;autoIncrement:false"`
	Name        string    `gorm:"type:text;not null"`
	FullName    string    `gorm:"type:text;not null;uniqueIndex:ux_repositories_full_name"`
	Description *string   `gorm:"type:text"`
	Language    *string   `gorm:"type:text"`
	Private     bool      `gorm:"not null;default:false"`
	Stars       int64     `gorm:"not null;default:0"`
	Forks       int64     `gorm:"not null;default:0"`
	SyncedAt    time.Time `gorm:"not null"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Repository) TableName() string { return "repositories" }

// Commit is one commit observed on a repository. (repo_id, sha) is the
// idempotency key for ingestion.
type Commit struct {
	ID           snowflake.ID `gorm:"primaryKey"`
	RepoID       int64        `gorm:"not null;uniqueIndex:ux_commits_repo_sha;index"`
	SHA          string       `gorm:"type:text;not null;uniqueIndex:ux_commits_repo_sha"`
	Message      string       `gorm:"type:text"`
	AuthorName   string       `gorm:"type:text"`
	AuthorEmail  *string      `gorm:"type:text"`
	CommittedAt  time.Time    `gorm:"not null;index"`
	Additions    int64        `gorm:"not null;default:0"`
	Deletions    int64        `gorm:"not null;default:0"`
	FilesChanged int64        `gorm:"not null;default:0"`
	URL          string       `gorm:"type:text"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Commit) TableName() string { return "commits" }

// WeeklyActivity is the per-repository rollup for one ISO week, keyed
// (repo_id, week_start) so re-aggregating a week overwrites in place.
type WeeklyActivity struct {
	ID           snowflake.ID                `gorm:"primaryKey"`
	RepoID       int64                       `gorm:"not null;uniqueIndex:ux_weekly_activities_repo_week"`
	WeekStart    time.Time                   `gorm:"not null;uniqueIndex:ux_weekly_activities_repo_week;index"`
	WeekEnd      time.Time                   `gorm:"not null"`
	CommitsCount int64                       `gorm:"not null;default:0"`
	LinesAdded   int64                       `gorm:"not null;default:0"`
	LinesDeleted int64                       `gorm:"not null;default:0"`
	FilesChanged int64                       `gorm:"not null;default:0"`
	Contributors datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	Languages    datatypes.JSONMap           `gorm:"type:jsonb"`
	CreatedAt    time.Time                   `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time                   `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (WeeklyActivity) TableName() string { return "weekly_activities" }

// IngestResult reports the per-record outcome of a commit ingestion run.
// Failures are accumulated rather than aborting the batch.
type IngestResult struct {
	Ingested   int
	Duplicates int
	Failed     int
	Errors     []error
}

type Service interface {
	// UpsertRepositories writes repository snapshots, updating rows that
	// already exist for the same remote id.
	UpsertRepositories(ctx context.Context, repos []Repository) error
	// IngestCommits inserts commits, treating an existing (repo_id, sha)
	// as a successful no-op. Row-level failures are collected in the result.
	IngestCommits(ctx context.Context, commits []Commit) (IngestResult, error)
	// UpsertActivities writes weekly rollups, replacing any existing row
	// for the same (repo_id, week_start).
	UpsertActivities(ctx context.Context, activities []WeeklyActivity) error
	// CommitsInRange returns commits with committed_at in [start, end).
	CommitsInRange(ctx context.Context, start, end time.Time) ([]Commit, error)
	// RepositoriesByID returns the repositories for the given remote ids.
	RepositoriesByID(ctx context.Context, ids []int64) (map[int64]Repository, error)
	// ActivitiesForWeek returns all rollups stored for one week start.
	ActivitiesForWeek(ctx context.Context, weekStart time.Time) ([]WeeklyActivity, error)
	// UpsertDailyRecord writes a day's rollup, replacing any existing row
	// for the same date.
	UpsertDailyRecord(ctx context.Context, record DailyRecord) error
}

var ErrNoActivities = errors.New("no_weekly_activities")
