// Package scheduler orchestrates the periodic jobs: commit collection, the
// daily activity record, the weekly activity report, and the
// daily/weekly/monthly cost reports.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	activitydomain "github.com/devrecap/devrecap/internal/activity/domain"
	"github.com/devrecap/devrecap/internal/clock"
	"github.com/devrecap/devrecap/internal/config"
	costdomain "github.com/devrecap/devrecap/internal/costreport/domain"
	"github.com/devrecap/devrecap/internal/github"
	"github.com/devrecap/devrecap/internal/metering"
	"github.com/devrecap/devrecap/internal/observability/logger"
	obsmetrics "github.com/devrecap/devrecap/internal/observability/metrics"
	"github.com/devrecap/devrecap/internal/providers/email"
	"github.com/devrecap/devrecap/internal/publisher"
	"github.com/devrecap/devrecap/internal/summarizer"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var ErrInvalidConfig = errors.New("invalid_scheduler_config")

type Params struct {
	fx.In

	Log        *zap.Logger
	Clock      clock.Clock
	AppConfig  config.Config
	Activity   activitydomain.Service
	GitHub     *github.Client
	Summarizer *summarizer.Client
	Metering   *metering.Service
	CostReport costdomain.Service
	Publisher  *publisher.Service
	Email      email.Provider
	Metrics    *obsmetrics.Metrics `optional:"true"`
	Config     Config              `optional:"true"`
}

type Scheduler struct {
	log        *zap.Logger
	cfg        Config
	appCfg     config.Config
	clock      clock.Clock
	activity   activitydomain.Service
	github     *github.Client
	summarizer *summarizer.Client
	metering   *metering.Service
	costreport costdomain.Service
	publisher  *publisher.Service
	email      email.Provider
	metrics    *obsmetrics.Metrics

	mu      sync.Mutex
	lastRun map[string]time.Time
}

func New(p Params) (*Scheduler, error) {
	if p.Log == nil || p.Clock == nil || p.Activity == nil || p.GitHub == nil ||
		p.Summarizer == nil || p.Metering == nil || p.CostReport == nil ||
		p.Publisher == nil || p.Email == nil {
		return nil, ErrInvalidConfig
	}
	return &Scheduler{
		log:        p.Log.Named("scheduler").With(zap.String("component", "scheduler")),
		cfg:        p.Config.withDefaults(),
		appCfg:     p.AppConfig,
		clock:      p.Clock,
		activity:   p.Activity,
		github:     p.GitHub,
		summarizer: p.Summarizer,
		metering:   p.Metering,
		costreport: p.CostReport,
		publisher:  p.Publisher,
		email:      p.Email,
		metrics:    p.Metrics,
		lastRun:    make(map[string]time.Time),
	}, nil
}

// RunResult reports what one collection run accomplished. Per-repo failures
// are collected rather than aborting the run.
type RunResult struct {
	ReposProcessed  int
	ReposSkipped    int
	CommitsIngested int
	Errors          []error
}

func (r RunResult) Err() error {
	return errors.Join(r.Errors...)
}

func (s *Scheduler) runJob(parent context.Context, name string, fn func(ctx context.Context) error) (err error) {
	ctx, cancel := context.WithTimeout(parent, s.cfg.JobTimeout)
	defer cancel()

	start := s.clock.Now()
	log := logger.WithContext(ctx, s.log).With(zap.String("job", name))
	log.Info("job started")
	if s.metrics != nil {
		s.metrics.JobRuns.WithLabelValues(name).Inc()
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: panic: %v", name, r)
		}
		if err != nil {
			if s.metrics != nil {
				s.metrics.JobErrors.WithLabelValues(name).Inc()
			}
			log.Warn("job failed",
				zap.Duration("elapsed", time.Since(start)),
				zap.Error(err),
			)
			return
		}
		log.Info("job finished", zap.Duration("elapsed", time.Since(start)))
	}()

	if err = fn(ctx); err != nil {
		err = fmt.Errorf("%s: %w", name, err)
	}
	return err
}

// RunOnce executes every enabled job that has become due since its last
// run. Job failures are joined, never fatal to the loop.
func (s *Scheduler) RunOnce(parent context.Context) error {
	var err error

	jobs := []struct {
		Name   string
		Period costdomain.PeriodKind
		Run    func(context.Context) error
	}{
		{"collect", costdomain.PeriodDaily, s.CollectJob},
		{"daily_activity", costdomain.PeriodDaily, s.DailyActivityJob},
		{"cost_report_daily", costdomain.PeriodDaily, func(ctx context.Context) error {
			return s.CostReportJob(ctx, costdomain.PeriodDaily)
		}},
		{"weekly_report", costdomain.PeriodWeekly, s.WeeklyReportJob},
		{"cost_report_weekly", costdomain.PeriodWeekly, func(ctx context.Context) error {
			return s.CostReportJob(ctx, costdomain.PeriodWeekly)
		}},
		{"cost_report_monthly", costdomain.PeriodMonthly, func(ctx context.Context) error {
			return s.CostReportJob(ctx, costdomain.PeriodMonthly)
		}},
	}

	for _, job := range jobs {
		if !s.isJobEnabled(job.Name) || !s.isDue(job.Name, job.Period) {
			continue
		}
		jobErr := s.runJob(parent, job.Name, job.Run)
		if jobErr == nil {
			s.markRun(job.Name)
		}
		err = errors.Join(err, jobErr)
	}
	return err
}

func (s *Scheduler) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.RunInterval)
	defer ticker.Stop()

	for {
		if err := s.RunOnce(ctx); err != nil {
			s.log.Warn("scheduler run failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Scheduler) isJobEnabled(jobName string) bool {
	// Empty EnabledJobs means all jobs run (monolith mode).
	if len(s.cfg.EnabledJobs) == 0 {
		return true
	}
	for _, enabled := range s.cfg.EnabledJobs {
		if strings.EqualFold(enabled, jobName) {
			return true
		}
	}
	return false
}

// isDue reports whether the job has not yet run in the current calendar
// period and the reporting hour has passed.
func (s *Scheduler) isDue(jobName string, kind costdomain.PeriodKind) bool {
	now := s.clock.Now()
	if now.Hour() < s.cfg.ReportHour {
		return false
	}
	periodStart, _ := costdomain.PeriodWindow(kind, now)

	s.mu.Lock()
	defer s.mu.Unlock()
	last, ok := s.lastRun[jobName]
	return !ok || last.Before(periodStart)
}

func (s *Scheduler) markRun(jobName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastRun[jobName] = s.clock.Now()
}
