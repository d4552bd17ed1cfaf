package publisher

import (
	"context"
	"errors"

	obsmetrics "github.com/devrecap/devrecap/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type ServiceParam struct {
	fx.In

	Log      *zap.Logger
	Notion   *NotionClient
	Exporter *FileExporter
	Metrics  *obsmetrics.Metrics `optional:"true"`
}

// Service fans a report out to every configured target. Targets fail
// independently: a Notion outage never blocks the local export.
type Service struct {
	log      *zap.Logger
	notion   *NotionClient
	exporter *FileExporter
	metrics  *obsmetrics.Metrics
}

func NewService(p ServiceParam) *Service {
	return &Service{
		log:      p.Log.Named("publisher.service"),
		notion:   p.Notion,
		exporter: p.Exporter,
		metrics:  p.Metrics,
	}
}

// Publish delivers the weekly report to all targets and joins their failures.
func (s *Service) Publish(ctx context.Context, report WeeklyReport) error {
	var errs []error

	errs = append(errs, s.createPage(ctx, report.Title(), report.Markdown())...)

	if _, err := s.exporter.ExportMarkdown(report.Title(), report.Markdown()); err != nil {
		s.log.Error("markdown export failed", zap.Error(err))
		errs = append(errs, err)
	} else {
		s.count("markdown")
	}
	payload := map[string]interface{}{
		"week_start": report.WeekStart,
		"week_end":   report.WeekEnd,
		"summary":    report.Summary,
		"activities": report.Activities,
	}
	if _, err := s.exporter.ExportJSON(report.Title(), payload); err != nil {
		s.log.Error("json export failed", zap.Error(err))
		errs = append(errs, err)
	} else {
		s.count("json")
	}

	return errors.Join(errs...)
}

// PublishDaily posts the daily record to Notion and writes the markdown
// export.
func (s *Service) PublishDaily(ctx context.Context, report DailyReport) error {
	var errs []error

	errs = append(errs, s.createPage(ctx, report.Title(), report.Markdown())...)

	if _, err := s.exporter.ExportMarkdown(report.Title(), report.Markdown()); err != nil {
		s.log.Error("markdown export failed", zap.Error(err))
		errs = append(errs, err)
	} else {
		s.count("markdown")
	}

	return errors.Join(errs...)
}

func (s *Service) createPage(ctx context.Context, title, body string) []error {
	if !s.notion.Enabled() {
		s.log.Warn("notion credentials not configured, skipping")
		return nil
	}
	if err := s.notion.CreatePage(ctx, title, body); err != nil {
		s.log.Error("notion publish failed", zap.Error(err))
		return []error{err}
	}
	s.count("notion")
	return nil
}

func (s *Service) count(target string) {
	if s.metrics != nil {
		s.metrics.ReportsPublished.WithLabelValues(target).Inc()
	}
}
