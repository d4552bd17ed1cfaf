package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	ledgerdomain "github.com/devrecap/devrecap/internal/ledger/domain"
	obsmetrics "github.com/devrecap/devrecap/internal/observability/metrics"
	"github.com/devrecap/devrecap/pkg/money"
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

func NewService(p ServiceParam) ledgerdomain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("ledger.service"),
		genID:   p.GenID,
		metrics: p.Metrics,
	}
}

func (s *Service) Record(ctx context.Context, record ledgerdomain.UsageRecord) error {
	if err := validateRecord(&record); err != nil {
		return err
	}
	if record.ID == 0 {
		record.ID = s.genID.Generate()
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now().UTC()
	}

	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "request_id"}},
			DoNothing: true,
		}).
		Create(&record)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		s.log.Debug("usage record deduplicated",
			zap.String("request_id", record.RequestID),
		)
		return ledgerdomain.ErrDuplicateRequest
	}

	if s.metrics != nil {
		s.metrics.UsageRecords.WithLabelValues(record.ModelID, record.OperationType).Inc()
		s.metrics.UsageCost.WithLabelValues(record.ModelID).Add(float64(record.TotalCost))
	}

	s.log.Info("usage recorded",
		zap.String("request_id", record.RequestID),
		zap.String("model", record.ModelID),
		zap.String("cost", record.TotalCost.Format()),
	)
	return nil
}

func (s *Service) TotalCost(ctx context.Context, start, end time.Time) (money.Money, error) {
	var total int64
	err := s.db.WithContext(ctx).
		Model(&ledgerdomain.UsageRecord{}).
		Select("COALESCE(SUM(total_cost), 0)").
		Where("timestamp >= ? AND timestamp < ?", start, end).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return money.Money(total), nil
}

func (s *Service) BreakdownByModel(ctx context.Context, start, end time.Time) (map[string]ledgerdomain.ModelUsage, error) {
	type row struct {
		ModelID      string
		Requests     int64
		InputTokens  int64
		OutputTokens int64
		TotalCost    int64
	}
	var rows []row
	err := s.db.WithContext(ctx).
		Model(&ledgerdomain.UsageRecord{}).
		Select(`model_id,
			COUNT(*) AS requests,
			SUM(input_tokens) AS input_tokens,
			SUM(output_tokens) AS output_tokens,
			SUM(total_cost) AS total_cost`).
		Where("timestamp >= ? AND timestamp < ?", start, end).
		Group("model_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	breakdown := make(map[string]ledgerdomain.ModelUsage, len(rows))
	for _, r := range rows {
		breakdown[r.ModelID] = ledgerdomain.ModelUsage{
			Requests:     r.Requests,
			InputTokens:  r.InputTokens,
			OutputTokens: r.OutputTokens,
			TotalCost:    money.Money(r.TotalCost),
		}
	}
	return breakdown, nil
}

func validateRecord(record *ledgerdomain.UsageRecord) error {
	record.RequestID = strings.TrimSpace(record.RequestID)
	if record.RequestID == "" {
		return ledgerdomain.ErrInvalidRecord
	}
	record.ModelID = strings.TrimSpace(record.ModelID)
	if record.ModelID == "" {
		return ledgerdomain.ErrInvalidRecord
	}
	if record.InputTokens < 0 || record.OutputTokens < 0 {
		return ledgerdomain.ErrInvalidRecord
	}
	if record.TotalCost != record.InputCost+record.OutputCost {
		return ledgerdomain.ErrInvalidRecord
	}
	return nil
}
