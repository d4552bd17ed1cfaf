package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	balancedomain "github.com/devrecap/devrecap/internal/balance/domain"
	"github.com/devrecap/devrecap/internal/clock"
	costdomain "github.com/devrecap/devrecap/internal/costreport/domain"
	ledgerdomain "github.com/devrecap/devrecap/internal/ledger/domain"
	"github.com/devrecap/devrecap/pkg/money"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	Clock   clock.Clock
	Ledger  ledgerdomain.Service
	Balance balancedomain.Service
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	clock   clock.Clock
	ledger  ledgerdomain.Service
	balance balancedomain.Service
}

func NewService(p ServiceParam) costdomain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("costreport.service"),
		clock:   p.Clock,
		ledger:  p.Ledger,
		balance: p.Balance,
	}
}

func (s *Service) Aggregate(ctx context.Context, start, end time.Time) (costdomain.PeriodReport, error) {
	total, err := s.ledger.TotalCost(ctx, start, end)
	if err != nil {
		return costdomain.PeriodReport{}, fmt.Errorf("total cost: %w", err)
	}
	breakdown, err := s.ledger.BreakdownByModel(ctx, start, end)
	if err != nil {
		return costdomain.PeriodReport{}, fmt.Errorf("model breakdown: %w", err)
	}
	if breakdown == nil {
		breakdown = map[string]ledgerdomain.ModelUsage{}
	}
	return costdomain.PeriodReport{
		Start:          start,
		End:            end,
		TotalCost:      total,
		ModelBreakdown: breakdown,
	}, nil
}

func (s *Service) Generate(ctx context.Context, kind costdomain.PeriodKind) (costdomain.PeriodReport, error) {
	if !kind.Valid() {
		return costdomain.PeriodReport{}, costdomain.ErrInvalidPeriod
	}

	now := s.clock.Now()
	start, end := costdomain.PeriodWindow(kind, now)
	report, err := s.Aggregate(ctx, start, end)
	if err != nil {
		return costdomain.PeriodReport{}, err
	}
	report.Kind = kind
	report.Period = periodLabel(kind, start)

	result, err := s.Evaluate(ctx, kind, report.TotalCost)
	if err != nil {
		return costdomain.PeriodReport{}, err
	}
	report.Threshold = result.Threshold
	report.ThresholdExceeded = result.Exceeded
	report.Excess = result.Excess

	// Balance context is only attached to daily reports, which double as the
	// running statement of the current month.
	if kind == costdomain.PeriodDaily {
		if err := s.attachBalance(ctx, now, end, &report); err != nil {
			return costdomain.PeriodReport{}, err
		}
	}
	return report, nil
}

func (s *Service) Evaluate(ctx context.Context, kind costdomain.PeriodKind, total money.Money) (costdomain.ThresholdResult, error) {
	if !kind.Valid() {
		return costdomain.ThresholdResult{}, costdomain.ErrInvalidPeriod
	}

	var threshold costdomain.CostThreshold
	err := s.db.WithContext(ctx).
		Where("period = ? AND enabled = ?", kind, true).
		Order("id").
		First(&threshold).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return costdomain.ThresholdResult{}, nil
		}
		return costdomain.ThresholdResult{}, err
	}

	amount := threshold.ThresholdAmount
	result := costdomain.ThresholdResult{Threshold: &amount}
	if total > amount {
		result.Exceeded = true
		result.Excess = total - amount
	}
	return result, nil
}

func (s *Service) attachBalance(ctx context.Context, now, periodEnd time.Time, report *costdomain.PeriodReport) error {
	var record balancedomain.CreditBalance
	err := s.db.WithContext(ctx).First(&record, balancedomain.SingletonID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	monthStart, _ := costdomain.PeriodWindow(costdomain.PeriodMonthly, now)
	monthToDate, err := s.ledger.TotalCost(ctx, monthStart, periodEnd)
	if err != nil {
		return err
	}

	credit := record.Balance
	remaining := record.InitialBalance - monthToDate
	report.CreditBalance = &credit
	report.RemainingBalance = &remaining
	return nil
}

func periodLabel(kind costdomain.PeriodKind, start time.Time) string {
	switch kind {
	case costdomain.PeriodWeekly:
		return fmt.Sprintf("Weekly report - week of %s", start.Format("2006-01-02"))
	case costdomain.PeriodMonthly:
		return fmt.Sprintf("Monthly report - %s", start.Format("January 2006"))
	default:
		return fmt.Sprintf("Daily report - %s", start.Format("2006-01-02"))
	}
}
