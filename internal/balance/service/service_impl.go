package service

import (
	"context"
	"errors"

	balancedomain "github.com/devrecap/devrecap/internal/balance/domain"
	"github.com/devrecap/devrecap/internal/clock"
	ledgerdomain "github.com/devrecap/devrecap/internal/ledger/domain"
	obsmetrics "github.com/devrecap/devrecap/internal/observability/metrics"
	"github.com/devrecap/devrecap/pkg/db"
	"github.com/devrecap/devrecap/pkg/money"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// deductRetries bounds the optimistic-update loop. Contention here is a few
// scheduled jobs at most, so a handful of attempts is plenty.
const deductRetries = 25

type ServiceParam struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	Clock      clock.Clock
	Ledger     ledgerdomain.Service
	Metrics    *obsmetrics.Metrics `optional:"true"`
	AlertLevel money.Money         `name:"balance_alert_level" optional:"true"`
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	clock      clock.Clock
	ledger     ledgerdomain.Service
	metrics    *obsmetrics.Metrics
	alertLevel money.Money
}

func NewService(p ServiceParam) balancedomain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("balance.service"),
		clock:      p.Clock,
		ledger:     p.Ledger,
		metrics:    p.Metrics,
		alertLevel: p.AlertLevel,
	}
}

func (s *Service) CurrentBalance(ctx context.Context) (money.Money, error) {
	record, err := s.fetch(ctx)
	if err != nil {
		if errors.Is(err, balancedomain.ErrBalanceNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return record.Balance, nil
}

func (s *Service) Initialize(ctx context.Context, initial money.Money) error {
	if initial <= 0 {
		return balancedomain.ErrInvalidAmount
	}

	existing, err := s.fetch(ctx)
	if err != nil && !errors.Is(err, balancedomain.ErrBalanceNotFound) {
		return err
	}
	if existing != nil {
		s.log.Info("credit balance already initialized",
			zap.String("balance", existing.Balance.FormatCents()),
		)
		return nil
	}

	now := s.clock.Now()
	record := balancedomain.CreditBalance{
		ID:             balancedomain.SingletonID,
		Balance:        initial,
		InitialBalance: initial,
		LastRechargeAt: now,
		UpdatedAt:      now,
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		// A concurrent initializer won the race; the singleton exists.
		if db.IsDuplicateKeyErr(err) {
			return nil
		}
		return err
	}

	s.log.Info("credit balance initialized",
		zap.String("balance", initial.FormatCents()),
	)
	return nil
}

// Deduct performs a compare-and-swap on the balance column: the update only
// lands when the row still holds the previously read value, so concurrent
// deductions never lose updates.
func (s *Service) Deduct(ctx context.Context, amount money.Money) (money.Money, error) {
	if amount < 0 {
		return 0, balancedomain.ErrInvalidAmount
	}

	for attempt := 0; attempt < deductRetries; attempt++ {
		record, err := s.fetch(ctx)
		if err != nil {
			return 0, err
		}

		newBalance := record.Balance - amount
		result := s.db.WithContext(ctx).
			Model(&balancedomain.CreditBalance{}).
			Where("id = ? AND balance = ?", record.ID, record.Balance).
			Updates(map[string]any{
				"balance":    newBalance,
				"updated_at": s.clock.Now(),
			})
		if result.Error != nil {
			return 0, result.Error
		}
		if result.RowsAffected == 0 {
			// Another deduction landed first; re-read and retry.
			continue
		}

		s.log.Info("balance updated",
			zap.String("previous", record.Balance.FormatCents()),
			zap.String("balance", newBalance.FormatCents()),
		)
		s.alertIfLow(newBalance)
		return newBalance, nil
	}

	return 0, balancedomain.ErrDeductConflict
}

func (s *Service) Reconcile(ctx context.Context) (money.Money, error) {
	record, err := s.fetch(ctx)
	if err != nil {
		return 0, err
	}

	spent, err := s.ledger.TotalCost(ctx, record.LastRechargeAt, s.clock.Now())
	if err != nil {
		return 0, err
	}

	expected := record.InitialBalance - spent
	drift := record.Balance - expected
	if drift != 0 {
		s.log.Warn("balance drift detected",
			zap.String("stored", record.Balance.Format()),
			zap.String("expected", expected.Format()),
			zap.String("drift", drift.Format()),
		)
	}
	return drift, nil
}

func (s *Service) fetch(ctx context.Context) (*balancedomain.CreditBalance, error) {
	var record balancedomain.CreditBalance
	err := s.db.WithContext(ctx).First(&record, balancedomain.SingletonID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, balancedomain.ErrBalanceNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (s *Service) alertIfLow(current money.Money) {
	if s.alertLevel <= 0 || current >= s.alertLevel {
		return
	}
	if current < 0 {
		s.log.Error("credit balance depleted",
			zap.String("balance", current.FormatCents()),
		)
		if s.metrics != nil {
			s.metrics.BalanceAlerts.WithLabelValues("critical").Inc()
		}
		return
	}
	s.log.Warn("low balance warning",
		zap.String("balance", current.FormatCents()),
	)
	if s.metrics != nil {
		s.metrics.BalanceAlerts.WithLabelValues("warning").Inc()
	}
}
