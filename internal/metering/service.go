// Package metering couples the usage ledger to the credit balance: every
// tracked call is recorded first, then deducted. The ledger's request-id
// dedup guarantees a retried call is never deducted twice.
package metering

import (
	"context"
	"errors"
	"fmt"

	balancedomain "github.com/devrecap/devrecap/internal/balance/domain"
	ledgerdomain "github.com/devrecap/devrecap/internal/ledger/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type ServiceParam struct {
	fx.In

	Log     *zap.Logger
	Ledger  ledgerdomain.Service
	Balance balancedomain.Service
}

type Service struct {
	log     *zap.Logger
	ledger  ledgerdomain.Service
	balance balancedomain.Service
}

func NewService(p ServiceParam) *Service {
	return &Service{
		log:     p.Log.Named("metering.service"),
		ledger:  p.Ledger,
		balance: p.Balance,
	}
}

// Track records the usage and deducts its cost from the credit balance.
//
// Ordering matters: the ledger write is the idempotency gate. A duplicate
// request id means the cost was already recorded AND deducted, so the whole
// call becomes a no-op. A missing balance row means billing is not enabled;
// the usage is still recorded and the deduction skipped with a warning. Any
// other deduction failure propagates — a recorded cost must never go
// undeducted silently.
func (s *Service) Track(ctx context.Context, record ledgerdomain.UsageRecord) error {
	err := s.ledger.Record(ctx, record)
	if errors.Is(err, ledgerdomain.ErrDuplicateRequest) {
		s.log.Debug("usage already tracked, skipping deduction",
			zap.String("request_id", record.RequestID),
		)
		return nil
	}
	if err != nil {
		return fmt.Errorf("record usage: %w", err)
	}

	remaining, err := s.balance.Deduct(ctx, record.TotalCost)
	if errors.Is(err, balancedomain.ErrBalanceNotFound) {
		s.log.Warn("credit balance not initialized, skipping deduction",
			zap.String("request_id", record.RequestID),
			zap.String("cost", record.TotalCost.Format()),
		)
		return nil
	}
	if err != nil {
		return fmt.Errorf("deduct usage cost: %w", err)
	}

	s.log.Info("usage tracked",
		zap.String("request_id", record.RequestID),
		zap.String("model", record.ModelID),
		zap.String("cost", record.TotalCost.Format()),
		zap.String("remaining_balance", remaining.FormatCents()),
	)
	return nil
}
