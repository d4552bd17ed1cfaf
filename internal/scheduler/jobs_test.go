package scheduler

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	balancedomain "github.com/devrecap/devrecap/internal/balance/domain"
	balanceservice "github.com/devrecap/devrecap/internal/balance/service"
	"github.com/devrecap/devrecap/internal/clock"
	ledgerdomain "github.com/devrecap/devrecap/internal/ledger/domain"
	ledgerservice "github.com/devrecap/devrecap/internal/ledger/service"
	"github.com/devrecap/devrecap/internal/metering"
	"github.com/devrecap/devrecap/internal/providers/email"
	"github.com/devrecap/devrecap/internal/summarizer"
	"github.com/devrecap/devrecap/pkg/money"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newMeteredScheduler(t *testing.T) (*Scheduler, ledgerdomain.Service) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&ledgerdomain.UsageRecord{}, &balancedomain.CreditBalance{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	fake := clock.NewFakeClock(time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC))

	ledgerSvc := ledgerservice.NewService(ledgerservice.ServiceParam{
		DB: db, Log: zap.NewNop(), GenID: node,
	})
	balanceSvc := balanceservice.NewService(balanceservice.ServiceParam{
		DB: db, Log: zap.NewNop(), Clock: fake, Ledger: ledgerSvc,
	})
	meterSvc := metering.NewService(metering.ServiceParam{
		Log: zap.NewNop(), Ledger: ledgerSvc, Balance: balanceSvc,
	})

	return &Scheduler{
		log:      zap.NewNop(),
		cfg:      Config{}.withDefaults(),
		clock:    fake,
		metering: meterSvc,
		email:    &email.NoOpProvider{},
		lastRun:  make(map[string]time.Time),
	}, ledgerSvc
}

func TestTrackSummaryUsage_RetryBillsOnce(t *testing.T) {
	s, ledger := newMeteredScheduler(t)
	ctx := context.Background()

	usage := summarizer.TokenUsage{
		RequestID:    "msg_first",
		Model:        "claude-3-5-haiku-20241022",
		InputTokens:  10_000,
		OutputTokens: 1_000,
	}
	require.NoError(t, s.trackSummaryUsage(ctx, "weekly_summary", "2025-03-10", usage))

	// A re-run after a publish failure gets a fresh provider message id;
	// the request id derived from the period key still dedupes it.
	retry := usage
	retry.RequestID = "msg_second"
	require.NoError(t, s.trackSummaryUsage(ctx, "weekly_summary", "2025-03-10", retry))

	total, err := ledger.TotalCost(ctx, time.Time{}, time.Now().UTC().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, money.Money(12_000), total)
}

func TestTrackSummaryUsage_DistinctPeriodsBillSeparately(t *testing.T) {
	s, ledger := newMeteredScheduler(t)
	ctx := context.Background()

	usage := summarizer.TokenUsage{
		RequestID:    "msg_a",
		Model:        "claude-3-5-haiku-20241022",
		InputTokens:  10_000,
		OutputTokens: 1_000,
	}
	require.NoError(t, s.trackSummaryUsage(ctx, "weekly_summary", "2025-03-10", usage))

	// Same day, different operation: separate ledger entry.
	require.NoError(t, s.trackSummaryUsage(ctx, "daily_analysis", "2025-03-10", usage))
	// Next period of the same operation: separate ledger entry.
	require.NoError(t, s.trackSummaryUsage(ctx, "weekly_summary", "2025-03-17", usage))

	total, err := ledger.TotalCost(ctx, time.Time{}, time.Now().UTC().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, money.Money(36_000), total)
}
