package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	balancedomain "github.com/devrecap/devrecap/internal/balance/domain"
	balanceservice "github.com/devrecap/devrecap/internal/balance/service"
	"github.com/devrecap/devrecap/internal/clock"
	costdomain "github.com/devrecap/devrecap/internal/costreport/domain"
	ledgerdomain "github.com/devrecap/devrecap/internal/ledger/domain"
	ledgerservice "github.com/devrecap/devrecap/internal/ledger/service"
	"github.com/devrecap/devrecap/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db      *gorm.DB
	clock   *clock.FakeClock
	ledger  ledgerdomain.Service
	balance balancedomain.Service
	reports costdomain.Service
}

func setup(t *testing.T) *fixture {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&ledgerdomain.UsageRecord{},
		&balancedomain.CreditBalance{},
		&costdomain.CostThreshold{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	// A Wednesday.
	fakeClock := clock.NewFakeClock(time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC))

	ledgerSvc := ledgerservice.NewService(ledgerservice.ServiceParam{
		DB: db, Log: zap.NewNop(), GenID: node,
	})
	balanceSvc := balanceservice.NewService(balanceservice.ServiceParam{
		DB: db, Log: zap.NewNop(), Clock: fakeClock, Ledger: ledgerSvc,
	})
	reportSvc := NewService(ServiceParam{
		DB: db, Log: zap.NewNop(), Clock: fakeClock, Ledger: ledgerSvc, Balance: balanceSvc,
	})
	return &fixture{db: db, clock: fakeClock, ledger: ledgerSvc, balance: balanceSvc, reports: reportSvc}
}

func (f *fixture) record(t *testing.T, requestID string, total money.Money, at time.Time) {
	t.Helper()
	require.NoError(t, f.ledger.Record(context.Background(), ledgerdomain.UsageRecord{
		RequestID:  requestID,
		ModelID:    "claude-3-5-haiku-20241022",
		InputCost:  total / 2,
		OutputCost: total - total/2,
		TotalCost:  total,
		Timestamp:  at,
	}))
}

func (f *fixture) threshold(t *testing.T, kind costdomain.PeriodKind, amount money.Money, enabled bool) {
	t.Helper()
	require.NoError(t, f.db.Create(&costdomain.CostThreshold{
		Period:          kind,
		ThresholdAmount: amount,
		Enabled:         enabled,
	}).Error)
}

func TestEvaluate_Exceeded(t *testing.T) {
	f := setup(t)
	f.threshold(t, costdomain.PeriodWeekly, money.FromDollars(1), true)

	result, err := f.reports.Evaluate(context.Background(), costdomain.PeriodWeekly, money.FromDollars(1.5))
	require.NoError(t, err)
	assert.True(t, result.Exceeded)
	require.NotNil(t, result.Threshold)
	assert.Equal(t, money.FromDollars(1), *result.Threshold)
	assert.Equal(t, money.FromDollars(0.5), result.Excess)
}

func TestEvaluate_EqualityDoesNotExceed(t *testing.T) {
	f := setup(t)
	f.threshold(t, costdomain.PeriodDaily, money.FromDollars(1), true)

	result, err := f.reports.Evaluate(context.Background(), costdomain.PeriodDaily, money.FromDollars(1))
	require.NoError(t, err)
	assert.False(t, result.Exceeded)
	assert.Equal(t, money.Money(0), result.Excess)
}

func TestEvaluate_NoEnabledThreshold(t *testing.T) {
	f := setup(t)
	f.threshold(t, costdomain.PeriodMonthly, money.FromDollars(1), false)

	result, err := f.reports.Evaluate(context.Background(), costdomain.PeriodMonthly, money.FromDollars(999))
	require.NoError(t, err)
	assert.False(t, result.Exceeded)
	assert.Nil(t, result.Threshold)
	assert.Equal(t, money.Money(0), result.Excess)
}

func TestEvaluate_InvalidPeriod(t *testing.T) {
	f := setup(t)
	_, err := f.reports.Evaluate(context.Background(), "hourly", 0)
	assert.ErrorIs(t, err, costdomain.ErrInvalidPeriod)
}

func TestAggregate_EmptyWindow(t *testing.T) {
	f := setup(t)
	start := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)

	report, err := f.reports.Aggregate(context.Background(), start, start.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, money.Money(0), report.TotalCost)
	assert.Empty(t, report.ModelBreakdown)
	assert.NotNil(t, report.ModelBreakdown)
}

func TestGenerate_DailyAttachesBalance(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	require.NoError(t, f.balance.Initialize(ctx, money.FromDollars(100)))

	// One record earlier in the month, one inside today's window.
	f.record(t, "req-month", 4000, time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC))
	f.record(t, "req-today", 1000, time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC))

	report, err := f.reports.Generate(ctx, costdomain.PeriodDaily)
	require.NoError(t, err)

	assert.Equal(t, money.Money(1000), report.TotalCost)
	require.NotNil(t, report.CreditBalance)
	assert.Equal(t, money.FromDollars(100), *report.CreditBalance)
	require.NotNil(t, report.RemainingBalance)
	assert.Equal(t, money.FromDollars(100)-5000, *report.RemainingBalance)
}

func TestGenerate_WeeklyOmitsBalance(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	require.NoError(t, f.balance.Initialize(ctx, money.FromDollars(100)))

	report, err := f.reports.Generate(ctx, costdomain.PeriodWeekly)
	require.NoError(t, err)
	assert.Nil(t, report.CreditBalance)
	assert.Nil(t, report.RemainingBalance)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), report.Start)
}

func TestGenerate_ThresholdEvaluation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.threshold(t, costdomain.PeriodWeekly, money.FromDollars(0.001), true)
	f.record(t, "req-week", 1500, time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC))

	report, err := f.reports.Generate(ctx, costdomain.PeriodWeekly)
	require.NoError(t, err)
	assert.True(t, report.ThresholdExceeded)
	assert.Equal(t, money.Money(500), report.Excess)
}

func TestGenerate_InvalidPeriod(t *testing.T) {
	f := setup(t)
	_, err := f.reports.Generate(context.Background(), "yearly")
	assert.ErrorIs(t, err, costdomain.ErrInvalidPeriod)
}
