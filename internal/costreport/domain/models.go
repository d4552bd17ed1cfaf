// Package domain contains period cost-report models and threshold
// configuration.
package domain

import (
	"context"
	"errors"
	"time"

	ledgerdomain "github.com/devrecap/devrecap/internal/ledger/domain"
	"github.com/devrecap/devrecap/pkg/money"
)

// PeriodKind selects the calendar window a report covers.
type PeriodKind string

const (
	PeriodDaily   PeriodKind = "daily"
	PeriodWeekly  PeriodKind = "weekly"
	PeriodMonthly PeriodKind = "monthly"
)

func (k PeriodKind) Valid() bool {
	switch k {
	case PeriodDaily, PeriodWeekly, PeriodMonthly:
		return true
	}
	return false
}

// CostThreshold is a configured cost ceiling for one period kind. At most
// one enabled row per period is consulted.
type CostThreshold struct {
	ID              int64       `gorm:"primaryKey"`
	Period          PeriodKind  `gorm:"type:text;not null;index"`
	ThresholdAmount money.Money `gorm:"not null"`
	Enabled         bool        `gorm:"not null;default:false"`
	CreatedAt       time.Time   `gorm:"autoCreateTime"`
	UpdatedAt       time.Time   `gorm:"autoUpdateTime"`
}

// TableName sets the database table name.
func (CostThreshold) TableName() string { return "cost_thresholds" }

// ThresholdResult is the outcome of comparing a period total against the
// configured ceiling. Exceeded is true strictly when total > threshold.
type ThresholdResult struct {
	Exceeded  bool         `json:"exceeded"`
	Threshold *money.Money `json:"threshold,omitempty"`
	Excess    money.Money  `json:"excess"`
}

// PeriodReport combines ledger totals with threshold and balance context for
// one calendar window.
type PeriodReport struct {
	Period            string                             `json:"period"`
	Kind              PeriodKind                         `json:"kind"`
	Start             time.Time                          `json:"start"`
	End               time.Time                          `json:"end"`
	TotalCost         money.Money                        `json:"total_cost"`
	ModelBreakdown    map[string]ledgerdomain.ModelUsage `json:"model_breakdown"`
	Threshold         *money.Money                       `json:"threshold,omitempty"`
	ThresholdExceeded bool                               `json:"threshold_exceeded"`
	Excess            money.Money                        `json:"excess"`
	CreditBalance     *money.Money                       `json:"credit_balance,omitempty"`
	RemainingBalance  *money.Money                       `json:"remaining_balance,omitempty"`
}

type Service interface {
	// Aggregate builds a report over an explicit half-open window.
	Aggregate(ctx context.Context, start, end time.Time) (PeriodReport, error)
	// Generate builds the report for the period containing the clock's
	// current instant, with threshold evaluation and balance context.
	Generate(ctx context.Context, kind PeriodKind) (PeriodReport, error)
	// Evaluate compares a period total against the enabled threshold.
	Evaluate(ctx context.Context, kind PeriodKind, total money.Money) (ThresholdResult, error)
}

var ErrInvalidPeriod = errors.New("invalid_period")
