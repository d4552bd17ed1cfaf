// Package domain contains persistence models for the metered-usage ledger.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/devrecap/devrecap/pkg/money"
	"gorm.io/datatypes"
)

// UsageRecord stores a single metered LLM call. Records are append-only;
// request_id is the idempotency key that keeps retried calls from billing
// twice.
type UsageRecord struct {
	ID            snowflake.ID      `gorm:"primaryKey"`
	RequestID     string            `gorm:"type:text;not null;uniqueIndex:ux_usage_records_request_id"`
	ModelID       string            `gorm:"type:text;not null;index"`
	InputTokens   int64             `gorm:"not null"`
	OutputTokens  int64             `gorm:"not null"`
	InputCost     money.Money       `gorm:"not null"`
	OutputCost    money.Money       `gorm:"not null"`
	TotalCost     money.Money       `gorm:"not null"`
	OperationType string            `gorm:"type:text"`
	Metadata      datatypes.JSONMap `gorm:"type:jsonb"`
	Timestamp     time.Time         `gorm:"not null;index"`
	CreatedAt     time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (UsageRecord) TableName() string { return "usage_records" }

// ModelUsage aggregates ledger records for one model over a period.
type ModelUsage struct {
	Requests     int64       `json:"requests"`
	InputTokens  int64       `json:"input_tokens"`
	OutputTokens int64       `json:"output_tokens"`
	TotalCost    money.Money `json:"total_cost"`
}

type Service interface {
	// Record appends a usage fact. A retried request id returns
	// ErrDuplicateRequest, which callers treat as a successful no-op.
	Record(ctx context.Context, record UsageRecord) error
	// TotalCost sums total_cost over the half-open interval [start, end).
	TotalCost(ctx context.Context, start, end time.Time) (money.Money, error)
	// BreakdownByModel groups records by model over [start, end).
	BreakdownByModel(ctx context.Context, start, end time.Time) (map[string]ModelUsage, error)
}

var (
	ErrDuplicateRequest = errors.New("duplicate_request")
	ErrInvalidRecord    = errors.New("invalid_usage_record")
)
