// Package domain contains the prepaid credit balance model.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/devrecap/devrecap/pkg/money"
)

// CreditBalance is the singleton prepaid-balance row, decremented as a side
// effect of ledger writes.
type CreditBalance struct {
	ID             int64       `gorm:"primaryKey"`
	Balance        money.Money `gorm:"not null"`
	InitialBalance money.Money `gorm:"not null"`
	LastRechargeAt time.Time   `gorm:"not null"`
	UpdatedAt      time.Time   `gorm:"not null"`
}

// TableName sets the database table name.
func (CreditBalance) TableName() string { return "credit_balances" }

// SingletonID is the fixed primary key of the only balance row.
const SingletonID int64 = 1

type Service interface {
	// CurrentBalance returns the latest balance, or 0 when billing was never
	// initialized.
	CurrentBalance(ctx context.Context) (money.Money, error)
	// Initialize creates the singleton row. A second call is a no-op.
	Initialize(ctx context.Context, initial money.Money) error
	// Deduct atomically subtracts amount and returns the new balance.
	// Returns ErrBalanceNotFound when billing is not enabled.
	Deduct(ctx context.Context, amount money.Money) (money.Money, error)
	// Reconcile recomputes initial − ledger spend since the last recharge and
	// returns the drift between that figure and the stored balance.
	Reconcile(ctx context.Context) (money.Money, error)
}

var (
	ErrBalanceNotFound = errors.New("balance_not_found")
	ErrDeductConflict  = errors.New("balance_deduct_conflict")
	ErrInvalidAmount   = errors.New("invalid_amount")
)
