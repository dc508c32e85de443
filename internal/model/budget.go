package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget is a per-category spending target for one calendar month. At most
// one budget exists per (category, year, month); setting a budget for an
// existing period updates the amount in place.
type Budget struct {
	ID         int64
	CategoryID int64
	Year       int
	Month      int
	Amount     decimal.Decimal
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// BudgetStatus compares a budget against actual spending for its period.
// Remaining may be negative, signaling overspend.
type BudgetStatus struct {
	CategoryID   int64
	CategoryName string
	Year         int
	Month        int
	Budgeted     decimal.Decimal
	Actual       decimal.Decimal
	Remaining    decimal.Decimal
}
