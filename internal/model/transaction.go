package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType indicates whether a transaction adds to or subtracts from
// an account balance.
type TransactionType string

const (
	// TransactionTypeIncome adds the transaction amount to the account balance.
	TransactionTypeIncome TransactionType = "income"
	// TransactionTypeExpense subtracts the transaction amount from the account balance.
	TransactionTypeExpense TransactionType = "expense"
)

// IsValid reports whether the transaction type is a known value.
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// ParseTransactionType converts user input into a TransactionType.
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("unknown transaction type %q", s)
	}
	return t, nil
}

// Transaction is a single ledger entry. Amount is always stored as an
// absolute value; the sign of its balance effect is implied by Type.
type Transaction struct {
	ID          int64
	Amount      decimal.Decimal
	Type        TransactionType
	Date        time.Time
	Description string
	CategoryID  *int64
	AccountID   int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BalanceEffect returns the signed delta this transaction applies to its
// account balance: +Amount for income, -Amount for expense.
func (t *Transaction) BalanceEffect() decimal.Decimal {
	switch t.Type {
	case TransactionTypeIncome:
		return t.Amount
	case TransactionTypeExpense:
		return t.Amount.Neg()
	default:
		return decimal.Zero
	}
}
