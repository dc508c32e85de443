// Package storage provides the data persistence layer for the budgeteer application.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/devichs/budgeteer/internal/model"
)

// Validation errors.
var (
	ErrNilContext         = errors.New("context cannot be nil")
	ErrEmptyString        = errors.New("string parameter cannot be empty")
	ErrNilParameter       = errors.New("parameter cannot be nil")
	ErrInvalidID          = errors.New("id must be positive")
	ErrInvalidDateRange   = errors.New("start date must be before end date")
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrInvalidAccount     = errors.New("invalid account")
	ErrInvalidBudget      = errors.New("invalid budget")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateID ensures an identifier refers to a persisted row.
func validateID(id int64, paramName string) error {
	if id <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidID, paramName)
	}
	return nil
}

// validateTransaction validates a transaction prior to insert.
func validateTransaction(txn *model.Transaction) error {
	if txn == nil {
		return fmt.Errorf("%w: transaction", ErrNilParameter)
	}
	if txn.Amount.Sign() <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidTransaction)
	}
	if !txn.Type.IsValid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidTransaction, txn.Type)
	}
	if txn.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidTransaction)
	}
	if txn.AccountID <= 0 {
		return fmt.Errorf("%w: missing account ID", ErrInvalidTransaction)
	}
	if txn.CategoryID != nil && *txn.CategoryID <= 0 {
		return fmt.Errorf("%w: invalid category ID", ErrInvalidTransaction)
	}
	return nil
}

// validateBudget validates a budget prior to upsert.
func validateBudget(b *model.Budget) error {
	if b == nil {
		return fmt.Errorf("%w: budget", ErrNilParameter)
	}
	if b.CategoryID <= 0 {
		return fmt.Errorf("%w: missing category ID", ErrInvalidBudget)
	}
	if b.Month < 1 || b.Month > 12 {
		return fmt.Errorf("%w: month %d out of range", ErrInvalidBudget, b.Month)
	}
	if b.Amount.Sign() < 0 {
		return fmt.Errorf("%w: amount cannot be negative", ErrInvalidBudget)
	}
	return nil
}
