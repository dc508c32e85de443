// Package ledger implements the transaction posting engine. Posting a
// transaction and applying its balance effect to the owning account is the
// single atomic unit of the system, and the only path that mutates an
// account balance.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/devichs/budgeteer/internal/common"
	"github.com/devichs/budgeteer/internal/model"
	"github.com/devichs/budgeteer/internal/service"
	"github.com/shopspring/decimal"
)

// Engine posts transactions against the entity store.
type Engine struct {
	store service.Storage
}

// New creates a posting engine backed by the given store.
func New(store service.Storage) *Engine {
	return &Engine{store: store}
}

// PostRequest describes a transaction to record. Amount must be positive;
// the sign of its balance effect comes from Type. CategoryID is optional.
type PostRequest struct {
	Amount      decimal.Decimal
	Type        model.TransactionType
	Date        time.Time
	Description string
	CategoryID  *int64
	AccountID   int64
}

// Post validates the request, records the transaction, and applies its
// signed effect to the account balance. The insert and the balance update
// commit together or not at all.
func (e *Engine) Post(ctx context.Context, req PostRequest) (*model.Transaction, error) {
	if req.Amount.Sign() <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive, got %s", common.ErrInvalidAmount, req.Amount)
	}
	if !req.Type.IsValid() {
		return nil, fmt.Errorf("unknown transaction type %q", req.Type)
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date", common.ErrMissingField)
	}

	slog.Info("posting transaction",
		"amount", req.Amount.String(),
		"type", req.Type,
		"date", req.Date.Format("2006-01-02"),
		"account_id", req.AccountID)

	tx, err := e.store.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin posting: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	account, err := tx.GetAccount(ctx, req.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve account: %w", err)
	}
	if account == nil {
		return nil, fmt.Errorf("%w: id %d", common.ErrAccountNotFound, req.AccountID)
	}

	if req.CategoryID != nil {
		category, catErr := tx.GetCategory(ctx, *req.CategoryID)
		if catErr != nil {
			return nil, fmt.Errorf("failed to resolve category: %w", catErr)
		}
		if category == nil {
			return nil, fmt.Errorf("%w: id %d", common.ErrCategoryNotFound, *req.CategoryID)
		}
	}

	txn := &model.Transaction{
		Amount:      req.Amount,
		Type:        req.Type,
		Date:        req.Date,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		AccountID:   account.ID,
	}

	saved, err := tx.SaveTransaction(ctx, txn)
	if err != nil {
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}

	newBalance := account.Balance.Add(saved.BalanceEffect())
	if err := tx.UpdateAccountBalance(ctx, account.ID, newBalance); err != nil {
		return nil, fmt.Errorf("failed to update balance: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit posting: %w", err)
	}
	committed = true

	slog.Info("posted transaction",
		"id", saved.ID,
		"account", account.Name,
		"balance", newBalance.String())
	return saved, nil
}
