// Package service defines the interfaces the engines consume from the
// persistence layer.
package service

import (
	"context"
	"time"

	"github.com/devichs/budgeteer/internal/model"
	"github.com/shopspring/decimal"
)

// Storage defines the contract for the entity store. Lookup methods return
// (nil, nil) when no matching record exists; callers decide whether absence
// is an error.
type Storage interface {
	// Account operations
	CreateAccount(ctx context.Context, name string, accountType model.AccountType, openingBalance decimal.Decimal) (*model.Account, error)
	GetAccount(ctx context.Context, id int64) (*model.Account, error)
	GetAccountByName(ctx context.Context, name string) (*model.Account, error)
	ListAccounts(ctx context.Context) ([]model.Account, error)

	// Category operations
	GetCategory(ctx context.Context, id int64) (*model.Category, error)
	GetCategoryByName(ctx context.Context, name string) (*model.Category, error)
	CreateCategory(ctx context.Context, name string) (*model.Category, error)
	FindOrCreateCategory(ctx context.Context, name string) (*model.Category, error)
	ListCategories(ctx context.Context) ([]model.Category, error)

	// Budget operations
	GetBudget(ctx context.Context, categoryID int64, year, month int) (*model.Budget, error)
	ListBudgets(ctx context.Context, year, month int) ([]model.Budget, error)
	SaveBudget(ctx context.Context, budget *model.Budget) (*model.Budget, error)

	// Transaction queries (read-only; writes go through Tx)
	GetTransactionsByAccount(ctx context.Context, accountID int64) ([]model.Transaction, error)
	GetTransactionsByCategoryAndDateRange(ctx context.Context, categoryID int64, start, end time.Time) ([]model.Transaction, error)
	GetTransactionsByDateRange(ctx context.Context, start, end time.Time) ([]model.Transaction, error)
	GetTransactionsByTypeAndDateRange(ctx context.Context, transactionType model.TransactionType, start, end time.Time) ([]model.Transaction, error)
	SearchTransactionsByDescription(ctx context.Context, keyword string) ([]model.Transaction, error)

	// BeginTx starts the atomic unit used by the posting engine.
	BeginTx(ctx context.Context) (Tx, error)
}

// Tx is a storage transaction. The posting engine performs its
// transaction-insert plus balance-update pair inside one Tx so that both
// commit together or neither does.
type Tx interface {
	GetAccount(ctx context.Context, id int64) (*model.Account, error)
	GetCategory(ctx context.Context, id int64) (*model.Category, error)
	SaveTransaction(ctx context.Context, txn *model.Transaction) (*model.Transaction, error)
	UpdateAccountBalance(ctx context.Context, accountID int64, balance decimal.Decimal) error
	Commit() error
	Rollback() error
}
