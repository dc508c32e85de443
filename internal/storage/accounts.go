package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/devichs/budgeteer/internal/model"
	"github.com/shopspring/decimal"
)

// parseStoredDecimal converts a TEXT column back into a decimal. Amounts are
// stored as decimal strings so arithmetic stays exact.
func parseStoredDecimal(s, column string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse stored %s %q: %w", column, s, err)
	}
	return d, nil
}

// CreateAccount creates a new account with the given opening balance.
func (s *SQLiteStorage) CreateAccount(ctx context.Context, name string, accountType model.AccountType, openingBalance decimal.Decimal) (*model.Account, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}
	if !accountType.IsValid() {
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidAccount, accountType)
	}

	query := `
		INSERT INTO accounts (name, account_type, balance)
		VALUES (?, ?, ?)`

	result, err := s.db.ExecContext(ctx, query, name, string(accountType), openingBalance.String())
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get account ID: %w", err)
	}

	slog.Info("created account", "id", id, "name", name, "type", accountType)
	return &model.Account{
		ID:      id,
		Name:    name,
		Type:    accountType,
		Balance: openingBalance,
	}, nil
}

// GetAccount returns an account by ID, or nil if it does not exist.
func (s *SQLiteStorage) GetAccount(ctx context.Context, id int64) (*model.Account, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id, "account id"); err != nil {
		return nil, err
	}
	return s.getAccountTx(ctx, nil, id)
}

// querier abstracts *sql.DB and *sql.Tx so lookups can run inside or outside
// a transaction.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *SQLiteStorage) q(tx *sql.Tx) querier {
	if tx != nil {
		return tx
	}
	return s.db
}

func (s *SQLiteStorage) getAccountTx(ctx context.Context, tx *sql.Tx, id int64) (*model.Account, error) {
	query := `
		SELECT id, name, account_type, balance
		FROM accounts
		WHERE id = ?`

	return s.scanAccount(s.q(tx).QueryRowContext(ctx, query, id))
}

// GetAccountByName returns an account by its unique name, matched
// case-insensitively, or nil if it does not exist.
func (s *SQLiteStorage) GetAccountByName(ctx context.Context, name string) (*model.Account, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	query := `
		SELECT id, name, account_type, balance
		FROM accounts
		WHERE name = ? COLLATE NOCASE`

	return s.scanAccount(s.db.QueryRowContext(ctx, query, name))
}

func (s *SQLiteStorage) scanAccount(row *sql.Row) (*model.Account, error) {
	var acc model.Account
	var accountType, balance string

	err := row.Scan(&acc.ID, &acc.Name, &accountType, &balance)
	if err == sql.ErrNoRows {
		return nil, nil // Account not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query account: %w", err)
	}

	acc.Type = model.AccountType(accountType)
	acc.Balance, err = parseStoredDecimal(balance, "balance")
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

// ListAccounts returns all accounts ordered by name.
func (s *SQLiteStorage) ListAccounts(ctx context.Context) ([]model.Account, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, name, account_type, balance
		FROM accounts
		ORDER BY name`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []model.Account
	for rows.Next() {
		var acc model.Account
		var accountType, balance string
		if err := rows.Scan(&acc.ID, &acc.Name, &accountType, &balance); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		acc.Type = model.AccountType(accountType)
		if acc.Balance, err = parseStoredDecimal(balance, "balance"); err != nil {
			return nil, err
		}
		accounts = append(accounts, acc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accounts: %w", err)
	}

	slog.Debug("retrieved accounts", "count", len(accounts))
	return accounts, nil
}

func (s *SQLiteStorage) updateAccountBalanceTx(ctx context.Context, tx *sql.Tx, accountID int64, balance decimal.Decimal) error {
	query := `UPDATE accounts SET balance = ? WHERE id = ?`

	result, err := s.q(tx).ExecContext(ctx, query, balance.String(), accountID)
	if err != nil {
		return fmt.Errorf("failed to update account balance: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check balance update: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: account %d", ErrInvalidAccount, accountID)
	}
	return nil
}
