package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/devichs/budgeteer/internal/model"
)

// dateLayout is the storage form for transaction dates. Calendar dates only;
// no time component. Lexicographic comparison on this layout matches
// chronological order.
const dateLayout = "2006-01-02"

func (s *SQLiteStorage) saveTransactionTx(ctx context.Context, tx *sql.Tx, txn *model.Transaction) (*model.Transaction, error) {
	now := time.Now()

	query := `
		INSERT INTO transactions (amount, type, date, description, category_id, account_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	var categoryID any
	if txn.CategoryID != nil {
		categoryID = *txn.CategoryID
	}

	result, err := s.q(tx).ExecContext(ctx, query,
		txn.Amount.String(),
		string(txn.Type),
		txn.Date.Format(dateLayout),
		txn.Description,
		categoryID,
		txn.AccountID,
		now,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction ID: %w", err)
	}

	saved := *txn
	saved.ID = id
	saved.CreatedAt = now
	saved.UpdatedAt = now
	return &saved, nil
}

const transactionColumns = `id, amount, type, date, description, category_id, account_id, created_at, updated_at`

func scanTransactionRows(rows *sql.Rows) ([]model.Transaction, error) {
	var transactions []model.Transaction
	for rows.Next() {
		var txn model.Transaction
		var amount, txnType, date string
		var description sql.NullString
		var categoryID sql.NullInt64

		if err := rows.Scan(&txn.ID, &amount, &txnType, &date, &description,
			&categoryID, &txn.AccountID, &txn.CreatedAt, &txn.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		var err error
		if txn.Amount, err = parseStoredDecimal(amount, "amount"); err != nil {
			return nil, err
		}
		if txn.Date, err = time.Parse(dateLayout, date); err != nil {
			return nil, fmt.Errorf("failed to parse stored date %q: %w", date, err)
		}
		txn.Type = model.TransactionType(txnType)
		txn.Description = description.String
		if categoryID.Valid {
			id := categoryID.Int64
			txn.CategoryID = &id
		}
		transactions = append(transactions, txn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}
	return transactions, nil
}

func (s *SQLiteStorage) queryTransactions(ctx context.Context, query string, args ...any) ([]model.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	return scanTransactionRows(rows)
}

// GetTransactionsByAccount returns every transaction posted against an
// account, newest first.
func (s *SQLiteStorage) GetTransactionsByAccount(ctx context.Context, accountID int64) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(accountID, "account id"); err != nil {
		return nil, err
	}

	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE account_id = ?
		ORDER BY date DESC, id DESC`

	return s.queryTransactions(ctx, query, accountID)
}

// GetTransactionsByCategoryAndDateRange returns transactions for a category
// dated within [start, end] inclusive. An inverted range yields an empty
// result rather than an error.
func (s *SQLiteStorage) GetTransactionsByCategoryAndDateRange(ctx context.Context, categoryID int64, start, end time.Time) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(categoryID, "category id"); err != nil {
		return nil, err
	}
	if start.After(end) {
		slog.Warn("inverted date range for category query", "category_id", categoryID)
		return nil, nil
	}

	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE category_id = ? AND date >= ? AND date <= ?
		ORDER BY date, id`

	return s.queryTransactions(ctx, query, categoryID, start.Format(dateLayout), end.Format(dateLayout))
}

// GetTransactionsByDateRange returns all transactions dated within
// [start, end] inclusive.
func (s *SQLiteStorage) GetTransactionsByDateRange(ctx context.Context, start, end time.Time) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if start.After(end) {
		return nil, nil
	}

	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE date >= ? AND date <= ?
		ORDER BY date, id`

	return s.queryTransactions(ctx, query, start.Format(dateLayout), end.Format(dateLayout))
}

// GetTransactionsByTypeAndDateRange returns transactions of one type dated
// within [start, end] inclusive.
func (s *SQLiteStorage) GetTransactionsByTypeAndDateRange(ctx context.Context, transactionType model.TransactionType, start, end time.Time) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if !transactionType.IsValid() {
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidTransaction, transactionType)
	}
	if start.After(end) {
		return nil, nil
	}

	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE type = ? AND date >= ? AND date <= ?
		ORDER BY date, id`

	return s.queryTransactions(ctx, query, string(transactionType), start.Format(dateLayout), end.Format(dateLayout))
}

// SearchTransactionsByDescription returns transactions whose description
// contains the keyword, matched case-insensitively.
func (s *SQLiteStorage) SearchTransactionsByDescription(ctx context.Context, keyword string) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(keyword, "keyword"); err != nil {
		return nil, err
	}

	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE description LIKE ? COLLATE NOCASE
		ORDER BY date DESC, id DESC`

	return s.queryTransactions(ctx, query, "%"+keyword+"%")
}

// CountTransactions returns the total number of transactions.
func (s *SQLiteStorage) CountTransactions(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}
