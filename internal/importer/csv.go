// Package importer implements the batch import pipeline: it reads a tabular
// CSV feed row by row, converts each row into a posting request, and
// accumulates a summary of successes and failures without aborting on a
// single bad row.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/devichs/budgeteer/internal/common"
	"github.com/devichs/budgeteer/internal/ledger"
	"github.com/devichs/budgeteer/internal/model"
	"github.com/devichs/budgeteer/internal/service"
	"github.com/shopspring/decimal"
)

// Poster posts one validated transaction. Satisfied by *ledger.Engine.
type Poster interface {
	Post(ctx context.Context, req ledger.PostRequest) (*model.Transaction, error)
}

// Pipeline imports CSV feeds through the posting engine.
type Pipeline struct {
	store  service.Storage
	poster Poster
}

// New creates an import pipeline.
func New(store service.Storage, poster Poster) *Pipeline {
	return &Pipeline{store: store, poster: poster}
}

// Summary reports the outcome of one batch import. Row-level failures are
// counted and described in Errors; they never abort the batch.
type Summary struct {
	Errors    []string
	TotalRows int
	Imported  int
	Failed    int
}

// Required feed columns, matched by header name in any order.
const (
	columnDate        = "date"
	columnDescription = "description"
	columnCategory    = "category"
	columnAmount      = "amount"
)

// header maps feed column names to record indices.
type header map[string]int

func parseHeader(record []string) (header, error) {
	h := make(header, len(record))
	for i, name := range record {
		h[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{columnDate, columnDescription, columnCategory, columnAmount} {
		if _, ok := h[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}
	return h, nil
}

func (h header) field(record []string, column string) string {
	idx := h[column]
	if idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// rowPosting is a raw feed row converted into posting parameters. The
// category is still a name at this point; resolution happens at post time.
type rowPosting struct {
	date         time.Time
	amount       decimal.Decimal
	txnType      model.TransactionType
	description  string
	categoryName string
}

// parseRow converts one record's textual fields into posting parameters.
// It performs no I/O, so row conversion is testable in isolation.
func parseRow(h header, record []string) (*rowPosting, error) {
	dateStr := h.field(record, columnDate)
	amountStr := h.field(record, columnAmount)

	if dateStr == "" {
		return nil, fmt.Errorf("%w: date", common.ErrMissingField)
	}
	if amountStr == "" {
		return nil, fmt.Errorf("%w: amount", common.ErrMissingField)
	}

	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %q, expected YYYY-MM-DD", common.ErrInvalidDate, dateStr)
	}

	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", common.ErrInvalidAmount, amountStr)
	}

	// Sign picks the transaction type; only the absolute value is stored.
	txnType := model.TransactionTypeIncome
	if amount.Sign() < 0 {
		txnType = model.TransactionTypeExpense
	}

	return &rowPosting{
		date:         date,
		amount:       amount.Abs(),
		txnType:      txnType,
		description:  h.field(record, columnDescription),
		categoryName: h.field(record, columnCategory),
	}, nil
}

// ImportCSV reads the feed and posts each row against the target account.
// The target account must exist before any row is processed. A feed that
// cannot be parsed as a table at all fails the whole call with an error
// wrapping common.ErrStructuralImport; per-row failures are recorded in the
// returned summary and processing continues. If the feed breaks mid-stream,
// the summary of rows already posted is returned alongside the error, since
// those postings are committed.
func (p *Pipeline) ImportCSV(ctx context.Context, r io.Reader, targetAccountID int64) (*Summary, error) {
	account, err := p.store.GetAccount(ctx, targetAccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve target account: %w", err)
	}
	if account == nil {
		return nil, fmt.Errorf("%w: id %d", common.ErrAccountNotFound, targetAccountID)
	}

	slog.Info("starting CSV import", "account", account.Name)

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	headerRecord, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read header: %v", common.ErrStructuralImport, err)
	}
	h, err := parseHeader(headerRecord)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStructuralImport, err)
	}

	summary := &Summary{}
	for {
		record, readErr := reader.Read()
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			var parseErr *csv.ParseError
			if errors.As(readErr, &parseErr) {
				// Malformed row, not a malformed feed.
				summary.TotalRows++
				p.recordFailure(summary, readErr)
				continue
			}
			return summary, fmt.Errorf("%w: %v", common.ErrStructuralImport, readErr)
		}

		summary.TotalRows++
		if err := p.importRow(ctx, h, record, account.ID); err != nil {
			p.recordFailure(summary, err)
			continue
		}
		summary.Imported++
	}

	slog.Info("CSV import finished",
		"account", account.Name,
		"total", summary.TotalRows,
		"imported", summary.Imported,
		"failed", summary.Failed)
	return summary, nil
}

func (p *Pipeline) importRow(ctx context.Context, h header, record []string, accountID int64) error {
	row, err := parseRow(h, record)
	if err != nil {
		return err
	}

	var categoryID *int64
	if row.categoryName != "" {
		category, catErr := p.store.FindOrCreateCategory(ctx, row.categoryName)
		if catErr != nil {
			return fmt.Errorf("failed to resolve category %q: %w", row.categoryName, catErr)
		}
		categoryID = &category.ID
	}

	_, err = p.poster.Post(ctx, ledger.PostRequest{
		Amount:      row.amount,
		Type:        row.txnType,
		Date:        row.date,
		Description: row.description,
		CategoryID:  categoryID,
		AccountID:   accountID,
	})
	return err
}

func (p *Pipeline) recordFailure(summary *Summary, err error) {
	summary.Failed++
	msg := fmt.Sprintf("row %d: %v", summary.TotalRows, err)
	slog.Warn("import row failed", "row", summary.TotalRows, "error", err)
	summary.Errors = append(summary.Errors, msg)
}
