package main

import (
	"context"
	"fmt"
	"time"

	"github.com/devichs/budgeteer/internal/cli"
	"github.com/devichs/budgeteer/internal/model"
	"github.com/devichs/budgeteer/internal/storage"
	"github.com/spf13/cobra"
)

func transactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"txns"},
		Short:   "List and search ledger transactions",
	}

	cmd.AddCommand(transactionsListCmd())
	cmd.AddCommand(transactionsSearchCmd())

	return cmd
}

func transactionsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions for an account or date range",
		RunE:  runTransactionsList,
	}

	cmd.Flags().StringP("account", "a", "", "filter by account name")
	cmd.Flags().String("from", "", "start date (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "end date (YYYY-MM-DD)")
	cmd.Flags().StringP("type", "t", "", "filter by type (income, expense)")

	return cmd
}

func runTransactionsList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	accountName, _ := cmd.Flags().GetString("account")
	fromStr, _ := cmd.Flags().GetString("from")
	toStr, _ := cmd.Flags().GetString("to")
	typeStr, _ := cmd.Flags().GetString("type")

	var transactions []model.Transaction
	switch {
	case accountName != "":
		account, accErr := resolveAccount(ctx, store, accountName)
		if accErr != nil {
			return accErr
		}
		transactions, err = store.GetTransactionsByAccount(ctx, account.ID)
	default:
		start, end, rangeErr := parseRange(fromStr, toStr)
		if rangeErr != nil {
			return rangeErr
		}
		if typeStr != "" {
			var txnType model.TransactionType
			if txnType, err = model.ParseTransactionType(typeStr); err != nil {
				return err
			}
			transactions, err = store.GetTransactionsByTypeAndDateRange(ctx, txnType, start, end)
		} else {
			transactions, err = store.GetTransactionsByDateRange(ctx, start, end)
		}
	}
	if err != nil {
		return fmt.Errorf("failed to list transactions: %w", err)
	}

	renderTransactions(ctx, store, transactions)
	return nil
}

// parseRange resolves optional from/to flags, defaulting to the last 30
// days when neither is given.
func parseRange(fromStr, toStr string) (time.Time, time.Time, error) {
	end := time.Now()
	start := end.AddDate(0, 0, -30)

	var err error
	if fromStr != "" {
		if start, err = parseDate(fromStr); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if toStr != "" {
		if end, err = parseDate(toStr); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %s is after %s",
			storage.ErrInvalidDateRange, start.Format("2006-01-02"), end.Format("2006-01-02"))
	}
	return start, end, nil
}

func transactionsSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <keyword>",
		Short: "Search transactions by description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			transactions, err := store.SearchTransactionsByDescription(ctx, args[0])
			if err != nil {
				return fmt.Errorf("search failed: %w", err)
			}

			renderTransactions(ctx, store, transactions)
			return nil
		},
	}
}

func renderTransactions(ctx context.Context, store *storage.SQLiteStorage, transactions []model.Transaction) {
	if len(transactions) == 0 {
		fmt.Println(cli.FormatWarning("No matching transactions"))
		return
	}

	// Resolve category names once per category.
	names := make(map[int64]string)
	rows := make([][]string, 0, len(transactions))
	for _, txn := range transactions {
		categoryName := ""
		if txn.CategoryID != nil {
			name, ok := names[*txn.CategoryID]
			if !ok {
				if cat, err := store.GetCategory(ctx, *txn.CategoryID); err == nil && cat != nil {
					name = cat.Name
				}
				names[*txn.CategoryID] = name
			}
			categoryName = name
		}
		signed := money(txn.BalanceEffect())
		rows = append(rows, []string{
			txn.Date.Format("2006-01-02"),
			string(txn.Type),
			signed,
			categoryName,
			txn.Description,
		})
	}

	fmt.Println(cli.FormatTitle("Transactions"))
	fmt.Print(cli.RenderTable([]string{"Date", "Type", "Amount", "Category", "Description"}, rows))
}
