package main

import (
	"fmt"
	"os"

	"github.com/devichs/budgeteer/internal/cli"
	"github.com/devichs/budgeteer/internal/importer"
	"github.com/devichs/budgeteer/internal/ledger"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import transactions from a CSV feed",
		Long: `Import transactions from a CSV feed into one account.

The feed must have a header row naming four columns in any order:
Date (YYYY-MM-DD), Description, Category, Amount. Negative amounts are
recorded as expenses, others as income. Rows that fail to parse are
skipped and reported; they do not abort the batch.`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}

	cmd.Flags().StringP("account", "a", "", "target account name (required)")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	path := args[0]

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open feed: %w", err)
	}
	defer func() { _ = file.Close() }()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat feed: %w", err)
	}

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	accountName, _ := cmd.Flags().GetString("account")
	account, err := resolveAccount(ctx, store, accountName)
	if err != nil {
		return err
	}

	fmt.Println(cli.FormatTitle(fmt.Sprintf("Importing %s into %s", path, account.Name)))

	bar := progressbar.DefaultBytes(info.Size(), "importing")
	reader := progressbar.NewReader(file, bar)

	pipeline := importer.New(store, ledger.New(store))
	summary, err := pipeline.ImportCSV(ctx, &reader, account.ID)
	if err != nil {
		// Rows posted before a mid-feed failure are committed; report them.
		if summary != nil && summary.Imported > 0 {
			fmt.Println()
			fmt.Println(cli.FormatWarning(fmt.Sprintf("Feed broke after %d of %d rows imported",
				summary.Imported, summary.TotalRows)))
		}
		return fmt.Errorf("import failed: %w", err)
	}
	_ = bar.Finish()
	fmt.Println()

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Imported %d of %d rows (%d failed)",
		summary.Imported, summary.TotalRows, summary.Failed)))
	for _, msg := range summary.Errors {
		fmt.Println(cli.FormatWarning(msg))
	}

	// Show the resulting balance.
	account, err = store.GetAccount(ctx, account.ID)
	if err != nil {
		return err
	}
	fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf("%s balance: %s", account.Name, money(account.Balance))))
	return nil
}
