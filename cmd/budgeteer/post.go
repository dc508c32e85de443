package main

import (
	"fmt"
	"time"

	"github.com/devichs/budgeteer/internal/cli"
	"github.com/devichs/budgeteer/internal/ledger"
	"github.com/devichs/budgeteer/internal/model"
	"github.com/spf13/cobra"
)

func postCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "post",
		Short: "Post a transaction to the ledger",
	}

	cmd.AddCommand(postEntryCmd("income", model.TransactionTypeIncome,
		"Record income and add it to an account balance"))
	cmd.AddCommand(postEntryCmd("expense", model.TransactionTypeExpense,
		"Record an expense and subtract it from an account balance"))

	return cmd
}

func postEntryCmd(use string, txnType model.TransactionType, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use + " <amount>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPost(cmd, args[0], txnType)
		},
	}

	cmd.Flags().StringP("account", "a", "", "account name (required)")
	cmd.Flags().StringP("category", "c", "", "category name")
	cmd.Flags().StringP("date", "d", "", "transaction date (YYYY-MM-DD, default today)")
	cmd.Flags().StringP("description", "m", "", "description")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}

func runPost(cmd *cobra.Command, amountArg string, txnType model.TransactionType) error {
	ctx := cmd.Context()

	amount, err := parseAmount(amountArg)
	if err != nil {
		return err
	}

	date := time.Now()
	if dateStr, _ := cmd.Flags().GetString("date"); dateStr != "" {
		if date, err = parseDate(dateStr); err != nil {
			return err
		}
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

	var categoryID *int64
	if categoryName, _ := cmd.Flags().GetString("category"); categoryName != "" {
		category, catErr := store.FindOrCreateCategory(ctx, categoryName)
		if catErr != nil {
			return catErr
		}
		categoryID = &category.ID
	}

	description, _ := cmd.Flags().GetString("description")

	engine := ledger.New(store)
	txn, err := engine.Post(ctx, ledger.PostRequest{
		Amount:      amount,
		Type:        txnType,
		Date:        date,
		Description: description,
		CategoryID:  categoryID,
		AccountID:   account.ID,
	})
	if err != nil {
		return err
	}

	// Reload for the post-commit balance.
	account, err = store.GetAccount(ctx, account.ID)
	if err != nil {
		return err
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Posted %s %s on %s; %s balance is now %s",
		txnType, money(txn.Amount), txn.Date.Format("2006-01-02"),
		account.Name, money(account.Balance))))
	return nil
}
