package main

import (
	"fmt"
	"strings"

	"github.com/devichs/budgeteer/internal/cli"
	"github.com/devichs/budgeteer/internal/model"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func accountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage financial accounts",
	}

	cmd.AddCommand(accountsAddCmd())
	cmd.AddCommand(accountsListCmd())

	return cmd
}

func accountsAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a new account",
		Long: `Create a new account with a unique name.

Valid account types: checking, credit_card, savings, cash, investment,
loan, brokerage, cash_management_brokerage, other.`,
		Args: cobra.ExactArgs(1),
		RunE: runAccountsAdd,
	}

	cmd.Flags().StringP("type", "t", "checking", "account type")
	cmd.Flags().String("opening-balance", "0", "opening balance")

	return cmd
}

func runAccountsAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	name := strings.TrimSpace(args[0])

	typeStr, _ := cmd.Flags().GetString("type")
	accountType, err := model.ParseAccountType(typeStr)
	if err != nil {
		return err
	}

	openingStr, _ := cmd.Flags().GetString("opening-balance")
	opening, err := parseAmount(openingStr)
	if err != nil {
		return err
	}

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	account, err := store.CreateAccount(ctx, name, accountType, opening)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Created %s (%s), balance %s",
		account.Name, account.Type.DisplayName(), money(account.Balance))))
	return nil
}

func accountsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts and balances",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			accounts, err := store.ListAccounts(ctx)
			if err != nil {
				return fmt.Errorf("failed to list accounts: %w", err)
			}

			if len(accounts) == 0 {
				fmt.Println(cli.FormatWarning("No accounts yet; run 'budgeteer accounts add'"))
				return nil
			}

			total := decimal.Zero
			rows := make([][]string, 0, len(accounts))
			for _, a := range accounts {
				rows = append(rows, []string{a.Name, a.Type.DisplayName(), money(a.Balance)})
				total = total.Add(a.Balance)
			}

			fmt.Println(cli.FormatTitle("Accounts"))
			fmt.Print(cli.RenderTable([]string{"Name", "Type", "Balance"}, rows))
			fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf("Net: %s", money(total))))
			return nil
		},
	}
}
