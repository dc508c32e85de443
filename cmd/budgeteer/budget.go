package main

import (
	"fmt"

	"github.com/devichs/budgeteer/internal/budget"
	"github.com/devichs/budgeteer/internal/cli"
	"github.com/devichs/budgeteer/internal/common"
	"github.com/devichs/budgeteer/internal/model"
	"github.com/spf13/cobra"
)

func budgetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Set budgets and review spending against them",
	}

	cmd.AddCommand(budgetSetCmd())
	cmd.AddCommand(budgetStatusCmd())

	return cmd
}

func periodFlags(cmd *cobra.Command) {
	cmd.Flags().Int("year", 0, "budget year (default: current)")
	cmd.Flags().Int("month", 0, "budget month 1-12 (default: current)")
}

func getPeriod(cmd *cobra.Command) (int, int) {
	year, _ := cmd.Flags().GetInt("year")
	month, _ := cmd.Flags().GetInt("month")
	defYear, defMonth := defaultPeriod()
	if year == 0 {
		year = defYear
	}
	if month == 0 {
		month = defMonth
	}
	return year, month
}

func budgetSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <category> <amount>",
		Short: "Set or update a category's monthly budget",
		Long: `Set the budget for a category and month. Setting a budget for a period
that already has one updates the amount in place.`,
		Args: cobra.ExactArgs(2),
		RunE: runBudgetSet,
	}

	periodFlags(cmd)
	return cmd
}

func runBudgetSet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	amount, err := parseAmount(args[1])
	if err != nil {
		return err
	}
	year, month := getPeriod(cmd)

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	category, err := store.FindOrCreateCategory(ctx, args[0])
	if err != nil {
		return err
	}

	engine := budget.New(store)
	b, err := engine.SetBudget(ctx, category.ID, year, month, amount)
	if err != nil {
		return err
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Budget for %s in %d-%02d set to %s",
		category.Name, b.Year, b.Month, money(b.Amount))))
	return nil
}

func budgetStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show budget vs actual spending for a month",
		RunE:  runBudgetStatus,
	}

	periodFlags(cmd)
	cmd.Flags().StringP("category", "c", "", "limit to one category")
	return cmd
}

func runBudgetStatus(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	year, month := getPeriod(cmd)

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	engine := budget.New(store)

	var statuses []model.BudgetStatus
	if categoryName, _ := cmd.Flags().GetString("category"); categoryName != "" {
		category, catErr := resolveCategory(ctx, store, categoryName)
		if catErr != nil {
			return catErr
		}
		status, statusErr := engine.StatusForCategory(ctx, category.ID, year, month)
		if statusErr != nil {
			return statusErr
		}
		if status == nil {
			return common.NewUserError(
				fmt.Sprintf("no budget set for %s in %d-%02d; run 'budgeteer budget set'",
					category.Name, year, month),
				common.ErrBudgetNotFound)
		}
		statuses = append(statuses, *status)
	} else {
		if statuses, err = engine.StatusForPeriod(ctx, year, month); err != nil {
			return err
		}
	}

	if len(statuses) == 0 {
		fmt.Println(cli.FormatWarning(fmt.Sprintf("No budgets set for %d-%02d", year, month)))
		return nil
	}

	rows := make([][]string, 0, len(statuses))
	for _, s := range statuses {
		remaining := money(s.Remaining)
		if s.Remaining.Sign() < 0 {
			remaining = cli.NegativeStyle.Render(remaining)
		}
		rows = append(rows, []string{s.CategoryName, money(s.Budgeted), money(s.Actual), remaining})
	}

	fmt.Println(cli.FormatReportTitle(fmt.Sprintf("Budget status %d-%02d", year, month)))
	fmt.Print(cli.RenderTable([]string{"Category", "Budgeted", "Actual", "Remaining"}, rows))
	return nil
}
