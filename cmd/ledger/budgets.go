package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/Veraticus/ledger-flow/internal/cli"
	"github.com/Veraticus/ledger-flow/internal/common"
	"github.com/Veraticus/ledger-flow/internal/ledger"
	"github.com/Veraticus/ledger-flow/internal/model"
	"github.com/spf13/cobra"
)

func budgetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "budgets",
		Aliases: []string{"budget"},
		Short:   "Manage spending budgets",
		Long:    `Budgets cap the spending of one or more categories. Spend is measured over the current calendar month.`,
	}

	cmd.AddCommand(listBudgetsCmd())
	cmd.AddCommand(setBudgetCmd())
	cmd.AddCommand(deleteBudgetCmd())
	cmd.AddCommand(lockBudgetCmd("lock", true))
	cmd.AddCommand(lockBudgetCmd("unlock", false))
	cmd.AddCommand(budgetAlertsCmd())

	return cmd
}

func budgetRows(progress []model.BudgetAlert) [][]string {
	rows := make([][]string, 0, len(progress))
	for _, p := range progress {
		name := p.Budget.Name
		if p.Budget.IsLocked {
			name = cli.LockIcon + " " + name
		}
		remaining := cli.FormatMoney(p.Remaining())
		if p.Exceeded() {
			remaining = cli.ErrorStyle.Render(remaining)
		}
		rows = append(rows, []string{
			p.Budget.ID,
			name,
			string(p.Budget.Period),
			cli.FormatMoney(p.Budget.Limit),
			cli.FormatMoney(p.Spent),
			remaining,
		})
	}
	return rows
}

var budgetHeaders = []string{"ID", "Name", "Period", "Limit", "Spent", "Remaining"}

func listBudgetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List budgets with this month's spend",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			progress, err := s.ledger.BudgetProgress(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to get budgets: %w", err)
			}
			if len(progress) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("No budgets yet. Use 'ledger budgets set' to create one."))
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.RenderTable(budgetHeaders, budgetRows(progress)))
			return nil
		},
	}
}

func setBudgetCmd() *cobra.Command {
	var (
		id         string
		period     string
		categories []string
	)

	cmd := &cobra.Command{
		Use:   "set <name> <limit>",
		Short: "Create or replace a budget",
		Long:  `Create a budget, or replace the budget given by --id.`,
		Example: `  ledger budgets set "Eating out" 300 --categories food
  ledger budgets set Home 1500 --categories housing,utilities --id <budget-id>`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			limit, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid limit %q: %w", args[1], err)
			}

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			ids := make([]string, 0, len(categories))
			for _, ref := range categories {
				catID, err := resolveCategory(ctx, s.ledger, ref)
				if err != nil {
					return err
				}
				ids = append(ids, catID)
			}

			budget, err := s.ledger.SetBudget(ctx, model.Budget{
				ID:          id,
				Name:        args[0],
				Limit:       limit,
				Period:      model.BudgetPeriod(period),
				CategoryIDs: ids,
			})
			if err != nil {
				return fmt.Errorf("failed to save budget: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Saved budget %q (ID: %s)", budget.Name, budget.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Replace the budget with this id")
	cmd.Flags().StringVar(&period, "period", string(model.BudgetPeriodMonthly), "Budget period (monthly, yearly)")
	cmd.Flags().StringSliceVar(&categories, "categories", nil, "Category ids or labels, comma separated")
	_ = cmd.MarkFlagRequired("categories")

	return cmd
}

func deleteBudgetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an unlocked budget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			if err := s.ledger.DeleteBudget(cmd.Context(), args[0]); err != nil {
				if errors.Is(err, ledger.ErrBudgetLocked) {
					return common.NewUserError("unlock the budget first with 'ledger budgets unlock'", err)
				}
				return fmt.Errorf("failed to delete budget: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Deleted budget %s", args[0])))
			return nil
		},
	}
}

func lockBudgetCmd(use string, locked bool) *cobra.Command {
	short := "Protect a budget from deletion"
	if !locked {
		short = "Allow a budget to be deleted"
	}

	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			if err := s.ledger.SetBudgetLock(cmd.Context(), args[0], locked); err != nil {
				return fmt.Errorf("failed to %s budget: %w", use, err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Budget %s %sed", args[0], use)))
			return nil
		},
	}
}

func budgetAlertsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "alerts",
		Short: "Show budgets that are over their limit this month",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			alerts, err := s.ledger.GetBudgetAlerts(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to get budget alerts: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(alerts) == 0 {
				fmt.Fprintln(out, cli.FormatSuccess("All budgets are within their limits"))
				return nil
			}
			for _, a := range alerts {
				fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("%s is over by %s (%s of %s)",
					a.Budget.Name, cli.FormatMoney(-a.Remaining()), cli.FormatMoney(a.Spent), cli.FormatMoney(a.Budget.Limit))))
			}
			return nil
		},
	}
}
