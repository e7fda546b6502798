package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Veraticus/ledger-flow/internal/cli"
	"github.com/Veraticus/ledger-flow/internal/ledger"
	"github.com/spf13/cobra"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "report",
		Aliases: []string{"reports"},
		Short:   "Summaries of income and expense",
	}

	cmd.AddCommand(summaryReportCmd())
	cmd.AddCommand(periodReportCmd())
	cmd.AddCommand(categoriesReportCmd())

	return cmd
}

// dateBounds turns inclusive YYYY-MM-DD flags into a half-open range.
// Empty flags leave that side open.
func dateBounds(from, to string) (time.Time, time.Time, error) {
	var start, end time.Time
	if from != "" {
		t, err := parseDay(from)
		if err != nil {
			return start, end, err
		}
		start = t
	}
	if to != "" {
		t, err := parseDay(to)
		if err != nil {
			return start, end, err
		}
		end = t.AddDate(0, 0, 1)
	}
	return start, end, nil
}

func renderTotals(t ledger.Totals) string {
	return fmt.Sprintf("Income:  %s\nExpense: %s\nBalance: %s",
		cli.IncomeStyle.Render(cli.FormatMoney(t.Income)),
		cli.ExpenseStyle.Render(cli.FormatMoney(t.Expense)),
		cli.FormatSigned(t.Balance))
}

func summaryReportCmd() *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Total income, expense and balance",
		RunE: func(cmd *cobra.Command, _ []string) error {
			start, end, err := dateBounds(from, to)
			if err != nil {
				return err
			}

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			totals, err := s.ledger.Summary(cmd.Context(), start, end)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.RenderBox("Summary", renderTotals(totals)))
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "First day included (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Last day included (YYYY-MM-DD)")

	return cmd
}

func periodReportCmd() *cobra.Command {
	var (
		period string
		date   string
		offset int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "period",
		Short: "Daily income and expense for a month, fortnight, semester or year",
		Example: `  ledger report period
  ledger report period --period semester --offset -1
  ledger report period --period fortnight --date 2024-02-20 --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := ledger.ParsePeriod(period)
			if err != nil {
				return err
			}
			anchor, err := parseDate(date)
			if err != nil {
				return err
			}
			anchor = ledger.ShiftPeriod(anchor, p, offset)

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			report, err := s.ledger.Report(cmd.Context(), anchor, p)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}

			fmt.Fprintln(out, cli.RenderBox(p.Label(anchor), renderTotals(report.Totals)))
			if len(report.Points) == 0 {
				fmt.Fprintln(out, cli.FormatInfo("No activity in this period."))
				return nil
			}
			rows := make([][]string, 0, len(report.Points))
			for _, pt := range report.Points {
				rows = append(rows, []string{
					pt.Day.Format(dateLayout),
					cli.FormatMoney(pt.Income),
					cli.FormatMoney(pt.Expense),
					cli.FormatSigned(pt.Income - pt.Expense),
				})
			}
			fmt.Fprintln(out, cli.RenderTable([]string{"Day", "Income", "Expense", "Net"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&period, "period", string(ledger.PeriodMonth), "month, fortnight, semester or year")
	cmd.Flags().StringVar(&date, "date", "", "Any day inside the period (default today)")
	cmd.Flags().IntVar(&offset, "offset", 0, "Periods to move from --date (negative goes back)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")

	return cmd
}

func categoriesReportCmd() *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Expenses per category, largest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			start, end, err := dateBounds(from, to)
			if err != nil {
				return err
			}

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			totals, err := s.ledger.ExpensesByCategory(cmd.Context(), start, end)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(totals) == 0 {
				fmt.Fprintln(out, cli.FormatInfo("No expenses in this range."))
				return nil
			}

			var sum float64
			for _, ct := range totals {
				sum += ct.Amount
			}
			rows := make([][]string, 0, len(totals))
			for _, ct := range totals {
				rows = append(rows, []string{
					ct.Category.Label,
					cli.FormatMoney(ct.Amount),
					fmt.Sprintf("%.1f%%", ct.Amount/sum*100),
				})
			}
			fmt.Fprintln(out, cli.RenderTable([]string{"Category", "Spent", "Share"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "First day included (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Last day included (YYYY-MM-DD)")

	return cmd
}
