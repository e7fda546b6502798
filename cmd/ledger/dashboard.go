package main

import (
	"github.com/Veraticus/ledger-flow/internal/ledger"
	"github.com/Veraticus/ledger-flow/internal/tui"
	"github.com/Veraticus/ledger-flow/internal/tui/themes"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func dashboardCmd() *cobra.Command {
	var period string

	cmd := &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"ui"},
		Short:   "Open the interactive dashboard",
		Long: `Browse balances, transactions, budgets and category spending in the terminal.
Use tab to switch views, the arrow keys to move between periods and q to quit.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := ledger.ParsePeriod(period)
			if err != nil {
				return err
			}

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			return tui.Run(cmd.Context(), s.ledger,
				tui.WithTheme(themes.ByName(viper.GetString("tui.theme"))),
				tui.WithPeriod(p),
			)
		},
	}

	cmd.Flags().String("theme", "default", "Color theme (default, catppuccin)")
	cmd.Flags().StringVar(&period, "period", string(ledger.PeriodMonth), "Initial period (month, fortnight, semester, year)")
	_ = viper.BindPFlag("tui.theme", cmd.Flags().Lookup("theme"))

	return cmd
}
