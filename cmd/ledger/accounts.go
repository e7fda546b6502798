package main

import (
	"fmt"

	"github.com/Veraticus/ledger-flow/internal/cli"
	"github.com/Veraticus/ledger-flow/internal/model"
	"github.com/spf13/cobra"
)

func accountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "accounts",
		Aliases: []string{"account", "acc"},
		Short:   "Manage accounts",
		Long:    `List, add and inspect the accounts that hold your money. Balances are computed from transactions.`,
	}

	cmd.AddCommand(listAccountsCmd())
	cmd.AddCommand(addAccountCmd())
	cmd.AddCommand(showAccountCmd())

	return cmd
}

func listAccountsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts with their balances",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			accounts, err := s.ledger.GetAccounts(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to get accounts: %w", err)
			}

			if len(accounts) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("No accounts yet. Use 'ledger accounts add' to create one."))
				return nil
			}

			var total float64
			rows := make([][]string, 0, len(accounts))
			for _, a := range accounts {
				total += a.Balance
				rows = append(rows, []string{a.ID, a.Name, string(a.Type), cli.FormatSigned(a.Balance)})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.RenderTable([]string{"ID", "Name", "Type", "Balance"}, rows))
			fmt.Fprintf(out, "\nNet worth: %s\n", cli.FormatSigned(total))
			return nil
		},
	}
}

func addAccountCmd() *cobra.Command {
	var (
		accountType string
		color       string
		icon        string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			acc, err := s.ledger.AddAccount(cmd.Context(), model.Account{
				Name:     args[0],
				Type:     model.AccountType(accountType),
				Color:    color,
				IconName: icon,
			})
			if err != nil {
				return fmt.Errorf("failed to add account: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Created account %q (ID: %s)", acc.Name, acc.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&accountType, "type", string(model.AccountBank), "Account type (wallet, bank, investment, other)")
	cmd.Flags().StringVar(&color, "color", "#6366f1", "Display color")
	cmd.Flags().StringVar(&icon, "icon", "", "Icon name")

	return cmd
}

func showAccountCmd() *cobra.Command {
	var (
		txType string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "show <id|name>",
		Short: "Show an account and its transactions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			id, err := resolveAccount(ctx, s.ledger, args[0])
			if err != nil {
				return err
			}
			acc, err := s.ledger.GetAccount(ctx, id)
			if err != nil {
				return err
			}
			txns, err := s.ledger.AccountTransactions(ctx, id, model.TransactionType(txType))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.RenderBox(acc.Name, fmt.Sprintf("ID:      %s\nType:    %s\nBalance: %s",
				acc.ID, acc.Type, cli.FormatSigned(acc.Balance))))
			printTransactions(cmd, txns, limit)
			return nil
		},
	}

	cmd.Flags().StringVar(&txType, "type", "", "Only show income or expense transactions")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum transactions to show (0 for all)")

	return cmd
}
