package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Veraticus/ledger-flow/internal/cli"
	"github.com/Veraticus/ledger-flow/internal/common"
	"github.com/Veraticus/ledger-flow/internal/model"
	"github.com/spf13/cobra"
)

func txCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tx",
		Aliases: []string{"transactions"},
		Short:   "Record and list transactions",
	}

	cmd.AddCommand(listTxCmd())
	cmd.AddCommand(addTxCmd())
	cmd.AddCommand(transferCmd())
	cmd.AddCommand(deleteTxCmd())

	return cmd
}

func listTxCmd() *cobra.Command {
	var (
		account string
		txType  string
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			var txns []model.Transaction
			if account != "" {
				id, err := resolveAccount(ctx, s.ledger, account)
				if err != nil {
					return err
				}
				txns, err = s.ledger.AccountTransactions(ctx, id, model.TransactionType(txType))
				if err != nil {
					return err
				}
			} else {
				all, err := s.ledger.GetTransactions(ctx)
				if err != nil {
					return err
				}
				for _, t := range all {
					if txType == "" || t.Type == model.TransactionType(txType) {
						txns = append(txns, t)
					}
				}
			}

			printTransactions(cmd, txns, limit)
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "Only show this account (id or name)")
	cmd.Flags().StringVar(&txType, "type", "", "Only show income or expense transactions")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum transactions to show (0 for all)")

	return cmd
}

func printTransactions(cmd *cobra.Command, txns []model.Transaction, limit int) {
	out := cmd.OutOrStdout()
	if len(txns) == 0 {
		fmt.Fprintln(out, cli.FormatInfo("No transactions."))
		return
	}

	shown := txns
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}

	rows := make([][]string, 0, len(shown))
	for _, t := range shown {
		rows = append(rows, []string{
			t.Date.Format(dateLayout),
			t.ID,
			t.Title,
			t.Category,
			t.AccountID,
			cli.FormatSigned(t.SignedAmount()),
		})
	}
	fmt.Fprintln(out, cli.RenderTable([]string{"Date", "ID", "Title", "Category", "Account", "Amount"}, rows))

	if len(shown) < len(txns) {
		fmt.Fprintf(out, "… %d more\n", len(txns)-len(shown))
	}
}

func addTxCmd() *cobra.Command {
	var (
		txType   string
		category string
		account  string
		date     string
		repeat   string
		count    int
		infinite bool
	)

	cmd := &cobra.Command{
		Use:   "add <title> <amount>",
		Short: "Record a transaction",
		Long: `Record an income or expense. With --repeat the entry becomes a series:
--count splits the amount into that many installments, --infinite repeats
the full amount without end.`,
		Example: `  ledger tx add "Groceries" 54.20 --category food
  ledger tx add "Laptop" 1200 --repeat monthly --count 12
  ledger tx add "Rent" 950 --category housing --repeat monthly --infinite`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			amount, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[1], err)
			}
			when, err := parseDate(date)
			if err != nil {
				return err
			}

			var settings *model.RecurrenceSettings
			if repeat != "" {
				settings = &model.RecurrenceSettings{
					Frequency:  model.Frequency(strings.ToLower(repeat)),
					Count:      count,
					IsInfinite: infinite,
				}
			} else if infinite || cmd.Flags().Changed("count") {
				return common.NewUserError("--count and --infinite need --repeat", nil)
			}

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			accountID, err := resolveAccount(ctx, s.ledger, account)
			if err != nil {
				return err
			}
			categoryID := ""
			if category != "" {
				if categoryID, err = resolveCategory(ctx, s.ledger, category); err != nil {
					return err
				}
			}

			created, err := s.ledger.AddTransaction(ctx, model.Transaction{
				Title:     args[0],
				Amount:    amount,
				Type:      model.TransactionType(txType),
				Category:  categoryID,
				AccountID: accountID,
				Date:      when,
			}, settings)
			if err != nil {
				return fmt.Errorf("failed to add transaction: %w", err)
			}

			msg := fmt.Sprintf("Recorded %s (ID: %s)", args[0], created[0].ID)
			if len(created) > 1 {
				msg = fmt.Sprintf("Recorded %d instances of %s", len(created), args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(msg))
			return nil
		},
	}

	cmd.Flags().StringVar(&txType, "type", string(model.TypeExpense), "Transaction type (income, expense)")
	cmd.Flags().StringVar(&category, "category", "", "Category id or label (default other)")
	cmd.Flags().StringVar(&account, "account", model.DefaultAccountID, "Account id or name")
	cmd.Flags().StringVar(&date, "date", "", "Date as YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&repeat, "repeat", "", "Frequency (weekly, biweekly, monthly, semiannual, yearly, custom)")
	cmd.Flags().IntVar(&count, "count", 0, "Number of installments for a fixed plan")
	cmd.Flags().BoolVar(&infinite, "infinite", false, "Repeat without end")

	return cmd
}

func transferCmd() *cobra.Command {
	var (
		from  string
		to    string
		title string
		date  string
	)

	cmd := &cobra.Command{
		Use:   "transfer <amount>",
		Short: "Move money between two accounts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			amount, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[0], err)
			}
			when, err := parseDate(date)
			if err != nil {
				return err
			}

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			fromID, err := resolveAccount(ctx, s.ledger, from)
			if err != nil {
				return err
			}
			toID, err := resolveAccount(ctx, s.ledger, to)
			if err != nil {
				return err
			}

			legs, err := s.ledger.AddTransfer(ctx, model.TransferRequest{
				FromAccountID: fromID,
				ToAccountID:   toID,
				Title:         title,
				Amount:        amount,
				Date:          when,
			})
			if err != nil {
				return fmt.Errorf("failed to transfer: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Transferred %s (transfer ID: %s)",
				cli.FormatMoney(amount), legs[0].TransferID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Source account id or name")
	cmd.Flags().StringVar(&to, "to", "", "Destination account id or name")
	cmd.Flags().StringVar(&title, "title", "Transfer", "Description")
	cmd.Flags().StringVar(&date, "date", "", "Date as YYYY-MM-DD (default today)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func deleteTxCmd() *cobra.Command {
	var transfer bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction",
		Long:  `Delete one transaction. With --transfer the id is a transfer id and both legs are removed.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			if transfer {
				err = s.ledger.DeleteTransfer(cmd.Context(), args[0])
			} else {
				err = s.ledger.DeleteTransaction(cmd.Context(), args[0])
			}
			if err != nil {
				return fmt.Errorf("failed to delete: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Deleted %s", args[0])))
			return nil
		},
	}

	cmd.Flags().BoolVar(&transfer, "transfer", false, "Delete both legs of a transfer")

	return cmd
}
