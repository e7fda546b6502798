package main

import (
	"fmt"
	"io"
	"os"

	"github.com/Veraticus/ledger-flow/internal/cli"
	"github.com/Veraticus/ledger-flow/internal/export"
	"github.com/spf13/cobra"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export transactions as a spreadsheet",
	}

	cmd.AddCommand(exportFormatCmd("csv", "Export transactions as CSV", export.WriteCSV))
	cmd.AddCommand(exportFormatCmd("xlsx", "Export transactions as an Excel workbook", export.WriteXLSX))

	return cmd
}

func exportFormatCmd(format, short string, write func(io.Writer, []export.Row) error) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   format,
		Short: short,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			txns, err := s.ledger.GetTransactions(ctx)
			if err != nil {
				return err
			}
			accounts, err := s.ledger.GetAccounts(ctx)
			if err != nil {
				return err
			}
			cats, err := s.ledger.GetCategories(ctx)
			if err != nil {
				return err
			}
			rows := export.BuildRows(txns, accounts, cats)

			if output == "" || output == "-" {
				return write(cmd.OutOrStdout(), rows)
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", output, err)
			}
			if err := write(f, rows); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to close %s: %w", output, err)
			}

			fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatSuccess(fmt.Sprintf("Exported %d transactions to %s", len(rows), output)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")

	return cmd
}
