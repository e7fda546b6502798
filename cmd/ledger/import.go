package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/Veraticus/ledger-flow/internal/cli"
	"github.com/Veraticus/ledger-flow/internal/ofx"
	"github.com/spf13/cobra"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import bank statements",
	}

	cmd.AddCommand(importOFXCmd())

	return cmd
}

func importOFXCmd() *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "ofx <file>...",
		Short: "Import OFX/QFX statement files into an account",
		Long: `Import one or more OFX/QFX files. Statement lines already imported, matched
by their FITID, are skipped, so re-importing an overlapping statement is safe.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			accountID, err := resolveAccount(ctx, s.ledger, account)
			if err != nil {
				return err
			}

			parser := ofx.NewParser(slog.Default())
			bar := cli.NewProgressBar(cmd.ErrOrStderr(), len(args), "Importing statements")

			var added, parsed int
			for _, path := range args {
				f, err := os.Open(path)
				if err != nil {
					return fmt.Errorf("failed to open %s: %w", path, err)
				}
				drafts, err := parser.ParseFile(ctx, f)
				_ = f.Close()
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}

				n, err := s.ledger.ImportStatement(ctx, accountID, drafts)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				parsed += len(drafts)
				added += n
				_ = bar.Add(1)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Imported %d of %d statement lines (%d already present)",
				added, parsed, parsed-added)))
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "Account id or name to import into")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}
