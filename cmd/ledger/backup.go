package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Veraticus/ledger-flow/internal/cli"
	"github.com/Veraticus/ledger-flow/internal/common"
	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
)

func backupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export or restore the whole ledger as JSON",
	}

	cmd.AddCommand(backupExportCmd())
	cmd.AddCommand(backupImportCmd())

	return cmd
}

func backupExportCmd() *cobra.Command {
	var toClipboard bool

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Write a backup to a file, stdout or the clipboard",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			data, err := s.ledger.ExportData(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to export: %w", err)
			}

			switch {
			case toClipboard:
				if err := clipboard.WriteAll(string(data)); err != nil {
					return common.NewUserError("could not write to the clipboard", err)
				}
				fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatSuccess("Backup copied to the clipboard"))
			case len(args) == 0 || args[0] == "-":
				if _, err := cmd.OutOrStdout().Write(append(data, '\n')); err != nil {
					return err
				}
			default:
				if err := os.WriteFile(args[0], data, 0600); err != nil {
					return fmt.Errorf("failed to write backup: %w", err)
				}
				fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatSuccess(fmt.Sprintf("Backup written to %s", args[0])))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&toClipboard, "clipboard", false, "Copy the backup to the clipboard")

	return cmd
}

func backupImportCmd() *cobra.Command {
	var (
		fromClipboard bool
		noSnapshot    bool
	)

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Replace all data with a backup",
		Long: `Replace every account, transaction, budget, category and the profile with the
contents of a backup. Reads the file argument, stdin ("-" or no argument) or
the clipboard. When a profile exists its PIN is required first and the
current database is snapshotted next to its file. Reading from stdin then
needs --pin, since the PIN cannot be prompted for on the same stream.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			fromStdin := !fromClipboard && (len(args) == 0 || args[0] == "-")

			s, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			// A fresh install may restore without a PIN.
			user, err := s.ledger.GetUser(ctx)
			if err != nil {
				return err
			}
			if user != nil {
				// stdin carries the payload, so the PIN cannot be prompted for.
				if pin, _ := cmd.Flags().GetString("pin"); fromStdin && pin == "" {
					return common.NewUserError("pass --pin when reading the backup from stdin", nil)
				}
				if err := requireLogin(cmd, s.ledger); err != nil {
					return err
				}
			}

			var data []byte
			switch {
			case fromClipboard:
				text, err := clipboard.ReadAll()
				if err != nil {
					return common.NewUserError("could not read the clipboard", err)
				}
				data = []byte(text)
			case fromStdin:
				if data, err = io.ReadAll(cmd.InOrStdin()); err != nil {
					return fmt.Errorf("failed to read backup: %w", err)
				}
			default:
				if data, err = os.ReadFile(args[0]); err != nil {
					return fmt.Errorf("failed to read backup: %w", err)
				}
			}

			if user != nil && !noSnapshot {
				path, err := s.records.AutoSnapshot(ctx, "import", time.Now())
				if err != nil {
					return fmt.Errorf("failed to snapshot before import: %w", err)
				}
				fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatInfo(fmt.Sprintf("Previous data saved to %s", path)))
			}

			ok, err := s.ledger.ImportData(ctx, data)
			if err != nil {
				return fmt.Errorf("failed to import: %w", err)
			}
			if !ok {
				return common.NewUserError("backup rejected: it is not valid JSON or lacks the user or transactions", nil)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Backup restored"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&fromClipboard, "clipboard", false, "Read the backup from the clipboard")
	cmd.Flags().BoolVar(&noSnapshot, "no-snapshot", false, "Skip the safety snapshot of the current database")

	return cmd
}
