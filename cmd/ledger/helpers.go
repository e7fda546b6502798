package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/ledger-flow/internal/cli"
	"github.com/Veraticus/ledger-flow/internal/common"
	"github.com/Veraticus/ledger-flow/internal/config"
	"github.com/Veraticus/ledger-flow/internal/ledger"
	"github.com/Veraticus/ledger-flow/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const dateLayout = "2006-01-02"

// session is an open database plus the ledger built on it.
type session struct {
	records *storage.SQLiteStorage
	ledger  *ledger.Store
	cfg     config.Config
}

func (s *session) Close() error {
	return s.records.Close()
}

// openLedger opens the configured database, applies migrations and builds the ledger.
func openLedger(ctx context.Context) (*session, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}

	records, err := storage.NewSQLiteStorage(cfg.DatabasePath)
	if err != nil {
		return nil, common.NewUserError("could not open the ledger database", err)
	}

	if err := records.Migrate(ctx); err != nil {
		_ = records.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	store, err := ledger.New(ctx, records,
		ledger.WithLogger(slog.Default()),
		ledger.WithLookahead(cfg.Lookahead),
		ledger.WithPINCost(cfg.PINCost),
	)
	if err != nil {
		_ = records.Close()
		return nil, err
	}

	return &session{records: records, ledger: store, cfg: cfg}, nil
}

// openSession opens the ledger and passes the PIN gate.
func openSession(cmd *cobra.Command) (*session, error) {
	s, err := openLedger(cmd.Context())
	if err != nil {
		return nil, err
	}
	if err := requireLogin(cmd, s.ledger); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

// requireLogin checks the --pin flag, prompting on stdin when it is empty.
func requireLogin(cmd *cobra.Command, store *ledger.Store) error {
	ctx := cmd.Context()

	user, err := store.GetUser(ctx)
	if err != nil {
		return err
	}
	if user == nil {
		return common.NewUserError("run 'ledger register' first", common.ErrNotRegistered)
	}

	pin, err := readPIN(cmd, "PIN")
	if err != nil {
		return err
	}

	ok, err := store.Login(ctx, pin)
	if err != nil {
		return err
	}
	if !ok {
		return common.ErrWrongPIN
	}
	return nil
}

func readPIN(cmd *cobra.Command, label string) (string, error) {
	pin, _ := cmd.Flags().GetString("pin")
	if pin != "" {
		return pin, nil
	}

	reader := cli.NewLineReader(cmd.InOrStdin())
	pin, err := reader.Prompt(cmd.Context(), cmd.ErrOrStderr(), label)
	if err != nil {
		if errors.Is(err, cli.ErrInputCancelled) {
			return "", err
		}
		return "", fmt.Errorf("failed to read PIN: %w", err)
	}
	return pin, nil
}

// parseDay accepts YYYY-MM-DD and returns UTC midnight; empty means today.
func parseDay(value string) (time.Time, error) {
	if value == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return t, nil
}

// parseDate is parseDay at noon UTC, so the calendar day survives any local offset.
func parseDate(value string) (time.Time, error) {
	t, err := parseDay(value)
	if err != nil {
		return time.Time{}, err
	}
	return t.Add(12 * time.Hour), nil
}

// unknownRef builds a not-found error that lists close matches from candidates.
func unknownRef(kind, value string, candidates []string) error {
	msg := fmt.Sprintf("unknown %s %q", kind, value)
	if suggestions := cli.Suggest(value, candidates, 3); len(suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(suggestions, ", "))
	}
	return common.NewUserError(msg, common.ErrNotFound)
}

// resolveAccount maps an account id or name to its id.
func resolveAccount(ctx context.Context, store *ledger.Store, ref string) (string, error) {
	accounts, err := store.GetAccounts(ctx)
	if err != nil {
		return "", err
	}
	var candidates []string
	for _, a := range accounts {
		if a.ID == ref || strings.EqualFold(a.Name, ref) {
			return a.ID, nil
		}
		candidates = append(candidates, a.ID, a.Name)
	}
	return "", unknownRef("account", ref, candidates)
}

// resolveCategory maps a category id or label to its id.
func resolveCategory(ctx context.Context, store *ledger.Store, ref string) (string, error) {
	cats, err := store.GetCategories(ctx)
	if err != nil {
		return "", err
	}
	var candidates []string
	for _, c := range cats {
		if c.ID == ref || strings.EqualFold(c.Label, ref) {
			return c.ID, nil
		}
		candidates = append(candidates, c.ID, c.Label)
	}
	return "", unknownRef("category", ref, candidates)
}
