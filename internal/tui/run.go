package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the dashboard until the user quits or ctx is canceled. The
// dashboard re-reads the ledger after every mutation made while it runs.
func Run(ctx context.Context, src Source, opts ...Option) error {
	if src == nil {
		return fmt.Errorf("ledger is required")
	}

	changes, unsubscribe := watch(src)
	defer unsubscribe()

	p := tea.NewProgram(
		NewModel(ctx, src, changes, opts...),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("dashboard error: %w", err)
	}
	return nil
}
