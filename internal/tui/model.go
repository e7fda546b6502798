// Package tui implements the interactive ledger dashboard.
package tui

import (
	"context"
	"time"

	"github.com/Veraticus/ledger-flow/internal/cli"
	"github.com/Veraticus/ledger-flow/internal/ledger"
	"github.com/Veraticus/ledger-flow/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Tab is one of the dashboard views.
type Tab int

// Dashboard tabs, in display order.
const (
	TabOverview Tab = iota
	TabTransactions
	TabBudgets
	TabCategories
	tabCount
)

var tabNames = [...]string{"Overview", "Transactions", "Budgets", "Categories"}

func (t Tab) String() string {
	return tabNames[t]
}

var periodCycle = []ledger.Period{ledger.PeriodMonth, ledger.PeriodFortnight, ledger.PeriodSemester, ledger.PeriodYear}

// Model holds the dashboard state.
type Model struct {
	ctx      context.Context
	source   Source
	changes  <-chan struct{}
	now      func() time.Time
	lastErr  error
	anchor   time.Time
	theme    themes.Theme
	keymap   KeyMap
	help     help.Model
	table    table.Model
	period   ledger.Period
	snap     snapshot
	width    int
	height   int
	tab      Tab
	loaded   bool
	quitting bool
}

// NewModel builds a dashboard over src. changes may be nil when live updates
// are not wanted.
func NewModel(ctx context.Context, src Source, changes <-chan struct{}, opts ...Option) Model {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	t := table.New(
		table.WithColumns(transactionColumns(cfg.Width)),
		table.WithFocused(true),
		table.WithHeight(max(cfg.Height-8, 3)),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(cfg.Theme.Border).
		BorderBottom(true).
		Bold(true)
	styles.Selected = cfg.Theme.Selected
	t.SetStyles(styles)

	return Model{
		ctx:     ctx,
		source:  src,
		changes: changes,
		now:     cfg.Now,
		anchor:  cfg.Now(),
		period:  cfg.Period,
		theme:   cfg.Theme,
		keymap:  DefaultKeyMap(),
		help:    help.New(),
		table:   t,
		width:   cfg.Width,
		height:  cfg.Height,
	}
}

// Init starts the first load and the change watcher.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.reload(), waitForChange(m.changes))
}

func (m Model) reload() tea.Cmd {
	return loadSnapshot(m.ctx, m.source, m.anchor, m.period)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.table.SetColumns(transactionColumns(msg.Width))
		m.table.SetHeight(max(msg.Height-8, 3))
		return m, nil

	case snapshotMsg:
		m.lastErr = msg.err
		if msg.err == nil {
			m.snap = msg.snap
			m.loaded = true
			m.table.SetRows(transactionRows(m.snap))
		}
		return m, nil

	case changedMsg:
		return m, tea.Batch(m.reload(), waitForChange(m.changes))

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keymap.NextTab):
		m.tab = (m.tab + 1) % tabCount
		return m, nil

	case key.Matches(msg, m.keymap.PrevTab):
		m.tab = (m.tab + tabCount - 1) % tabCount
		return m, nil

	case key.Matches(msg, m.keymap.PrevPeriod):
		m.anchor = ledger.ShiftPeriod(m.anchor, m.period, -1)
		return m, m.reload()

	case key.Matches(msg, m.keymap.NextPeriod):
		m.anchor = ledger.ShiftPeriod(m.anchor, m.period, 1)
		return m, m.reload()

	case key.Matches(msg, m.keymap.CyclePeriod):
		m.period = nextPeriod(m.period)
		return m, m.reload()

	case key.Matches(msg, m.keymap.Today):
		m.anchor = m.now()
		return m, m.reload()

	case key.Matches(msg, m.keymap.Refresh):
		return m, m.reload()
	}

	if m.tab == TabTransactions {
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	return m, nil
}

func nextPeriod(p ledger.Period) ledger.Period {
	for i, candidate := range periodCycle {
		if candidate == p {
			return periodCycle[(i+1)%len(periodCycle)]
		}
	}
	return ledger.PeriodMonth
}

func transactionColumns(width int) []table.Column {
	title := max(width-58, 12)
	return []table.Column{
		{Title: "Date", Width: 10},
		{Title: "Title", Width: title},
		{Title: "Category", Width: 14},
		{Title: "Account", Width: 12},
		{Title: "Amount", Width: 14},
	}
}

func transactionRows(snap snapshot) []table.Row {
	accountNames := make(map[string]string, len(snap.accounts))
	for _, a := range snap.accounts {
		accountNames[a.ID] = a.Name
	}

	rows := make([]table.Row, 0, len(snap.transactions))
	for _, t := range snap.transactions {
		account, ok := accountNames[t.AccountID]
		if !ok {
			account = t.AccountID
		}
		rows = append(rows, table.Row{
			t.Date.Format(time.DateOnly),
			t.Title,
			t.Category,
			account,
			cli.FormatMoney(t.SignedAmount()),
		})
	}
	return rows
}
