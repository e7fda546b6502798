package tui

import (
	"fmt"
	"strings"

	"github.com/Veraticus/ledger-flow/internal/cli"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var body string
	switch {
	case m.lastErr != nil:
		body = m.theme.StatusError.Render("Failed to load ledger: " + m.lastErr.Error())
	case !m.loaded:
		body = m.theme.Muted.Render("Loading…")
	default:
		switch m.tab {
		case TabTransactions:
			body = m.transactionsView()
		case TabBudgets:
			body = m.budgetsView()
		case TabCategories:
			body = m.categoriesView()
		default:
			body = m.overviewView()
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.headerView(),
		body,
		"",
		m.help.View(m.keymap),
	)
}

func (m Model) headerView() string {
	tabs := make([]string, 0, tabCount)
	for t := Tab(0); t < tabCount; t++ {
		style := m.theme.Tab
		if t == m.tab {
			style = m.theme.ActiveTab
		}
		tabs = append(tabs, style.Render(t.String()))
	}

	greeting := cli.LedgerIcon + " Ledger"
	if m.snap.user != nil {
		greeting = fmt.Sprintf("%s %s", m.snap.user.Avatar, m.snap.user.Username)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Title.Render(greeting)+"  "+m.theme.Subtitle.Render(m.period.Label(m.anchor)),
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...),
		"",
	)
}

func (m Model) money(amount float64) string {
	switch {
	case amount > 0:
		return m.theme.Income.Render(cli.FormatMoney(amount))
	case amount < 0:
		return m.theme.Expense.Render(cli.FormatMoney(amount))
	}
	return m.theme.Normal.Render(cli.FormatMoney(amount))
}

func (m Model) overviewView() string {
	totals := m.snap.report.Totals
	summary := strings.Join([]string{
		fmt.Sprintf("Net worth  %s", m.money(m.snap.netWorth)),
		fmt.Sprintf("Income     %s", m.theme.Income.Render(cli.FormatMoney(totals.Income))),
		fmt.Sprintf("Expenses   %s", m.theme.Expense.Render(cli.FormatMoney(totals.Expense))),
		fmt.Sprintf("Balance    %s", m.money(totals.Balance)),
	}, "\n")

	var accounts strings.Builder
	for i, a := range m.snap.accounts {
		if i > 0 {
			accounts.WriteString("\n")
		}
		fmt.Fprintf(&accounts, "%-16s %s", a.Name, m.money(a.Balance))
	}
	if len(m.snap.accounts) == 0 {
		accounts.WriteString(m.theme.Muted.Render("No accounts"))
	}

	boxes := lipgloss.JoinHorizontal(lipgloss.Top,
		m.theme.RoundedBox.Render(m.theme.Bold.Render("Period")+"\n"+summary),
		" ",
		m.theme.RoundedBox.Render(m.theme.Bold.Render("Accounts")+"\n"+accounts.String()),
	)

	var alerts []string
	for _, b := range m.snap.budgets {
		if b.Exceeded() {
			alerts = append(alerts, m.theme.StatusWarn.Render(fmt.Sprintf("%s %s over by %s",
				cli.WarningIcon, b.Budget.Name, cli.FormatMoney(-b.Remaining()))))
		}
	}
	if len(alerts) == 0 {
		return boxes
	}
	return lipgloss.JoinVertical(lipgloss.Left, boxes, "", strings.Join(alerts, "\n"))
}

func (m Model) transactionsView() string {
	if len(m.snap.transactions) == 0 {
		return m.theme.Muted.Render("No transactions in this period")
	}
	return m.table.View()
}

func (m Model) budgetsView() string {
	if len(m.snap.budgets) == 0 {
		return m.theme.Muted.Render("No budgets yet")
	}

	bar := progress.New(
		progress.WithSolidFill(string(m.theme.IncomeColor)),
		progress.WithWidth(max(min(m.width-40, 40), 10)),
		progress.WithoutPercentage(),
	)
	over := progress.New(
		progress.WithSolidFill(string(m.theme.ExpenseColor)),
		progress.WithWidth(max(min(m.width-40, 40), 10)),
		progress.WithoutPercentage(),
	)

	lines := make([]string, 0, len(m.snap.budgets))
	for _, b := range m.snap.budgets {
		ratio := b.Spent / b.Budget.Limit
		name := b.Budget.Name
		if b.Budget.IsLocked {
			name = cli.LockIcon + " " + name
		}

		rendered := bar.ViewAs(min(ratio, 1))
		if b.Exceeded() {
			rendered = over.ViewAs(1)
		}
		lines = append(lines, fmt.Sprintf("%-20s %s %s / %s",
			name, rendered, m.money(-b.Spent), cli.FormatMoney(b.Budget.Limit)))
	}
	return strings.Join(lines, "\n")
}

func (m Model) categoriesView() string {
	if len(m.snap.categories) == 0 {
		return m.theme.Muted.Render("No expenses in this period")
	}

	total := 0.0
	for _, c := range m.snap.categories {
		total += c.Amount
	}

	lines := make([]string, 0, len(m.snap.categories))
	for _, c := range m.snap.categories {
		share := c.Amount / total
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Category.Color)).Render("■")
		lines = append(lines, fmt.Sprintf("%s %-20s %12s %5.1f%%",
			swatch, c.Category.Label, cli.FormatMoney(c.Amount), share*100))
	}
	return strings.Join(lines, "\n")
}
