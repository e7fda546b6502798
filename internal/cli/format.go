package cli

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// FormatMoney renders an amount with two decimals and thousands separators.
func FormatMoney(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	cents := int64(math.Round(amount * 100))
	whole, frac := cents/100, cents%100

	digits := fmt.Sprintf("%d", whole)
	var grouped strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(d)
	}
	return fmt.Sprintf("%s%s.%02d", sign, grouped.String(), frac)
}

// FormatSigned colors a signed amount green when positive and red when negative.
func FormatSigned(amount float64) string {
	switch {
	case amount > 0:
		return IncomeStyle.Render("+" + FormatMoney(amount))
	case amount < 0:
		return ExpenseStyle.Render(FormatMoney(amount))
	default:
		return FormatMoney(0)
	}
}

// RenderTable lays out rows under headers with the CLI table styles.
func RenderTable(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			return TableCellStyle
		})
	return t.Render()
}
