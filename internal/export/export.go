// Package export writes ledger transactions as spreadsheets.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/Veraticus/ledger-flow/internal/model"
	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet that holds the exported rows.
const SheetName = "Transactions"

var headers = []string{"Date", "Title", "Type", "Category", "Account", "Amount", "Signed Amount", "Recurrence"}

// Row is one exported transaction with its references resolved to labels.
type Row struct {
	Date       string
	Title      string
	Type       string
	Category   string
	Account    string
	Recurrence string
	Amount     float64
	Signed     float64
}

func (r Row) strings() []string {
	return []string{
		r.Date,
		r.Title,
		r.Type,
		r.Category,
		r.Account,
		strconv.FormatFloat(r.Amount, 'f', 2, 64),
		strconv.FormatFloat(r.Signed, 'f', 2, 64),
		r.Recurrence,
	}
}

// BuildRows resolves account and category ids to names and orders the rows
// newest first. Unknown ids are exported as-is.
func BuildRows(txns []model.Transaction, accounts []model.Account, cats []model.CategoryItem) []Row {
	accountNames := make(map[string]string, len(accounts))
	for _, a := range accounts {
		accountNames[a.ID] = a.Name
	}
	catLabels := make(map[string]string, len(cats))
	for _, c := range cats {
		catLabels[c.ID] = c.Label
	}
	lookup := func(m map[string]string, id string) string {
		if name, ok := m[id]; ok {
			return name
		}
		return id
	}

	sorted := append([]model.Transaction(nil), txns...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})

	rows := make([]Row, 0, len(sorted))
	for _, t := range sorted {
		row := Row{
			Date:     t.Date.Format("2006-01-02"),
			Title:    t.Title,
			Type:     string(t.Type),
			Category: lookup(catLabels, t.Category),
			Account:  lookup(accountNames, t.AccountID),
			Amount:   t.Amount,
			Signed:   t.SignedAmount(),
		}
		if r := t.Recurrence; r != nil {
			row.Recurrence = string(r.Frequency)
			if r.Total > 0 {
				row.Recurrence = fmt.Sprintf("%s %d/%d", r.Frequency, r.Current, r.Total)
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteCSV writes a header line followed by one line per row.
func WriteCSV(w io.Writer, rows []Row) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for i, row := range rows {
		if err := writer.Write(row.strings()); err != nil {
			return fmt.Errorf("failed to write CSV row %d: %w", i+1, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteXLSX writes the rows as a single-sheet workbook with numeric amount cells.
func WriteXLSX(w io.Writer, rows []Row) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to name worksheet: %w", err)
	}

	for i, h := range headers {
		if err := setCell(f, i+1, 1, h); err != nil {
			return err
		}
	}

	for idx, row := range rows {
		r := idx + 2
		values := []any{row.Date, row.Title, row.Type, row.Category, row.Account, row.Amount, row.Signed, row.Recurrence}
		for col, v := range values {
			if err := setCell(f, col+1, r, v); err != nil {
				return err
			}
		}
	}

	widths := map[string]float64{"A": 12, "B": 30, "C": 10, "D": 18, "E": 16, "F": 12, "G": 14, "H": 16}
	for col, width := range widths {
		if err := f.SetColWidth(SheetName, col, col, width); err != nil {
			return fmt.Errorf("failed to size column %s: %w", col, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func setCell(f *excelize.File, col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(SheetName, cell, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", cell, err)
	}
	return nil
}
