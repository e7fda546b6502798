package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		want   string
		amount float64
	}{
		{amount: 0, want: "0.00"},
		{amount: 12.5, want: "12.50"},
		{amount: 999.999, want: "1,000.00"},
		{amount: 1234567.891, want: "1,234,567.89"},
		{amount: -42, want: "-42.00"},
		{amount: -1500.1, want: "-1,500.10"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatMoney(tt.amount))
		})
	}
}

func TestFormatSigned(t *testing.T) {
	assert.Contains(t, FormatSigned(10), "+10.00")
	assert.Contains(t, FormatSigned(-10), "-10.00")
	assert.Equal(t, "0.00", FormatSigned(0))
}

func TestFormatMessages(t *testing.T) {
	assert.Contains(t, FormatSuccess("saved"), "saved")
	assert.Contains(t, FormatError("failed"), ErrorIcon)
	assert.Contains(t, FormatWarning("careful"), "careful")
	assert.Contains(t, FormatInfo("note"), "note")
	assert.Contains(t, FormatTitle("Accounts"), "Accounts")
	assert.Contains(t, RenderBox("Summary", "body"), "body")
}

func TestRenderTable(t *testing.T) {
	out := RenderTable([]string{"ID", "Name"}, [][]string{{"acc1", "Wallet"}, {"acc2", "Bank"}})

	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "Wallet")
	assert.Contains(t, out, "Bank")
	assert.Less(t, strings.Index(out, "Wallet"), strings.Index(out, "Bank"))
}

func TestSuggest(t *testing.T) {
	candidates := []string{"food", "shopping", "transport", "housing", "utilities", "health"}

	tests := []struct {
		name  string
		input string
		want  []string
		limit int
	}{
		{name: "typo", input: "fod", limit: 3, want: []string{"food"}},
		{name: "prefix", input: "trans", limit: 3, want: []string{"transport"}},
		{name: "case insensitive", input: "HOUSNG", limit: 3, want: []string{"housing"}},
		{name: "nothing close", input: "zzzzzz", limit: 3, want: []string{}},
		{name: "empty input", input: "  ", limit: 3, want: nil},
		{name: "zero limit", input: "food", limit: 0, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Suggest(tt.input, candidates, tt.limit))
		})
	}
}

func TestNewProgressBar(t *testing.T) {
	var buf bytes.Buffer
	bar := NewProgressBar(&buf, 3, "Importing")

	for i := 0; i < 3; i++ {
		require.NoError(t, bar.Add(1))
	}
	assert.True(t, bar.IsFinished())
}
