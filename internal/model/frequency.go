package model

// Frequency identifies how often a recurring transaction repeats.
type Frequency string

// Supported frequencies.
const (
	FrequencyWeekly     Frequency = "weekly"
	FrequencyBiweekly   Frequency = "biweekly"
	FrequencyMonthly    Frequency = "monthly"
	FrequencySemiannual Frequency = "semiannual"
	FrequencyYearly     Frequency = "yearly"
	FrequencyCustom     Frequency = "custom"
)

// FrequencyInfo is one row of the frequency lookup table.
type FrequencyInfo struct {
	ID    Frequency
	Label string
	Days  int
}

// Frequencies is the day-step table. Calendar-aware frequencies (monthly,
// semiannual, yearly) carry an approximate day count that is only used when
// a caller needs a rough interval; custom has no row and falls back to the
// monthly entry.
var Frequencies = []FrequencyInfo{
	{ID: FrequencyWeekly, Label: "Weekly", Days: 7},
	{ID: FrequencyBiweekly, Label: "Biweekly", Days: 15},
	{ID: FrequencyMonthly, Label: "Monthly", Days: 30},
	{ID: FrequencySemiannual, Label: "Semiannual", Days: 180},
	{ID: FrequencyYearly, Label: "Yearly", Days: 365},
}

// LookupFrequency returns the table row for f, or the monthly row when f has none.
func LookupFrequency(f Frequency) FrequencyInfo {
	for _, info := range Frequencies {
		if info.ID == f {
			return info
		}
	}
	return Frequencies[2]
}

// Valid reports whether f is a frequency the ledger can expand.
func (f Frequency) Valid() bool {
	if f == FrequencyCustom {
		return true
	}
	for _, info := range Frequencies {
		if info.ID == f {
			return true
		}
	}
	return false
}
