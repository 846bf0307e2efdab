package dataset

import (
	"fmt"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

const (
	timestampLayout = "2006-01-02 15:04:05"
	dateLayout      = "2006-01-02"
	monthKeyLayout  = "2006-01"
)

// ParseTimestamp parses the purchase timestamp column. Some rows in the
// cleaned dataset carry a bare date instead of a full timestamp.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(timestampLayout, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse(dateLayout, s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unparseable purchase timestamp %q", s)
}

// MonthKey buckets a timestamp into its calendar year-month. Keys sort
// chronologically as plain strings.
func MonthKey(t time.Time) string {
	return t.Format(monthKeyLayout)
}

// MonthStart converts a year-month key back to the first day of that month,
// the timestamp used on time-series axes.
func MonthStart(key string) (time.Time, error) {
	return time.Parse(monthKeyLayout, key)
}

// WithCalendar appends the derived calendar columns (year, month, quarter,
// purchase_month) computed from the purchase timestamp. A row with an
// unparseable timestamp fails the whole derivation, which the loader treats
// as a source failure.
func WithCalendar(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	if !hasColumn(df, ColPurchaseTimestamp) {
		return dataframe.DataFrame{}, fmt.Errorf("missing column %q", ColPurchaseTimestamp)
	}

	records := df.Col(ColPurchaseTimestamp).Records()
	years := make([]int, len(records))
	months := make([]int, len(records))
	quarters := make([]int, len(records))
	monthKeys := make([]string, len(records))

	for i, rec := range records {
		t, err := ParseTimestamp(rec)
		if err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("row %d: %w", i, err)
		}
		years[i] = t.Year()
		months[i] = int(t.Month())
		quarters[i] = (int(t.Month())-1)/3 + 1
		monthKeys[i] = MonthKey(t)
	}

	df = df.Mutate(series.New(years, series.Int, ColYear))
	df = df.Mutate(series.New(months, series.Int, ColMonth))
	df = df.Mutate(series.New(quarters, series.Int, ColQuarter))
	df = df.Mutate(series.New(monthKeys, series.String, ColPurchaseMonth))
	if df.Error() != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to append calendar columns: %v", df.Error())
	}

	return df, nil
}
