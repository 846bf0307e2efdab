package dashboard

import (
	"sort"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/haldies/olist-dashboard/internal/dataset"
)

// All is the sentinel selector value that imposes no constraint.
const All = "All"

// Selection is the four-way filter tuple driving every dashboard view.
type Selection struct {
	Year     string `json:"year"`
	Category string `json:"category"`
	State    string `json:"state"`
	Status   string `json:"status"`
}

func DefaultSelection() Selection {
	return Selection{Year: All, Category: All, State: All, Status: All}
}

// Options are the selector value domains observed in the full table, sorted
// ascending with All prepended.
type Options struct {
	Years      []string `json:"years"`
	Categories []string `json:"categories"`
	States     []string `json:"states"`
	Statuses   []string `json:"statuses"`
}

func distinctSorted(df dataframe.DataFrame, col string, dropEmpty bool) []string {
	seen := make(map[string]struct{})
	for _, rec := range df.Col(col).Records() {
		if dropEmpty && rec == "" {
			continue
		}
		seen[rec] = struct{}{}
	}

	values := make([]string, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

// SelectorOptions derives the four selector domains from the unfiltered
// table. A value is only offered if at least one row exhibits it; null
// categories are never offered.
func SelectorOptions(df dataframe.DataFrame) Options {
	if df.Nrow() == 0 {
		return Options{
			Years:      []string{All},
			Categories: []string{All},
			States:     []string{All},
			Statuses:   []string{All},
		}
	}

	years := distinctSorted(df, dataset.ColYear, false)
	sort.Slice(years, func(i, j int) bool {
		a, _ := strconv.Atoi(years[i])
		b, _ := strconv.Atoi(years[j])
		return a < b
	})

	return Options{
		Years:      append([]string{All}, years...),
		Categories: append([]string{All}, distinctSorted(df, dataset.ColCategory, true)...),
		States:     append([]string{All}, distinctSorted(df, dataset.ColCustomerState, false)...),
		Statuses:   append([]string{All}, distinctSorted(df, dataset.ColOrderStatus, false)...),
	}
}

// Apply returns the subset of rows matching every specified selector. It is
// a pure, order-preserving conjunction; an All selector is skipped entirely,
// so the default selection returns the table unchanged.
func Apply(df dataframe.DataFrame, sel Selection) dataframe.DataFrame {
	out := df
	if out.Nrow() == 0 {
		return out
	}

	if sel.Year != All && sel.Year != "" {
		year, err := strconv.Atoi(sel.Year)
		if err != nil {
			// A year that was never offered matches nothing.
			year = -1
		}
		out = out.Filter(dataframe.F{Colname: dataset.ColYear, Comparator: series.Eq, Comparando: year})
		if out.Nrow() == 0 {
			return out
		}
	}
	if sel.Category != All && sel.Category != "" {
		out = out.Filter(dataframe.F{Colname: dataset.ColCategory, Comparator: series.Eq, Comparando: sel.Category})
		if out.Nrow() == 0 {
			return out
		}
	}
	if sel.State != All && sel.State != "" {
		out = out.Filter(dataframe.F{Colname: dataset.ColCustomerState, Comparator: series.Eq, Comparando: sel.State})
		if out.Nrow() == 0 {
			return out
		}
	}
	if sel.Status != All && sel.Status != "" {
		out = out.Filter(dataframe.F{Colname: dataset.ColOrderStatus, Comparator: series.Eq, Comparando: sel.Status})
	}

	return out
}
