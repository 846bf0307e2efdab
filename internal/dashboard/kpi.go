package dashboard

import (
	"math"

	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/haldies/olist-dashboard/internal/dataset"
)

// KPIs are the six headline scalars of the dashboard. All of them degrade to
// zero on an empty view; RatedLines tells an average of zero apart from an
// undefined one.
type KPIs struct {
	TotalOrders   int     `json:"total_orders"`
	TotalItems    int     `json:"total_items"`
	TotalProducts int     `json:"total_products"`
	TotalSales    float64 `json:"total_sales"`
	TotalFreight  float64 `json:"total_freight"`
	AvgRating     float64 `json:"avg_rating"`
	RatedLines    int     `json:"rated_lines"`
}

func validValues(vals []float64) []float64 {
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

func distinctCount(records []string) int {
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		seen[r] = struct{}{}
	}
	return len(seen)
}

// ComputeKPIs summarizes the filtered view.
func ComputeKPIs(df dataframe.DataFrame) KPIs {
	if df.Nrow() == 0 {
		return KPIs{}
	}

	kpis := KPIs{
		TotalOrders:   distinctCount(df.Col(dataset.ColOrderID).Records()),
		TotalProducts: distinctCount(df.Col(dataset.ColProductID).Records()),
		TotalSales:    floats.Sum(validValues(df.Col(dataset.ColPrice).Float())),
		TotalFreight:  floats.Sum(validValues(df.Col(dataset.ColFreightValue).Float())),
	}

	kpis.TotalItems = int(floats.Sum(validValues(df.Col(dataset.ColOrderItemID).Float())))

	ratings := validValues(df.Col(dataset.ColReviewScore).Float())
	kpis.RatedLines = len(ratings)
	if len(ratings) > 0 {
		kpis.AvgRating = stat.Mean(ratings, nil)
	}

	return kpis
}
