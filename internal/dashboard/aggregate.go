package dashboard

import (
	"math"
	"sort"
	"time"

	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/gonum/stat"

	"github.com/haldies/olist-dashboard/internal/dataset"
)

// MonthlyPoint is one bucket of the monthly time series. Month is the
// sortable year-month key, MonthStart the first-of-month timestamp shown on
// chart axes.
type MonthlyPoint struct {
	Month      string    `json:"month"`
	MonthStart time.Time `json:"month_start"`
	Orders     int       `json:"orders"`
	Revenue    float64   `json:"revenue"`
}

// MonthlySales groups the view by purchase month, chronologically ordered.
func MonthlySales(df dataframe.DataFrame) []MonthlyPoint {
	if df.Nrow() == 0 {
		return nil
	}

	months := df.Col(dataset.ColPurchaseMonth).Records()
	prices := df.Col(dataset.ColPrice).Float()

	type bucket struct {
		orders  int
		revenue float64
	}
	buckets := make(map[string]*bucket)
	for i, m := range months {
		b := buckets[m]
		if b == nil {
			b = &bucket{}
			buckets[m] = b
		}
		b.orders++
		if !math.IsNaN(prices[i]) {
			b.revenue += prices[i]
		}
	}

	points := make([]MonthlyPoint, 0, len(buckets))
	for m, b := range buckets {
		start, err := dataset.MonthStart(m)
		if err != nil {
			continue
		}
		points = append(points, MonthlyPoint{Month: m, MonthStart: start, Orders: b.orders, Revenue: b.revenue})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Month < points[j].Month })
	return points
}

type StateCount struct {
	State  string `json:"customer_state"`
	Orders int    `json:"orders"`
}

// TopStates counts order lines per customer state and keeps the limit
// largest. Ties are broken by ascending state code.
func TopStates(df dataframe.DataFrame, limit int) []StateCount {
	if df.Nrow() == 0 {
		return nil
	}

	counts := make(map[string]int)
	for _, s := range df.Col(dataset.ColCustomerState).Records() {
		counts[s]++
	}

	states := make([]StateCount, 0, len(counts))
	for s, n := range counts {
		states = append(states, StateCount{State: s, Orders: n})
	}
	sort.Slice(states, func(i, j int) bool {
		if states[i].Orders != states[j].Orders {
			return states[i].Orders > states[j].Orders
		}
		return states[i].State < states[j].State
	})

	if limit > 0 && limit < len(states) {
		states = states[:limit]
	}
	return states
}

type CategoryRating struct {
	Category  string  `json:"product_category_name"`
	AvgReview float64 `json:"avg_review"`
	Reviews   int     `json:"reviews"`
}

func categoryReviewMeans(df dataframe.DataFrame) []CategoryRating {
	cats := df.Col(dataset.ColCategory).Records()
	reviews := df.Col(dataset.ColReviewScore).Float()

	grouped := make(map[string][]float64)
	for i, c := range cats {
		if c == "" || math.IsNaN(reviews[i]) {
			continue
		}
		grouped[c] = append(grouped[c], reviews[i])
	}

	ratings := make([]CategoryRating, 0, len(grouped))
	for c, scores := range grouped {
		ratings = append(ratings, CategoryRating{Category: c, AvgReview: stat.Mean(scores, nil), Reviews: len(scores)})
	}
	return ratings
}

// CategoryRatings returns the limit best and worst rated categories by mean
// review score. Categories without a single review are excluded; ties are
// broken by ascending category name.
func CategoryRatings(df dataframe.DataFrame, limit int) (top, bottom []CategoryRating) {
	if df.Nrow() == 0 {
		return nil, nil
	}

	ratings := categoryReviewMeans(df)

	byBest := make([]CategoryRating, len(ratings))
	copy(byBest, ratings)
	sort.Slice(byBest, func(i, j int) bool {
		if byBest[i].AvgReview != byBest[j].AvgReview {
			return byBest[i].AvgReview > byBest[j].AvgReview
		}
		return byBest[i].Category < byBest[j].Category
	})

	byWorst := make([]CategoryRating, len(ratings))
	copy(byWorst, ratings)
	sort.Slice(byWorst, func(i, j int) bool {
		if byWorst[i].AvgReview != byWorst[j].AvgReview {
			return byWorst[i].AvgReview < byWorst[j].AvgReview
		}
		return byWorst[i].Category < byWorst[j].Category
	})

	if limit > 0 && limit < len(byBest) {
		byBest = byBest[:limit]
	}
	if limit > 0 && limit < len(byWorst) {
		byWorst = byWorst[:limit]
	}
	return byBest, byWorst
}

// CategorySales is the joint per-category aggregate: summed price, sold line
// count and mean review score.
type CategorySales struct {
	Category   string  `json:"product_category_name"`
	TotalSales float64 `json:"total_sales"`
	ItemsSold  int     `json:"items_sold"`
	AvgReview  float64 `json:"avg_review"`
	Reviews    int     `json:"reviews"`
}

// CategorySalesBreakdown carries the three category views fed to the sales
// and reviews charts: top sellers, top rated, and the ratings of the top
// sellers (in top-seller order).
type CategorySalesBreakdown struct {
	TopBySales      []CategorySales `json:"top_by_sales"`
	TopByRating     []CategorySales `json:"top_by_rating"`
	TopSalesRatings []CategorySales `json:"top_sales_ratings"`
}

// SalesByCategory aggregates sales, volume and ratings per category and
// selects the limit leaders by each metric. Ties are broken by ascending
// category name.
func SalesByCategory(df dataframe.DataFrame, limit int) CategorySalesBreakdown {
	if df.Nrow() == 0 {
		return CategorySalesBreakdown{}
	}

	cats := df.Col(dataset.ColCategory).Records()
	prices := df.Col(dataset.ColPrice).Float()
	reviews := df.Col(dataset.ColReviewScore).Float()

	type agg struct {
		sales  float64
		items  int
		scores []float64
	}
	grouped := make(map[string]*agg)
	for i, c := range cats {
		if c == "" {
			continue
		}
		a := grouped[c]
		if a == nil {
			a = &agg{}
			grouped[c] = a
		}
		a.items++
		if !math.IsNaN(prices[i]) {
			a.sales += prices[i]
		}
		if !math.IsNaN(reviews[i]) {
			a.scores = append(a.scores, reviews[i])
		}
	}

	all := make([]CategorySales, 0, len(grouped))
	for c, a := range grouped {
		cs := CategorySales{Category: c, TotalSales: a.sales, ItemsSold: a.items, Reviews: len(a.scores)}
		if len(a.scores) > 0 {
			cs.AvgReview = stat.Mean(a.scores, nil)
		}
		all = append(all, cs)
	}

	bySales := make([]CategorySales, len(all))
	copy(bySales, all)
	sort.Slice(bySales, func(i, j int) bool {
		if bySales[i].TotalSales != bySales[j].TotalSales {
			return bySales[i].TotalSales > bySales[j].TotalSales
		}
		return bySales[i].Category < bySales[j].Category
	})
	if limit > 0 && limit < len(bySales) {
		bySales = bySales[:limit]
	}

	byRating := make([]CategorySales, 0, len(all))
	for _, cs := range all {
		if cs.Reviews > 0 {
			byRating = append(byRating, cs)
		}
	}
	sort.Slice(byRating, func(i, j int) bool {
		if byRating[i].AvgReview != byRating[j].AvgReview {
			return byRating[i].AvgReview > byRating[j].AvgReview
		}
		return byRating[i].Category < byRating[j].Category
	})
	if limit > 0 && limit < len(byRating) {
		byRating = byRating[:limit]
	}

	topSalesRatings := make([]CategorySales, len(bySales))
	copy(topSalesRatings, bySales)

	return CategorySalesBreakdown{
		TopBySales:      bySales,
		TopByRating:     byRating,
		TopSalesRatings: topSalesRatings,
	}
}
