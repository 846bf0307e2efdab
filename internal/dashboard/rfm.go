package dashboard

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/gonum/floats"

	"github.com/haldies/olist-dashboard/internal/dataset"
)

// Weights of the composite RFM score and its scale factor. The blended
// 0-100 score is scaled down to a nominal 0-5 range.
const (
	recencyWeight   = 0.15
	frequencyWeight = 0.28
	monetaryWeight  = 0.57
	scoreScale      = 0.05
)

// RecencyPolicy selects which of a customer's row-level recency values is
// kept when collapsing to one value per customer.
type RecencyPolicy int

const (
	// RecencyLastPurchase keeps the minimum recency per customer, i.e. the
	// days since their true last purchase in the view. Default.
	RecencyLastPurchase RecencyPolicy = iota
	// RecencyRowOrder keeps the value of the customer's last row in table
	// order, reproducing the historical merge-against-a-row-column behavior.
	RecencyRowOrder
)

// ParseRecencyPolicy maps the wire name of a policy; empty means the default.
func ParseRecencyPolicy(name string) (RecencyPolicy, error) {
	switch name {
	case "", "last-purchase":
		return RecencyLastPurchase, nil
	case "row-order":
		return RecencyRowOrder, nil
	default:
		return RecencyLastPurchase, fmt.Errorf("unknown recency policy %q", name)
	}
}

// RFMRecord is the per-customer segmentation row: the three raw dimensions,
// their rank-normalized 0-100 scores, the blended composite and the segment.
type RFMRecord struct {
	CustomerID     string  `json:"customer_unique_id"`
	Recency        int     `json:"recency"`
	Frequency      int     `json:"frequency"`
	Monetary       float64 `json:"monetary"`
	RecencyScore   float64 `json:"r_rank_norm"`
	FrequencyScore float64 `json:"f_rank_norm"`
	MonetaryScore  float64 `json:"m_rank_norm"`
	Score          float64 `json:"rfm_score"`
	Segment        Segment `json:"customer_segment"`
}

type customerAgg struct {
	recency    int
	recencySet bool
	orders     map[string]struct{}
	monetary   float64
	hasPayment bool
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// fractionalRanks assigns 1-based average ranks: equal values share the mean
// of the positions they occupy. With descending=true the largest value ranks
// first.
func fractionalRanks(vals []float64, descending bool) []float64 {
	n := len(vals)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		if descending {
			return vals[idx[a]] > vals[idx[b]]
		}
		return vals[idx[a]] < vals[idx[b]]
	})

	ranks := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j+1 < n && vals[idx[j+1]] == vals[idx[i]] {
			j++
		}
		avg := float64(i+j+2) / 2
		for k := i; k <= j; k++ {
			ranks[idx[k]] = avg
		}
		i = j + 1
	}
	return ranks
}

func normalize(ranks []float64) []float64 {
	if len(ranks) == 0 {
		return nil
	}
	max := floats.Max(ranks)
	norm := make([]float64, len(ranks))
	for i, r := range ranks {
		norm[i] = r / max * 100
	}
	return norm
}

// ComputeRFM maps the filtered view to one record per distinct customer.
//
// Recency is measured in whole days against the latest purchase in the whole
// view. Frequency counts distinct orders, monetary sums payment values;
// customers without a single non-null payment are excluded. Each dimension
// is average-ranked (recency descending, the others ascending), normalized
// to 0-100 against the maximum rank, blended with the fixed weights and
// scaled to 0-5. Records come back sorted by customer id.
func ComputeRFM(df dataframe.DataFrame, policy RecencyPolicy) ([]RFMRecord, error) {
	if df.Nrow() == 0 {
		return nil, nil
	}

	timestamps := df.Col(dataset.ColPurchaseTimestamp).Records()
	customers := df.Col(dataset.ColCustomerID).Records()
	orders := df.Col(dataset.ColOrderID).Records()
	payments := df.Col(dataset.ColPaymentValue).Float()

	parsed := make([]time.Time, len(timestamps))
	var latest time.Time
	for i, rec := range timestamps {
		t, err := dataset.ParseTimestamp(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		parsed[i] = t
		if t.After(latest) {
			latest = t
		}
	}

	aggs := make(map[string]*customerAgg)
	for i, cust := range customers {
		a := aggs[cust]
		if a == nil {
			a = &customerAgg{orders: make(map[string]struct{})}
			aggs[cust] = a
		}

		recency := int(latest.Sub(parsed[i]) / (24 * time.Hour))
		switch policy {
		case RecencyRowOrder:
			a.recency = recency
			a.recencySet = true
		default:
			if !a.recencySet || recency < a.recency {
				a.recency = recency
				a.recencySet = true
			}
		}

		a.orders[orders[i]] = struct{}{}
		if !math.IsNaN(payments[i]) {
			a.monetary += payments[i]
			a.hasPayment = true
		}
	}

	ids := make([]string, 0, len(aggs))
	for id, a := range aggs {
		if a.hasPayment {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	if len(ids) == 0 {
		return nil, nil
	}

	recencies := make([]float64, len(ids))
	frequencies := make([]float64, len(ids))
	monetaries := make([]float64, len(ids))
	for i, id := range ids {
		a := aggs[id]
		recencies[i] = float64(a.recency)
		frequencies[i] = float64(len(a.orders))
		monetaries[i] = a.monetary
	}

	recencyNorm := normalize(fractionalRanks(recencies, true))
	frequencyNorm := normalize(fractionalRanks(frequencies, false))
	monetaryNorm := normalize(fractionalRanks(monetaries, false))

	records := make([]RFMRecord, len(ids))
	for i, id := range ids {
		a := aggs[id]
		score := round2((recencyWeight*recencyNorm[i] + frequencyWeight*frequencyNorm[i] + monetaryWeight*monetaryNorm[i]) * scoreScale)
		records[i] = RFMRecord{
			CustomerID:     id,
			Recency:        a.recency,
			Frequency:      len(a.orders),
			Monetary:       round2(a.monetary),
			RecencyScore:   round2(recencyNorm[i]),
			FrequencyScore: round2(frequencyNorm[i]),
			MonetaryScore:  round2(monetaryNorm[i]),
			Score:          score,
			Segment:        SegmentForScore(score),
		}
	}
	return records, nil
}
