package dashboard

import (
	"math"
	"reflect"
	"testing"
)

func TestFractionalRanks(t *testing.T) {
	vals := []float64{3, 1, 2, 3}

	asc := fractionalRanks(vals, false)
	if want := []float64{3.5, 1, 2, 3.5}; !reflect.DeepEqual(asc, want) {
		t.Errorf("ascending ranks = %v, want %v", asc, want)
	}

	desc := fractionalRanks(vals, true)
	if want := []float64{1.5, 4, 3, 1.5}; !reflect.DeepEqual(desc, want) {
		t.Errorf("descending ranks = %v, want %v", desc, want)
	}
}

func TestComputeRFM(t *testing.T) {
	df := testFrame(t, fixtureCSV)
	records, err := ComputeRFM(df, RecencyLastPurchase)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 customers, got %d", len(records))
	}

	byID := make(map[string]RFMRecord, len(records))
	for _, r := range records {
		byID[r.CustomerID] = r
	}

	c1 := byID["c1"]
	if c1.Recency != 0 || c1.Frequency != 1 || c1.Monetary != 110 {
		t.Errorf("c1 dimensions = %+v", c1)
	}
	// Best recency and monetary, tied-last frequency: 15 + 14 + 57 = 86 → 4.3.
	if c1.Score != 4.3 || c1.Segment != SegmentHigh {
		t.Errorf("c1 score/segment = %v / %v", c1.Score, c1.Segment)
	}

	c2 := byID["c2"]
	if c2.Recency != 124 || c2.Frequency != 2 || c2.Monetary != 99 {
		t.Errorf("c2 dimensions = %+v", c2)
	}
	if c2.Score != 3.8 || c2.Segment != SegmentMedium {
		t.Errorf("c2 score/segment = %v / %v", c2.Score, c2.Segment)
	}

	c3 := byID["c3"]
	if c3.Recency != 171 || c3.Frequency != 1 || c3.Monetary != 22 {
		t.Errorf("c3 dimensions = %+v", c3)
	}
	if c3.Score != 1.9 || c3.Segment != SegmentLow {
		t.Errorf("c3 score/segment = %v / %v", c3.Score, c3.Segment)
	}
}

const scenarioCSV = `order_id,order_item_id,product_id,product_category_name,customer_unique_id,customer_state,price,freight_value,payment_value,review_score,order_status,order_purchase_timestamp
a1,1,p1,cat,ca,SP,10,1,200,5,delivered,2018-05-21 00:00:00
a2,1,p1,cat,ca,SP,10,1,200,5,delivered,2018-05-21 00:00:00
a3,1,p1,cat,ca,SP,10,1,200,5,delivered,2018-05-21 00:00:00
a4,1,p1,cat,ca,SP,10,1,200,5,delivered,2018-05-21 00:00:00
a5,1,p1,cat,ca,SP,10,1,200,5,delivered,2018-05-21 00:00:00
b1,1,p1,cat,cb,SP,10,1,10,5,delivered,2018-05-11 00:00:00
c1,1,p1,cat,cc,SP,10,1,10,5,delivered,2018-05-01 00:00:00
`

func TestComputeRFMScenario(t *testing.T) {
	// Three customers with recencies [0,10,20] days, frequencies [5,1,1] and
	// monetary [1000,10,10]: the first maxes every dimension.
	df := testFrame(t, scenarioCSV)
	records, err := ComputeRFM(df, RecencyLastPurchase)
	if err != nil {
		t.Fatal(err)
	}

	byID := make(map[string]RFMRecord, len(records))
	for _, r := range records {
		byID[r.CustomerID] = r
	}

	ca := byID["ca"]
	if ca.Recency != 0 || ca.Frequency != 5 || ca.Monetary != 1000 {
		t.Fatalf("ca dimensions = %+v", ca)
	}
	if ca.RecencyScore != 100 || ca.FrequencyScore != 100 || ca.MonetaryScore != 100 {
		t.Errorf("ca norms = %v/%v/%v, want 100 each", ca.RecencyScore, ca.FrequencyScore, ca.MonetaryScore)
	}
	if ca.Score != 5.00 || ca.Segment != SegmentTop {
		t.Errorf("ca score/segment = %v / %v, want 5.00 / Top", ca.Score, ca.Segment)
	}

	// cb and cc tie on frequency and monetary, splitting ranks 1 and 2.
	cb, cc := byID["cb"], byID["cc"]
	if cb.FrequencyScore != 50 || cc.FrequencyScore != 50 {
		t.Errorf("tied frequency norms = %v / %v, want 50", cb.FrequencyScore, cc.FrequencyScore)
	}
	if cb.MonetaryScore != 50 || cc.MonetaryScore != 50 {
		t.Errorf("tied monetary norms = %v / %v, want 50", cb.MonetaryScore, cc.MonetaryScore)
	}

	// With three distinct recencies, the worst normalizes to 100/N.
	if math.Abs(cc.RecencyScore-33.33) > 1e-9 {
		t.Errorf("cc recency norm = %v, want 33.33", cc.RecencyScore)
	}
	// The exact rounded cent depends on float64 evaluation; the blended
	// scores sit at 2.625 and 2.375 before rounding.
	if math.Abs(cb.Score-2.625) > 0.006 || cb.Segment != SegmentLow {
		t.Errorf("cb score/segment = %v / %v", cb.Score, cb.Segment)
	}
	if math.Abs(cc.Score-2.375) > 0.006 || cc.Segment != SegmentLow {
		t.Errorf("cc score/segment = %v / %v", cc.Score, cc.Segment)
	}
}

const policyCSV = `order_id,order_item_id,product_id,product_category_name,customer_unique_id,customer_state,price,freight_value,payment_value,review_score,order_status,order_purchase_timestamp
oA,1,p1,cat,cx,SP,10,1,10,5,delivered,2018-05-10 00:00:00
oB,1,p1,cat,cx,SP,10,1,10,5,delivered,2018-01-01 00:00:00
oC,1,p1,cat,cy,SP,10,1,10,5,delivered,2018-05-10 00:00:00
`

func TestRecencyPolicies(t *testing.T) {
	// cx's most recent purchase appears before an older row, so the two
	// policies disagree about its recency.
	df := testFrame(t, policyCSV)

	lastPurchase, err := ComputeRFM(df, RecencyLastPurchase)
	if err != nil {
		t.Fatal(err)
	}
	rowOrder, err := ComputeRFM(df, RecencyRowOrder)
	if err != nil {
		t.Fatal(err)
	}

	find := func(records []RFMRecord, id string) RFMRecord {
		for _, r := range records {
			if r.CustomerID == id {
				return r
			}
		}
		t.Fatalf("customer %s missing", id)
		return RFMRecord{}
	}

	if got := find(lastPurchase, "cx").Recency; got != 0 {
		t.Errorf("last-purchase recency = %d, want 0", got)
	}
	if got := find(rowOrder, "cx").Recency; got != 129 {
		t.Errorf("row-order recency = %d, want 129", got)
	}
}

func TestParseRecencyPolicy(t *testing.T) {
	if p, err := ParseRecencyPolicy(""); err != nil || p != RecencyLastPurchase {
		t.Errorf("empty policy = %v, %v", p, err)
	}
	if p, err := ParseRecencyPolicy("row-order"); err != nil || p != RecencyRowOrder {
		t.Errorf("row-order policy = %v, %v", p, err)
	}
	if _, err := ParseRecencyPolicy("bogus"); err == nil {
		t.Error("expected error for unknown policy")
	}
}

const nullPaymentCSV = `order_id,order_item_id,product_id,product_category_name,customer_unique_id,customer_state,price,freight_value,payment_value,review_score,order_status,order_purchase_timestamp
o1,1,p1,cat,c1,SP,10,1,,5,delivered,2018-05-10 00:00:00
o2,1,p1,cat,c2,SP,10,1,20,5,delivered,2018-05-10 00:00:00
`

func TestComputeRFMExcludesCustomersWithoutPayments(t *testing.T) {
	df := testFrame(t, nullPaymentCSV)
	records, err := ComputeRFM(df, RecencyLastPurchase)
	if err != nil {
		t.Fatal(err)
	}

	if len(records) != 1 || records[0].CustomerID != "c2" {
		t.Errorf("expected only c2, got %+v", records)
	}
}

func TestComputeRFMEmptyView(t *testing.T) {
	df := testFrame(t, fixtureCSV)
	empty := Apply(df, Selection{Year: "1999", Category: All, State: All, Status: All})

	records, err := ComputeRFM(empty, RecencyLastPurchase)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}

	counts := SegmentCounts(records)
	if len(counts) != 5 {
		t.Fatalf("expected all 5 segments, got %d", len(counts))
	}
	for _, c := range counts {
		if c.Customers != 0 {
			t.Errorf("segment %v count = %d, want 0", c.Segment, c.Customers)
		}
	}
}

func TestComputeRFMIsIdempotent(t *testing.T) {
	df := testFrame(t, fixtureCSV)

	first, err := ComputeRFM(df, RecencyLastPurchase)
	if err != nil {
		t.Fatal(err)
	}
	second, err := ComputeRFM(df, RecencyLastPurchase)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("recomputation over an unchanged view must be identical")
	}
}
