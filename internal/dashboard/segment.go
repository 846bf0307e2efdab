package dashboard

import (
	"encoding/json"
	"sort"
)

// Segment is one of the five ordered customer-value buckets. The numeric
// order is the canonical chart order (lost → top), independent of any display
// library's categorical sorting.
type Segment int

const (
	SegmentLost Segment = iota
	SegmentLow
	SegmentMedium
	SegmentHigh
	SegmentTop
)

var segmentNames = map[Segment]string{
	SegmentLost:   "lost customers",
	SegmentLow:    "Low value customers",
	SegmentMedium: "Medium value customer",
	SegmentHigh:   "High value customer",
	SegmentTop:    "Top customers",
}

func (s Segment) String() string {
	if name, ok := segmentNames[s]; ok {
		return name
	}
	return "unknown"
}

func (s Segment) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// SegmentOrder is the canonical ordering of the five segments.
func SegmentOrder() []Segment {
	return []Segment{SegmentLost, SegmentLow, SegmentMedium, SegmentHigh, SegmentTop}
}

// SegmentForScore buckets a composite RFM score. Thresholds are exclusive
// lower bounds, so a boundary value falls into the lower bucket.
func SegmentForScore(score float64) Segment {
	switch {
	case score > 4.5:
		return SegmentTop
	case score > 4.0:
		return SegmentHigh
	case score > 3.0:
		return SegmentMedium
	case score > 1.6:
		return SegmentLow
	default:
		return SegmentLost
	}
}

type SegmentCount struct {
	Segment   Segment `json:"customer_segment"`
	Customers int     `json:"customers"`
}

// SegmentCounts tallies distinct customers per segment in canonical order.
// Every segment appears, zero-valued when empty.
func SegmentCounts(records []RFMRecord) []SegmentCount {
	tally := make(map[Segment]int)
	for _, r := range records {
		tally[r.Segment]++
	}

	counts := make([]SegmentCount, 0, len(segmentNames))
	for _, s := range SegmentOrder() {
		counts = append(counts, SegmentCount{Segment: s, Customers: tally[s]})
	}
	return counts
}

// SegmentCountsForDisplay re-sorts the canonical counts descending by
// customer count for the chart; ties keep canonical order.
func SegmentCountsForDisplay(counts []SegmentCount) []SegmentCount {
	display := make([]SegmentCount, len(counts))
	copy(display, counts)
	sort.SliceStable(display, func(i, j int) bool {
		return display[i].Customers > display[j].Customers
	})
	return display
}
