package dashboard

import (
	"reflect"
	"testing"
)

func TestSegmentForScore(t *testing.T) {
	tests := []struct {
		score float64
		want  Segment
	}{
		{5.00, SegmentTop},
		{4.51, SegmentTop},
		{4.5, SegmentHigh}, // boundary values fall into the lower bucket
		{4.2, SegmentHigh},
		{4.0, SegmentMedium},
		{3.5, SegmentMedium},
		{3.0, SegmentLow},
		{2.0, SegmentLow},
		{1.6, SegmentLost},
		{0.5, SegmentLost},
		{0, SegmentLost},
	}

	for _, tt := range tests {
		if got := SegmentForScore(tt.score); got != tt.want {
			t.Errorf("SegmentForScore(%v) = %v, want %v", tt.score, got, tt.want)
		}
	}
}

func TestSegmentNames(t *testing.T) {
	want := map[Segment]string{
		SegmentLost:   "lost customers",
		SegmentLow:    "Low value customers",
		SegmentMedium: "Medium value customer",
		SegmentHigh:   "High value customer",
		SegmentTop:    "Top customers",
	}
	for seg, name := range want {
		if seg.String() != name {
			t.Errorf("%d.String() = %q, want %q", seg, seg.String(), name)
		}
	}
}

func TestSegmentCountsCanonicalOrder(t *testing.T) {
	records := []RFMRecord{
		{CustomerID: "a", Segment: SegmentTop},
		{CustomerID: "b", Segment: SegmentLow},
		{CustomerID: "c", Segment: SegmentLow},
		{CustomerID: "d", Segment: SegmentHigh},
	}

	counts := SegmentCounts(records)
	want := []SegmentCount{
		{SegmentLost, 0},
		{SegmentLow, 2},
		{SegmentMedium, 0},
		{SegmentHigh, 1},
		{SegmentTop, 1},
	}
	if !reflect.DeepEqual(counts, want) {
		t.Errorf("SegmentCounts = %v, want %v", counts, want)
	}
}

func TestSegmentCountsForDisplay(t *testing.T) {
	counts := []SegmentCount{
		{SegmentLost, 0},
		{SegmentLow, 2},
		{SegmentMedium, 0},
		{SegmentHigh, 1},
		{SegmentTop, 1},
	}

	display := SegmentCountsForDisplay(counts)
	want := []SegmentCount{
		{SegmentLow, 2},
		{SegmentHigh, 1}, // ties keep canonical order
		{SegmentTop, 1},
		{SegmentLost, 0},
		{SegmentMedium, 0},
	}
	if !reflect.DeepEqual(display, want) {
		t.Errorf("SegmentCountsForDisplay = %v, want %v", display, want)
	}

	// The canonical slice is left untouched.
	if counts[0].Segment != SegmentLost {
		t.Error("display sorting must not mutate its input")
	}
}

func TestSegmentJSONName(t *testing.T) {
	data, err := SegmentTop.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `"Top customers"` {
		t.Errorf("MarshalJSON = %s", data)
	}
}
