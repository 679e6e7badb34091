package metrics

import (
	"math"
	"testing"
)

func TestHistogramObserve(t *testing.T) {
	h := NewHistogram([]float64{1, 5, 10})

	h.Observe(0.5)
	h.Observe(3)
	h.Observe(7)
	h.Observe(100)

	if h.Count() != 4 {
		t.Errorf("Count = %d, want 4", h.Count())
	}
	if got := h.Mean(); got != 27.625 {
		t.Errorf("Mean = %g, want 27.625", got)
	}
}

func TestHistogramCumulativeBuckets(t *testing.T) {
	h := NewHistogram([]float64{1, 5, 10})
	for _, v := range []float64{0.5, 0.7, 3, 7, 100} {
		h.Observe(v)
	}

	s := h.Summary()
	if len(s.Buckets) != 4 {
		t.Fatalf("bucket count = %d, want 4 (incl. +Inf)", len(s.Buckets))
	}

	wantCounts := []uint64{2, 3, 4, 5}
	for i, want := range wantCounts {
		if s.Buckets[i].Count != want {
			t.Errorf("bucket %d cumulative = %d, want %d", i, s.Buckets[i].Count, want)
		}
	}
	if !math.IsInf(s.Buckets[3].UpperBound, 1) {
		t.Error("last bucket bound is not +Inf")
	}
}

func TestHistogramSummaryStats(t *testing.T) {
	h := NewHistogram(HandshakeLatencyBuckets)
	for _, v := range []float64{2, 4, 6, 8} {
		h.Observe(v)
	}

	s := h.Summary()
	if s.Min != 2 || s.Max != 8 {
		t.Errorf("min/max = %g/%g, want 2/8", s.Min, s.Max)
	}
	if s.Sum != 20 {
		t.Errorf("sum = %g, want 20", s.Sum)
	}
	if s.Mean != 5 {
		t.Errorf("mean = %g, want 5", s.Mean)
	}
	if _, ok := s.Percentiles[0.5]; !ok {
		t.Error("summary missing p50 estimate")
	}
}

func TestHistogramEmptySummary(t *testing.T) {
	s := NewHistogram(HandshakeLatencyBuckets).Summary()
	if s.Count != 0 || s.Sum != 0 {
		t.Errorf("empty summary has count=%d sum=%g", s.Count, s.Sum)
	}
	if s.Buckets == nil || s.Percentiles == nil {
		t.Error("empty summary has nil maps")
	}
}

func TestHistogramReset(t *testing.T) {
	h := NewHistogram([]float64{1, 2})
	h.Observe(1.5)
	h.Reset()

	if h.Count() != 0 {
		t.Errorf("Count after reset = %d, want 0", h.Count())
	}
	h.Observe(0.5)
	if s := h.Summary(); s.Min != 0.5 || s.Max != 0.5 {
		t.Errorf("min/max after reset = %g/%g, want 0.5/0.5", s.Min, s.Max)
	}
}

func TestHistogramUnsortedBounds(t *testing.T) {
	h := NewHistogram([]float64{10, 1, 5})
	h.Observe(3)

	s := h.Summary()
	if s.Buckets[0].UpperBound != 1 {
		t.Errorf("first bound = %g, want 1 (bounds must be sorted)", s.Buckets[0].UpperBound)
	}
	if s.Buckets[1].Count != 1 {
		t.Errorf("value 3 not counted in le=5 bucket")
	}
}
