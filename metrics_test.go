package navguard

import (
	"testing"
	"time"
)

func TestMetricsDisabledIsNoOp(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: false})
	m.Inc(MetricNavigationAllowed)
	m.Observe(HistogramEvaluateLatency, time.Millisecond)

	if got := m.Value(MetricNavigationAllowed); got != 0 {
		t.Fatalf("disabled collector must stay zero, got %d", got)
	}
}

func TestMetricsCountAndSnapshot(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true, EnableLatencyHistograms: true})

	m.Inc(MetricRedirectLogin)
	m.Inc(MetricRedirectLogin)
	m.Inc(MetricNavigationAllowed)
	m.Observe(HistogramEvaluateLatency, 3*time.Millisecond)
	m.Observe(HistogramEvaluateLatency, 40*time.Millisecond)
	m.Observe(HistogramEvaluateLatency, time.Second)

	snap := m.Snapshot()
	if snap.Counters[MetricRedirectLogin] != 2 {
		t.Fatalf("expected 2 login redirects, got %d", snap.Counters[MetricRedirectLogin])
	}
	if snap.Counters[MetricNavigationAllowed] != 1 {
		t.Fatalf("expected 1 allow, got %d", snap.Counters[MetricNavigationAllowed])
	}

	buckets := snap.Histograms[HistogramEvaluateLatency]
	if buckets[0] != 1 || buckets[3] != 1 || buckets[7] != 1 {
		t.Fatalf("unexpected bucket distribution: %v", buckets)
	}
}

func TestBucketIndexBoundaries(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want int
	}{
		{time.Millisecond, 0},
		{5 * time.Millisecond, 0},
		{6 * time.Millisecond, 1},
		{25 * time.Millisecond, 2},
		{500 * time.Millisecond, 6},
		{time.Second, 7},
	}
	for _, tc := range cases {
		if got := bucketIndex(tc.d); got != tc.want {
			t.Fatalf("bucketIndex(%v) = %d, want %d", tc.d, got, tc.want)
		}
	}
}

func TestNilMetricsSafe(t *testing.T) {
	var m *Metrics
	m.Inc(MetricNavigationAllowed)
	m.Observe(HistogramEvaluateLatency, time.Millisecond)
	if m.Value(MetricNavigationAllowed) != 0 {
		t.Fatal("nil collector must read zero")
	}
	_ = m.Snapshot()
}
