package navguard

import (
	"sync/atomic"
	"time"
)

// MetricID identifies one counter. IDs are dense array indexes, not hashes;
// adding a metric means adding an ID here and a definition in
// metrics/export/internaldefs.
type MetricID uint16

const (
	MetricNavigationAllowed MetricID = iota
	MetricNavigationDeferred
	MetricRedirectLogin
	MetricRedirectDisabled
	MetricRedirectVerification
	MetricRedirectRoleHome
	MetricRouteNotFound
	MetricUnknownRole
	MetricSessionStarted
	MetricSessionEnded
	MetricLogoutAll
	MetricSessionLookupFailure
	MetricProfileLoadFailure

	metricIDCount
)

// HistogramID identifies one latency histogram.
type HistogramID uint16

const (
	HistogramEvaluateLatency HistogramID = iota

	histogramIDCount
)

const histogramBucketCount = 8

const cacheLineSize = 64

// paddedCounter occupies a full cache line so adjacent counters do not
// false-share under concurrent evaluation.
type paddedCounter struct {
	value atomic.Uint64
	_     [cacheLineSize - 8]byte
}

// Metrics is the in-process metric collector: fixed arrays of padded atomic
// counters plus fixed-bucket latency histograms. Disabled collectors are
// no-ops with a single branch on the hot path.
type Metrics struct {
	enabled       bool
	enableLatency bool
	counters      [metricIDCount]paddedCounter
	histograms    [histogramIDCount][histogramBucketCount]paddedCounter
}

// NewMetrics creates a collector per cfg.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{
		enabled:       cfg.Enabled,
		enableLatency: cfg.Enabled && cfg.EnableLatencyHistograms,
	}
}

// Inc increments a counter.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	m.counters[id].value.Add(1)
}

// Observe records a latency sample into a histogram.
func (m *Metrics) Observe(id HistogramID, d time.Duration) {
	if m == nil || !m.enableLatency || id >= histogramIDCount {
		return
	}
	m.histograms[id][bucketIndex(d)].value.Add(1)
}

// Value returns the current value of a counter.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return m.counters[id].value.Load()
}

// MetricsSnapshot is a point-in-time copy of all counters and histogram
// buckets, indexed by MetricID and HistogramID.
type MetricsSnapshot struct {
	Counters   [metricIDCount]uint64
	Histograms [histogramIDCount][histogramBucketCount]uint64
}

// Snapshot copies every counter. Values are read individually; the snapshot
// is consistent per counter, not across counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	var snap MetricsSnapshot
	if m == nil {
		return snap
	}
	for id := MetricID(0); id < metricIDCount; id++ {
		snap.Counters[id] = m.counters[id].value.Load()
	}
	for hid := HistogramID(0); hid < histogramIDCount; hid++ {
		for b := 0; b < histogramBucketCount; b++ {
			snap.Histograms[hid][b] = m.histograms[hid][b].value.Load()
		}
	}
	return snap
}

// Buckets: <=5ms, <=10ms, <=25ms, <=50ms, <=100ms, <=250ms, <=500ms, +Inf.
func bucketIndex(d time.Duration) int {
	switch {
	case d <= 5*time.Millisecond:
		return 0
	case d <= 10*time.Millisecond:
		return 1
	case d <= 25*time.Millisecond:
		return 2
	case d <= 50*time.Millisecond:
		return 3
	case d <= 100*time.Millisecond:
		return 4
	case d <= 250*time.Millisecond:
		return 5
	case d <= 500*time.Millisecond:
		return 6
	default:
		return 7
	}
}
