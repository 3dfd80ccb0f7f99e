package goGate

import (
	"sync/atomic"
	"time"
)

// MetricID identifies a specific counter or histogram bucket in the
// in-process metrics system.
type MetricID uint16

const (
	// MetricVaultLoadAdopted is an exported constant or variable used by the gating engine.
	MetricVaultLoadAdopted MetricID = iota
	// MetricVaultLoadEmpty is an exported constant or variable used by the gating engine.
	MetricVaultLoadEmpty
	// MetricVaultLoadFailure is an exported constant or variable used by the gating engine.
	MetricVaultLoadFailure
	// MetricVaultStoreFailure is an exported constant or variable used by the gating engine.
	MetricVaultStoreFailure
	// MetricVaultClearFailure is an exported constant or variable used by the gating engine.
	MetricVaultClearFailure
	// MetricAuthSet is an exported constant or variable used by the gating engine.
	MetricAuthSet
	// MetricAuthSetFailure is an exported constant or variable used by the gating engine.
	MetricAuthSetFailure
	// MetricAuthRejected is an exported constant or variable used by the gating engine.
	MetricAuthRejected
	// MetricLogout is an exported constant or variable used by the gating engine.
	MetricLogout
	// MetricProfileFetchSuccess is an exported constant or variable used by the gating engine.
	MetricProfileFetchSuccess
	// MetricProfileFetchFailure is an exported constant or variable used by the gating engine.
	MetricProfileFetchFailure
	// MetricProfileFetchCoalesced is an exported constant or variable used by the gating engine.
	MetricProfileFetchCoalesced
	// MetricProfileFetchDiscarded is an exported constant or variable used by the gating engine.
	MetricProfileFetchDiscarded
	// MetricProfileInvalidated is an exported constant or variable used by the gating engine.
	MetricProfileInvalidated
	// MetricReconnect is an exported constant or variable used by the gating engine.
	MetricReconnect
	// MetricDecisionChanged is an exported constant or variable used by the gating engine.
	MetricDecisionChanged
	// MetricTokenExpiredHint is an exported constant or variable used by the gating engine.
	MetricTokenExpiredHint
	// MetricProfileFetchLatency is an exported constant or variable used by the gating engine.
	MetricProfileFetchLatency
	metricIDCount
)

const (
	histBucketCount = 8
	cacheLineSize   = 64
)

type metricHistogram struct {
	buckets [histBucketCount]uint64
}

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics holds atomic counters and an optional fetch-latency histogram.
//
// Metrics instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Metrics struct {
	enabled       bool
	enableLatency bool
	counters      [metricIDCount]paddedCounter
	histograms    [metricIDCount]metricHistogram
}

// MetricsSnapshot is a point-in-time deep copy of all metrics.
type MetricsSnapshot struct {
	Counters   map[MetricID]uint64
	Histograms map[MetricID][]uint64
}

// NewMetrics creates a new [Metrics] instance configured by the given
// [MetricsConfig]. When Enabled is false, all operations are no-ops.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{
		enabled:       cfg.Enabled,
		enableLatency: cfg.Enabled && cfg.EnableLatencyHistograms,
	}
}

// Enabled reports whether metrics collection is active.
func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

// LatencyEnabled reports whether the fetch-latency histogram is active.
func (m *Metrics) LatencyEnabled() bool {
	return m != nil && m.enableLatency
}

// Inc increments the counter for id.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Observe records a latency observation for id.
func (m *Metrics) Observe(id MetricID, d time.Duration) {
	if m == nil || !m.enabled || !m.enableLatency || id >= metricIDCount {
		return
	}
	if id != MetricProfileFetchLatency {
		return
	}

	b := bucketIndex(d)
	atomic.AddUint64(&m.histograms[id].buckets[b], 1)
}

// Value reads the counter for id.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// Snapshot returns a deep copy of all counters and histograms.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil || !m.enabled {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}

	s := MetricsSnapshot{
		Counters:   make(map[MetricID]uint64, int(metricIDCount)),
		Histograms: make(map[MetricID][]uint64, 1),
	}

	for id := MetricID(0); id < metricIDCount; id++ {
		s.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}

	if m.enableLatency {
		buckets := make([]uint64, histBucketCount)
		for i := 0; i < histBucketCount; i++ {
			buckets[i] = atomic.LoadUint64(&m.histograms[MetricProfileFetchLatency].buckets[i])
		}
		s.Histograms[MetricProfileFetchLatency] = buckets
	}

	return s
}

// bucketIndex maps a duration onto exponential buckets:
// <1ms, <4ms, <16ms, <64ms, <256ms, <1s, <4s, rest.
func bucketIndex(d time.Duration) int {
	bound := time.Millisecond
	for i := 0; i < histBucketCount-1; i++ {
		if d < bound {
			return i
		}
		bound *= 4
	}
	return histBucketCount - 1
}
