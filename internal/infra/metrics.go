package infra

import (
	"sync/atomic"
	"time"
)

// Metrics provides lightweight observability without external dependencies.
// Uses atomic operations for thread-safety.
type Metrics struct {
	// Counters
	tradesExecuted atomic.Uint64
	tradesRejected atomic.Uint64
	storageErrors  atomic.Uint64
	quotesReceived atomic.Uint64

	// Trade latency tracking
	latencySumNs atomic.Int64
	latencyCount atomic.Uint64

	// Gauges
	activeConnections atomic.Int32
}

// GlobalMetrics is the singleton metrics instance.
var GlobalMetrics = &Metrics{}

// RecordTradeExecuted records a committed trade with its latency.
func (m *Metrics) RecordTradeExecuted(latencyNs int64) {
	m.tradesExecuted.Add(1)
	m.latencySumNs.Add(latencyNs)
	m.latencyCount.Add(1)
}

// RecordTradeRejected records a rejected trade (validation or business rule).
func (m *Metrics) RecordTradeRejected() {
	m.tradesRejected.Add(1)
}

// RecordStorageError records a transient persistence failure.
func (m *Metrics) RecordStorageError() {
	m.storageErrors.Add(1)
}

// RecordQuote records one applied quote update.
func (m *Metrics) RecordQuote() {
	m.quotesReceived.Add(1)
}

// IncrementConnections increments active feed connections by 1.
func (m *Metrics) IncrementConnections() {
	m.activeConnections.Add(1)
}

// DecrementConnections decrements active feed connections by 1.
func (m *Metrics) DecrementConnections() {
	m.activeConnections.Add(-1)
}

// MetricsSnapshot is a point-in-time view of all metrics.
type MetricsSnapshot struct {
	TradesExecuted    uint64    `json:"trades_executed"`
	TradesRejected    uint64    `json:"trades_rejected"`
	StorageErrors     uint64    `json:"storage_errors"`
	QuotesReceived    uint64    `json:"quotes_received"`
	AvgTradeLatencyNs int64     `json:"avg_trade_latency_ns"`
	ActiveConnections int32     `json:"active_connections"`
	Timestamp         time.Time `json:"timestamp"`
}

// Snapshot returns current metrics as a snapshot.
func (m *Metrics) Snapshot() MetricsSnapshot {
	var avgLatency int64
	count := m.latencyCount.Load()
	if count > 0 {
		avgLatency = m.latencySumNs.Load() / int64(count)
	}

	return MetricsSnapshot{
		TradesExecuted:    m.tradesExecuted.Load(),
		TradesRejected:    m.tradesRejected.Load(),
		StorageErrors:     m.storageErrors.Load(),
		QuotesReceived:    m.quotesReceived.Load(),
		AvgTradeLatencyNs: avgLatency,
		ActiveConnections: m.activeConnections.Load(),
		Timestamp:         time.Now(),
	}
}

// Reset clears all metrics (for testing).
func (m *Metrics) Reset() {
	m.tradesExecuted.Store(0)
	m.tradesRejected.Store(0)
	m.storageErrors.Store(0)
	m.quotesReceived.Store(0)
	m.latencySumNs.Store(0)
	m.latencyCount.Store(0)
	m.activeConnections.Store(0)
}
