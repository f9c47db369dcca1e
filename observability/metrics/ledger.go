package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// LedgerMetrics tracks transaction outcomes and tip volume.
type LedgerMetrics struct {
	txApplied  *prometheus.CounterVec
	txRejected *prometheus.CounterVec
	tipVolume  *prometheus.CounterVec
}

var (
	ledgerOnce     sync.Once
	ledgerRegistry *LedgerMetrics
)

// Ledger returns the process-wide ledger metrics collectors.
func Ledger() *LedgerMetrics {
	ledgerOnce.Do(func() {
		ledgerRegistry = &LedgerMetrics{
			txApplied: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "space_tx_applied_total",
				Help: "Count of committed ledger transactions by operation.",
			}, []string{"op"}),
			txRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "space_tx_rejected_total",
				Help: "Count of rejected ledger transactions by operation.",
			}, []string{"op"}),
			tipVolume: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "space_tip_volume_total",
				Help: "Cumulative tipped value by tipping path.",
			}, []string{"path"}),
		}
		prometheus.MustRegister(
			ledgerRegistry.txApplied,
			ledgerRegistry.txRejected,
			ledgerRegistry.tipVolume,
		)
	})
	return ledgerRegistry
}

// ObserveApplied records a committed transaction.
func (m *LedgerMetrics) ObserveApplied(op string) {
	if m == nil {
		return
	}
	if op == "" {
		op = "unknown"
	}
	m.txApplied.WithLabelValues(op).Inc()
}

// ObserveRejected records a rejected transaction.
func (m *LedgerMetrics) ObserveRejected(op string) {
	if m == nil {
		return
	}
	if op == "" {
		op = "unknown"
	}
	m.txRejected.WithLabelValues(op).Inc()
}

// ObserveTip records settled tip volume for a path.
func (m *LedgerMetrics) ObserveTip(path string, amount float64) {
	if m == nil || amount <= 0 {
		return
	}
	if path == "" {
		path = "unknown"
	}
	m.tipVolume.WithLabelValues(path).Add(amount)
}
