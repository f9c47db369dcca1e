package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// RPCMetrics tracks request handling on the JSON-RPC surface.
type RPCMetrics struct {
	requests *prometheus.CounterVec
}

var (
	rpcOnce     sync.Once
	rpcRegistry *RPCMetrics
)

// RPC returns the process-wide RPC metrics collectors.
func RPC() *RPCMetrics {
	rpcOnce.Do(func() {
		rpcRegistry = &RPCMetrics{
			requests: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "space_rpc_requests_total",
				Help: "Count of JSON-RPC requests by method and outcome.",
			}, []string{"method", "outcome"}),
		}
		prometheus.MustRegister(rpcRegistry.requests)
	})
	return rpcRegistry
}

// ObserveRequest records one handled request.
func (m *RPCMetrics) ObserveRequest(method, outcome string) {
	if m == nil {
		return
	}
	if method == "" {
		method = "unknown"
	}
	if outcome == "" {
		outcome = "unknown"
	}
	m.requests.WithLabelValues(method, outcome).Inc()
}
