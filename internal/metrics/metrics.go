// Package metrics exposes prometheus collectors for kvscope operations.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "kvscope"

// Operation results used as the "result" label.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Transfer directions used as the "direction" label.
const (
	DirectionExport = "export"
	DirectionImport = "import"
)

// Collector groups the kvscope metrics. The zero value is not usable; build
// one with New.
type Collector struct {
	operations      *prometheus.CounterVec
	openConnections prometheus.Gauge
	transferEntries *prometheus.CounterVec
}

// New creates the collectors and registers them on reg. A nil reg leaves
// them unregistered, which is enough for callers that never scrape.
func New(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Operations handled, by operation and result.",
		}, []string{"op", "result"}),
		openConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "open_connections",
			Help:      "Connections currently registered.",
		}),
		transferEntries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transfer_entries_total",
			Help:      "Entries exported or imported, by direction and format.",
		}, []string{"direction", "format"}),
	}
	if reg == nil {
		return c, nil
	}
	for _, col := range []prometheus.Collector{c.operations, c.openConnections, c.transferEntries} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Observe counts one call of op, as failed when err is not nil.
func (c *Collector) Observe(op string, err error) {
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	c.operations.WithLabelValues(op, result).Inc()
}

// SetOpenConnections records the number of registered connections.
func (c *Collector) SetOpenConnections(n int) {
	c.openConnections.Set(float64(n))
}

// AddTransferred counts n entries moved in direction using format.
func (c *Collector) AddTransferred(direction, format string, n int) {
	if n <= 0 {
		return
	}
	c.transferEntries.WithLabelValues(direction, format).Add(float64(n))
}
