package node

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "gcl"

// Metrics are the prometheus collectors updated by a Node.
type Metrics struct {
	Submissions  *prometheus.CounterVec
	Transactions prometheus.Counter
	Height       prometheus.Gauge
	Signatures   prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with registerer, if
// there is one.
func NewMetrics(registerer prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "submissions_total",
			Help:      "Block submissions by outcome.",
		}, []string{"outcome"}),
		Transactions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "transactions_committed_total",
			Help:      "Transactions in finalized blocks.",
		}),
		Height: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "ledger_height",
			Help:      "Height of the last finalized block.",
		}),
		Signatures: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "block_signatures",
			Help:      "Signatures collected per proposed block.",
			Buckets:   prometheus.LinearBuckets(0, 1, 10),
		}),
	}

	if registerer == nil {
		return m, nil
	}

	for _, c := range []prometheus.Collector{m.Submissions, m.Transactions, m.Height, m.Signatures} {
		if err := registerer.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}
