// Package metrics provides the prometheus collectors for the ledger. A nil
// *Metrics is valid and records nothing.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "powledger"

// Metrics holds the set of collectors updated by the state, the worker and
// the web middleware.
type Metrics struct {
	blocksMined     prometheus.Counter
	hashAttempts    prometheus.Counter
	mempoolSize     prometheus.Gauge
	chainHeight     prometheus.Gauge
	difficulty      prometheus.Gauge
	rejectedTxs     *prometheus.CounterVec
	invalidScans    *prometheus.CounterVec
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// New constructs the collectors and registers them with the registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		blocksMined: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chain",
			Name:      "blocks_mined_total",
			Help:      "Number of blocks mined and appended to the chain.",
		}),
		hashAttempts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pow",
			Name:      "hash_attempts_total",
			Help:      "Number of nonces tried while mining.",
		}),
		mempoolSize: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "mempool",
			Name:      "size",
			Help:      "Number of transactions waiting to be mined.",
		}),
		chainHeight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "chain",
			Name:      "height",
			Help:      "Number of blocks in the chain including genesis.",
		}),
		difficulty: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pow",
			Name:      "difficulty",
			Help:      "Number of leading zero hex digits required for a block hash.",
		}),
		rejectedTxs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "mempool",
			Name:      "rejected_total",
			Help:      "Number of submitted transactions that were rejected.",
		}, []string{"reason"}),
		invalidScans: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chain",
			Name:      "invalid_scans_total",
			Help:      "Number of chain validations that found a violation.",
		}, []string{"check"}),
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Number of API requests.",
		}, []string{"method", "path", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "API request duration in seconds.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
		}, []string{"method", "path"}),
	}
}

// BlockMined records a block appended after the given number of attempts.
func (m *Metrics) BlockMined(attempts uint64) {
	if m == nil {
		return
	}

	m.blocksMined.Inc()
	m.hashAttempts.Add(float64(attempts))
}

// SetMempoolSize records the number of pending transactions.
func (m *Metrics) SetMempoolSize(size int) {
	if m == nil {
		return
	}

	m.mempoolSize.Set(float64(size))
}

// SetChain records the chain height and the current difficulty.
func (m *Metrics) SetChain(height int, difficulty uint) {
	if m == nil {
		return
	}

	m.chainHeight.Set(float64(height))
	m.difficulty.Set(float64(difficulty))
}

// TxRejected records a transaction turned away from the mempool.
func (m *Metrics) TxRejected(reason string) {
	if m == nil {
		return
	}

	m.rejectedTxs.WithLabelValues(reason).Inc()
}

// InvalidScan records a chain validation that failed the named check.
func (m *Metrics) InvalidScan(check string) {
	if m == nil {
		return
	}

	m.invalidScans.WithLabelValues(check).Inc()
}

// Request records a completed API request.
func (m *Metrics) Request(method string, path string, status int, took time.Duration) {
	if m == nil {
		return
	}

	m.requests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, path).Observe(took.Seconds())
}
