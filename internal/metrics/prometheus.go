// Package metrics 以 Prometheus 觀察 bank 的操作結果與持久化提交。
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bankhub/internal/bank"
)

// Collector 實作 bank.Observer。
type Collector struct {
	registry       *prometheus.Registry
	operations     *prometheus.CounterVec
	commitDuration prometheus.Histogram
	accounts       prometheus.Gauge
}

var _ bank.Observer = (*Collector)(nil)

func NewCollector() *Collector {
	registry := prometheus.NewRegistry()
	return &Collector{
		registry: registry,
		operations: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "bankhub_operations_total",
			Help: "Ledger operations by operation and result",
		}, []string{"op", "result"}),
		commitDuration: promauto.With(registry).NewHistogram(prometheus.HistogramOpts{
			Name:    "bankhub_commit_duration_seconds",
			Help:    "Time taken to rewrite the durable record",
			Buckets: prometheus.DefBuckets,
		}),
		accounts: promauto.With(registry).NewGauge(prometheus.GaugeOpts{
			Name: "bankhub_accounts",
			Help: "Number of accounts after the last commit",
		}),
	}
}

// Operation 依 bank.Kind 分類結果。
func (c *Collector) Operation(op string, err error) {
	c.operations.WithLabelValues(op, bank.Kind(err)).Inc()
}

func (c *Collector) Committed(d time.Duration, accounts int) {
	c.commitDuration.Observe(d.Seconds())
	c.accounts.Set(float64(accounts))
}

// SetAccounts 用於啟動時設定初始帳戶數。
func (c *Collector) SetAccounts(n int) {
	c.accounts.Set(float64(n))
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
