package sui

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

var IndexedTransactions = prometheus.NewCounter(prometheus.CounterOpts{
	Namespace: "sui",
	Subsystem: "index_store",
	Name:      "indexed_transactions",
})

var IndexedEvents = prometheus.NewCounter(prometheus.CounterOpts{
	Namespace: "sui",
	Subsystem: "index_store",
	Name:      "indexed_events",
})

var BatchCommitDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
	Namespace: "sui",
	Subsystem: "index_store",
	Name:      "batch_commit_duration_ms",
	Buckets:   []float64{0, 1, 5, 10, 20, 50, 100, 200, 500},
})

var BalanceCacheInvalidations = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "sui",
	Subsystem: "index_store",
	Name:      "balance_cache_invalidations",
}, []string{"cache"})

// registerMetrics hooks the store's own series plus the per-database
// collector into the given registry. The package-level series may already be
// registered by an earlier store in the same process; that is not an error.
func registerMetrics(reg prometheus.Registerer, dbCollector prometheus.Collector) error {
	shared := []prometheus.Collector{
		IndexedTransactions,
		IndexedEvents,
		BatchCommitDuration,
		BalanceCacheInvalidations,
	}
	for _, c := range shared {
		if err := reg.Register(c); err != nil {
			var already prometheus.AlreadyRegisteredError
			if !errors.As(err, &already) {
				return fmt.Errorf("register index metrics: %w", err)
			}
		}
	}
	if err := reg.Register(dbCollector); err != nil {
		return fmt.Errorf("register db collector: %w", err)
	}
	return nil
}
