// Singleton so that it's easier to use in other packages
package prometheus

import (
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	SyncProcessedRecords = "searchsync_processed_records"
	SyncFailedRecords    = "searchsync_failed_records"
	SyncBatches          = "searchsync_batches"
	SyncBatchErrors      = "searchsync_batch_errors"
	SyncBulkRequests     = "searchsync_bulk_requests"
	SyncBulkErrors       = "searchsync_bulk_errors"
	SyncItemErrors       = "searchsync_item_errors"
	SyncDLQErrors        = "searchsync_dlq_errors"
	SyncRelayWorkers     = "searchsync_relay_workers"
	SyncLastBatchSize    = "searchsync_last_batch_size"
	SyncBatchDuration    = "searchsync_batch_duration_seconds"
)

var (
	prometheusMutex      = &sync.RWMutex{}
	prometheusCounters   = make(map[string]prometheus.Counter)
	prometheusGauges     = make(map[string]prometheus.Gauge)
	prometheusHistograms = make(map[string]prometheus.Histogram)

	initOnce = &sync.Once{}
)

// InitPrometheusMetrics sets up prometheus counters/gauges. Safe to call
// more than once.
func InitPrometheusMetrics() {
	initOnce.Do(func() {
		prometheusMutex.Lock()
		defer prometheusMutex.Unlock()

		counters := map[string]string{
			SyncProcessedRecords: "Total number of records successfully applied to the search index",
			SyncFailedRecords:    "Total number of records that could not be applied",
			SyncBatches:          "Number of handled change batches",
			SyncBatchErrors:      "Number of change batches that failed as a whole",
			SyncBulkRequests:     "Number of bulk requests sent to the search engine",
			SyncBulkErrors:       "Number of failed bulk request attempts",
			SyncItemErrors:       "Number of item level bulk failures",
			SyncDLQErrors:        "Number of errors while publishing failed records to the dead-letter queue",
		}

		for name, help := range counters {
			prometheusCounters[name] = promauto.NewCounter(prometheus.CounterOpts{
				Name: name,
				Help: help,
			})
		}

		prometheusGauges[SyncRelayWorkers] = promauto.NewGauge(prometheus.GaugeOpts{
			Name: SyncRelayWorkers,
			Help: "Number of active relay workers",
		})

		prometheusGauges[SyncLastBatchSize] = promauto.NewGauge(prometheus.GaugeOpts{
			Name: SyncLastBatchSize,
			Help: "Number of records in the most recent batch",
		})

		prometheusHistograms[SyncBatchDuration] = promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    SyncBatchDuration,
			Help:    "Wall time spent handling a change batch",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		})
	})
}

func normalize(key string) string {
	return strings.Replace(key, "-", "_", -1)
}

// IncrPromCounter increments a prometheus counter by the given amount;
// unknown counters are ignored until InitPrometheusMetrics has run
func IncrPromCounter(key string, amount float64) {
	prometheusMutex.RLock()
	defer prometheusMutex.RUnlock()

	if c, ok := prometheusCounters[normalize(key)]; ok {
		c.Add(amount)
	}
}

// IncrPromGauge increments a prometheus gauge by 1
func IncrPromGauge(key string) {
	prometheusMutex.RLock()
	defer prometheusMutex.RUnlock()

	if g, ok := prometheusGauges[normalize(key)]; ok {
		g.Inc()
	}
}

// DecrPromGauge decrements a prometheus gauge by 1
func DecrPromGauge(key string) {
	prometheusMutex.RLock()
	defer prometheusMutex.RUnlock()

	if g, ok := prometheusGauges[normalize(key)]; ok {
		g.Dec()
	}
}

// SetPromGauge sets a prometheus gauge value
func SetPromGauge(key string, amount float64) {
	prometheusMutex.RLock()
	defer prometheusMutex.RUnlock()

	if g, ok := prometheusGauges[normalize(key)]; ok {
		g.Set(amount)
	}
}

// ObservePromHistogram records a single observation
func ObservePromHistogram(key string, value float64) {
	prometheusMutex.RLock()
	defer prometheusMutex.RUnlock()

	if h, ok := prometheusHistograms[normalize(key)]; ok {
		h.Observe(value)
	}
}
