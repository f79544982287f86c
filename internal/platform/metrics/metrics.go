package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the import engine.
type Metrics struct {
	RowsProcessed     *prometheus.CounterVec
	HouseholdsCreated prometheus.Counter
	HouseholdsUpdated prometheus.Counter
	PersonsCreated    prometheus.Counter
	PersonsUpdated    prometheus.Counter
	RowsFailed        prometheus.Counter
	UnmatchedQueued   prometheus.Counter
	AutoLinked        prometheus.Counter
	ChunkFailures     prometheus.Counter
	BatchDuration     prometheus.Histogram
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers against a caller-supplied registerer, which keeps tests
// free of default-registry collisions.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RowsProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "leaguedesk_import_rows_processed_total",
			Help: "Import rows processed, labelled by outcome.",
		}, []string{"outcome"}),
		HouseholdsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "leaguedesk_import_households_created_total",
			Help: "Households created by import reconciliation.",
		}),
		HouseholdsUpdated: factory.NewCounter(prometheus.CounterOpts{
			Name: "leaguedesk_import_households_updated_total",
			Help: "Households updated by import reconciliation.",
		}),
		PersonsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "leaguedesk_import_persons_created_total",
			Help: "Persons created by import reconciliation.",
		}),
		PersonsUpdated: factory.NewCounter(prometheus.CounterOpts{
			Name: "leaguedesk_import_persons_updated_total",
			Help: "Persons updated by import reconciliation.",
		}),
		RowsFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "leaguedesk_import_rows_failed_total",
			Help: "Import rows that were skipped with a recorded warning.",
		}),
		UnmatchedQueued: factory.NewCounter(prometheus.CounterOpts{
			Name: "leaguedesk_import_unmatched_queued_total",
			Help: "Shift records queued because no household matched.",
		}),
		AutoLinked: factory.NewCounter(prometheus.CounterOpts{
			Name: "leaguedesk_import_unmatched_autolinked_total",
			Help: "Unmatched records resolved by the auto-link sweep.",
		}),
		ChunkFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "leaguedesk_import_chunk_failures_total",
			Help: "Chunks abandoned because the store became unreachable.",
		}),
		BatchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "leaguedesk_import_batch_duration_seconds",
			Help:    "Wall-clock duration of import batches.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
	}
}
