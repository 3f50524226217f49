// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ImportRows counts parsed import rows by classification (valid, invalid).
	ImportRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "alumni",
		Subsystem: "import",
		Name:      "rows_total",
		Help:      "Import file rows broken down by validation result.",
	}, []string{"result"})

	// ImportRecords counts submitted records by outcome (succeeded, skipped, failed).
	ImportRecords = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "alumni",
		Subsystem: "import",
		Name:      "records_total",
		Help:      "Records submitted during imports broken down by outcome.",
	}, []string{"outcome"})

	// ImportRuns counts finished import runs by final state.
	ImportRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "alumni",
		Subsystem: "import",
		Name:      "runs_total",
		Help:      "Import runs broken down by final state.",
	}, []string{"state"})

	// ImportDuration observes how long import runs take.
	ImportDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "alumni",
		Subsystem: "import",
		Name:      "duration_seconds",
		Help:      "Duration of import runs.",
		Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300, 900},
	})

	// PostingsExpired counts postings removed by the expiry cleanup.
	PostingsExpired = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "alumni",
		Subsystem: "jobboard",
		Name:      "postings_expired_total",
		Help:      "Job and internship postings deleted after their deadline passed.",
	})
)

// ObservePreview records the row classification of a parsed file.
func ObservePreview(valid, invalid int) {
	ImportRows.WithLabelValues("valid").Add(float64(valid))
	ImportRows.WithLabelValues("invalid").Add(float64(invalid))
}
