package backup

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records engine activity.
type Metrics struct {
	runs     *prometheus.CounterVec
	rows     *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the engine collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "salonbook",
			Name:      "backup_runs_total",
			Help:      "Backup and restore runs by operation and final state.",
		}, []string{"operation", "state"}),
		rows: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "salonbook",
			Name:      "restore_rows_total",
			Help:      "Restored rows by table and result.",
		}, []string{"table", "result"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "salonbook",
			Name:      "backup_duration_seconds",
			Help:      "Duration of backup and restore runs.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
}

func (m *Metrics) observeRun(operation string, final State, start time.Time) {
	m.runs.WithLabelValues(operation, string(final)).Inc()
	m.duration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func (m *Metrics) observeRows(table string, upserted, failed int) {
	m.rows.WithLabelValues(table, "upserted").Add(float64(upserted))
	m.rows.WithLabelValues(table, "failed").Add(float64(failed))
}
