package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/marcus-crane/whatsong/shared"
)

const resultOK = "ok"

var (
	inserts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "whatsong",
			Name:      "inserts_total",
			Help:      "Playback reports received, by outcome",
		},
		[]string{"result"},
	)

	queries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "whatsong",
			Name:      "queries_total",
			Help:      "Event store reads, by operation and outcome",
		},
		[]string{"operation", "result"},
	)

	catalogLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "whatsong",
			Name:      "catalog_lookups_total",
			Help:      "Outbound YouTube metadata lookups, by outcome",
		},
		[]string{"result"},
	)

	catalogLookupDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "whatsong",
			Name:      "catalog_lookup_duration_seconds",
			Help:      "Latency of outbound YouTube metadata lookups",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)
)

func result(err error) string {
	if err == nil {
		return resultOK
	}
	return shared.KindOf(err).String()
}

func RecordInsert(err error) {
	inserts.WithLabelValues(result(err)).Inc()
}

func RecordQuery(operation string, err error) {
	queries.WithLabelValues(operation, result(err)).Inc()
}

func ObserveLookup(started time.Time, err error) {
	catalogLookups.WithLabelValues(result(err)).Inc()
	catalogLookupDuration.Observe(time.Since(started).Seconds())
}
