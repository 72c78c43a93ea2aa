package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	ReqCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fittrack",
			Name:      "http_requests_total",
			Help:      "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ReqDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fittrack",
			Name:      "http_request_duration_seconds",
			Help:      "Request duration seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// AuthEvents counts session lifecycle outcomes, e.g. event=login result=failure.
	AuthEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fittrack",
			Name:      "auth_events_total",
			Help:      "Authentication and session lifecycle events",
		},
		[]string{"event", "result"},
	)

	// RecordMutations counts committed writes on owned records.
	RecordMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fittrack",
			Name:      "record_mutations_total",
			Help:      "Committed mutations of owned records",
		},
		[]string{"kind", "action"},
	)
)

var registerOnce sync.Once

// Init registers the collectors with the default registry. Safe to call more
// than once.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(ReqCount, ReqDuration, AuthEvents, RecordMutations)
	})
}
