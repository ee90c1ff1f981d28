package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for completed analysis runs.
const (
	OutcomePersisted       = "persisted"
	OutcomeEmptyTrip       = "empty_trip"
	OutcomeExternalError   = "external_error"
	OutcomeValidationError = "validation_error"
	OutcomeStorageError    = "storage_error"
)

// Analysis records pipeline run counts and durations.
type Analysis struct {
	runs     *prometheus.CounterVec
	duration prometheus.Histogram
}

// NewAnalysis registers the analysis collectors on reg. If reg is nil the
// default registerer is used; already-registered collectors are reused.
func NewAnalysis(reg prometheus.Registerer) (*Analysis, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "trip_analyses_total",
		Help: "Total number of trip analysis runs by outcome",
	}, []string{"outcome"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "trip_analysis_duration_seconds",
		Help:    "End-to-end duration of trip analysis runs",
		Buckets: prometheus.DefBuckets,
	})

	if err := reg.Register(runs); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			runs = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(duration); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			duration = are.ExistingCollector.(prometheus.Histogram)
		} else {
			return nil, err
		}
	}
	return &Analysis{runs: runs, duration: duration}, nil
}

// Observe records one finished run. Safe on a nil receiver so callers can
// run without metrics wired.
func (a *Analysis) Observe(outcome string, elapsed time.Duration) {
	if a == nil {
		return
	}
	a.runs.WithLabelValues(outcome).Inc()
	a.duration.Observe(elapsed.Seconds())
}
