package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the risk API.
type Metrics struct {
	// Upstream WMS metrics.
	UpstreamRequests *prometheus.CounterVec   // labels: hazard, outcome={features,text,error}
	UpstreamDuration *prometheus.HistogramVec // labels: hazard
	CascadeAttempts  prometheus.Histogram     // attempts consumed before a cascade settled
	CascadeExhausted *prometheus.CounterVec   // labels: hazard

	// Assessment metrics.
	Assessments        prometheus.Counter
	AssessmentDuration prometheus.Histogram

	// Event publishing metrics.
	AssessmentsPublished prometheus.Counter
	PublishErrors        prometheus.Counter
}

// NewMetrics creates and registers all metrics with the default Prometheus
// registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "riskapi",
			Name:      "upstream_requests_total",
			Help:      "GetFeatureInfo attempts by hazard and outcome.",
		}, []string{"hazard", "outcome"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "riskapi",
			Name:      "upstream_request_duration_seconds",
			Help:      "Upstream WMS request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		}, []string{"hazard"}),
		CascadeAttempts: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "riskapi",
			Name:      "cascade_attempts",
			Help:      "Candidate requests tried before a cascade returned a usable result.",
			Buckets:   []float64{1, 2, 3, 4, 5, 6, 7, 8, 9},
		}),
		CascadeExhausted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "riskapi",
			Name:      "cascade_exhausted_total",
			Help:      "Cascades whose every candidate failed, by hazard.",
		}, []string{"hazard"}),
		Assessments: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "riskapi",
			Name:      "assessments_total",
			Help:      "Completed point assessments.",
		}),
		AssessmentDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "riskapi",
			Name:      "assessment_duration_seconds",
			Help:      "Duration of a complete multi-hazard assessment.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 90},
		}),
		AssessmentsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "riskapi",
			Name:      "assessments_published_total",
			Help:      "Assessments published to the event sink.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "riskapi",
			Name:      "publish_errors_total",
			Help:      "Failed assessment publications.",
		}),
	}

	prometheus.MustRegister(
		m.UpstreamRequests,
		m.UpstreamDuration,
		m.CascadeAttempts,
		m.CascadeExhausted,
		m.Assessments,
		m.AssessmentDuration,
		m.AssessmentsPublished,
		m.PublishErrors,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		UpstreamRequests:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "riskapi", Name: "upstream_requests_total"}, []string{"hazard", "outcome"}),
		UpstreamDuration:     prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "riskapi", Name: "upstream_request_duration_seconds"}, []string{"hazard"}),
		CascadeAttempts:      prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "riskapi", Name: "cascade_attempts"}),
		CascadeExhausted:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "riskapi", Name: "cascade_exhausted_total"}, []string{"hazard"}),
		Assessments:          prometheus.NewCounter(prometheus.CounterOpts{Namespace: "riskapi", Name: "assessments_total"}),
		AssessmentDuration:   prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "riskapi", Name: "assessment_duration_seconds"}),
		AssessmentsPublished: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "riskapi", Name: "assessments_published_total"}),
		PublishErrors:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "riskapi", Name: "publish_errors_total"}),
	}
}
