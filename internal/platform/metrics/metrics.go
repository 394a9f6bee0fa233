// Package metrics exposes Prometheus instrumentation for page analyses.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every metric name.
const Namespace = "seoanalyser"

// Outcome labels for analyses_total.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Metrics groups the collectors recorded by the analyzer service.
type Metrics struct {
	analysesTotal    *prometheus.CounterVec
	analysisDuration *prometheus.HistogramVec
	analysisScore    prometheus.Histogram
	linksChecked      prometheus.Counter
	brokenLinks      prometheus.Counter

	handler http.Handler
}

// New registers the analysis collectors on registerer. If registerer also
// implements prometheus.Gatherer it backs Handler, otherwise the default
// gatherer does.
func New(registerer prometheus.Registerer) *Metrics {
	m := &Metrics{}

	m.analysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "analyses_total",
			Help:      "Page analyses processed, by fetch mode and outcome",
		},
		[]string{"mode", "outcome"},
	)

	m.analysisDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Wall-clock time of a full analysis including link checks",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
		},
		[]string{"mode"},
	)

	m.analysisScore = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "analysis_score",
			Help:      "Distribution of SEO scores for successful analyses",
			Buckets:   prometheus.LinearBuckets(0, 10, 11),
		},
	)

	m.linksChecked = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "links",
			Name:      "checked_total",
			Help:      "Outbound link requests issued by the link checker",
		},
	)

	m.brokenLinks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "links",
			Name:      "broken_total",
			Help:      "Links reported broken by the link checker",
		},
	)

	registerer.MustRegister(
		m.analysesTotal,
		m.analysisDuration,
		m.analysisScore,
		m.linksChecked,
		m.brokenLinks,
	)

	gatherer, ok := registerer.(prometheus.Gatherer)
	if !ok {
		gatherer = prometheus.DefaultGatherer
	}
	m.handler = promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})

	return m
}

// RecordAnalysis counts one finished analysis and observes its duration.
func (m *Metrics) RecordAnalysis(mode, outcome string, d time.Duration) {
	m.analysesTotal.WithLabelValues(mode, outcome).Inc()
	m.analysisDuration.WithLabelValues(mode).Observe(d.Seconds())
}

// RecordScore observes the score of a successful analysis.
func (m *Metrics) RecordScore(score int) {
	m.analysisScore.Observe(float64(score))
}

// RecordLinkCheck adds the number of checked and broken links of one run.
func (m *Metrics) RecordLinkCheck(checked, broken int) {
	if checked > 0 {
		m.linksChecked.Add(float64(checked))
	}
	if broken > 0 {
		m.brokenLinks.Add(float64(broken))
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return m.handler
}
