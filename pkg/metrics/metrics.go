// Package metrics holds the Prometheus collectors shared by the HTTP layer and
// the report analyzer.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	lookupDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "site_analyzer_lookup_duration_seconds",
			Help:    "Time taken by each report section lookup",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 20},
		},
		[]string{"section", "outcome"},
	)

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "site_analyzer_http_requests_total",
			Help: "Total number of HTTP requests handled",
		},
		[]string{"route", "status"},
	)

	pdfRendered = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "site_analyzer_pdf_rendered_total",
			Help: "PDF documents rendered, by outcome",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(lookupDuration, httpRequestsTotal, pdfRendered)
}

// ObserveLookup records how long one section lookup took and whether it failed.
func ObserveLookup(section string, failed bool, elapsed time.Duration) {
	lookupDuration.WithLabelValues(section, outcome(failed)).Observe(elapsed.Seconds())
}

func CountRequest(route, status string) {
	httpRequestsTotal.WithLabelValues(route, status).Inc()
}

func CountPDF(failed bool) {
	pdfRendered.WithLabelValues(outcome(failed)).Inc()
}

func outcome(failed bool) string {
	if failed {
		return "error"
	}
	return "ok"
}
