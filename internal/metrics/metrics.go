// Package metrics exposes Prometheus instrumentation for the bot and the store API.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Workflow outcomes.
const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeInvalid  = "invalid"
	OutcomeDenied   = "denied"
	OutcomeCanceled = "canceled"
)

var (
	workflowTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "todoplash_workflow_total",
		Help: "Completed chat workflows by outcome",
	}, []string{"workflow", "outcome"})

	probeResultsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "todoplash_probe_results_total",
		Help: "Domain probes by TLS status",
	}, []string{"tls_status"}) // tls_status=OK|FAILED|ERROR

	probeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "todoplash_probe_duration_seconds",
		Help:    "Duration of a single domain probe",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	})
)

// RecordWorkflow counts a finished workflow.
func RecordWorkflow(workflow, outcome string) {
	workflowTotal.WithLabelValues(workflow, outcome).Inc()
}

// RecordProbe counts a probe result and observes its duration.
func RecordProbe(tlsStatus string, d time.Duration) {
	probeResultsTotal.WithLabelValues(tlsStatus).Inc()
	probeDuration.Observe(d.Seconds())
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
