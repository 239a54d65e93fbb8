package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gitlab.com/codechallenge.net/internal/adapter/judge0"
	"gitlab.com/codechallenge.net/internal/core/services/submission"
)

const metricsNamespace = "codechallenge"

// 1ms -> 30s
var timeBuckets = []float64{
	0.001, 0.005, 0.010, 0.025, 0.050, 0.1, 0.25, 0.5,
	1, 2, 4, 8, 15, 30,
}

var (
	_ judge0.Recorder     = (*Recorder)(nil)
	_ submission.Recorder = (*Recorder)(nil)
)

// Recorder exposes pipeline metrics through its own registry
type Recorder struct {
	registry *prometheus.Registry

	submissions        *prometheus.CounterVec
	submissionDuration *prometheus.HistogramVec
	judgeCalls         *prometheus.CounterVec
	judgeCallDuration  *prometheus.HistogramVec
	judgeRetries       *prometheus.CounterVec
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "submissions_total",
			Help:      "Number of processed submissions by final status",
		}, []string{"status"}),
		submissionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "submission_duration_seconds",
			Help:      "Histogram for the end to end submission time",
			Buckets:   timeBuckets,
		}, []string{"status"}),
		judgeCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "judge_calls_total",
			Help:      "Number of judge requests by outcome",
		}, []string{"verdict"}),
		judgeCallDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "judge_call_duration_seconds",
			Help:      "Histogram for a single judge request",
			Buckets:   timeBuckets,
		}, []string{"verdict"}),
		judgeRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "judge_retries_total",
			Help:      "Number of judge request retries by reason",
		}, []string{"reason"}),
	}
	r.registry.MustRegister(
		r.submissions,
		r.submissionDuration,
		r.judgeCalls,
		r.judgeCallDuration,
		r.judgeRetries,
	)
	return r
}

func (r *Recorder) ObserveSubmission(status string, d time.Duration) {
	r.submissions.WithLabelValues(status).Inc()
	r.submissionDuration.WithLabelValues(status).Observe(d.Seconds())
}

func (r *Recorder) ObserveJudgeCall(verdict string, d time.Duration) {
	r.judgeCalls.WithLabelValues(verdict).Inc()
	r.judgeCallDuration.WithLabelValues(verdict).Observe(d.Seconds())
}

func (r *Recorder) IncJudgeRetry(reason string) {
	r.judgeRetries.WithLabelValues(reason).Inc()
}

// Handler serves the registry in the Prometheus text format
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
