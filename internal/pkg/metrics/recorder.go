// Package metrics exposes dictionary reload and redaction activity to
// Prometheus.
package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/endorses/wordmask/internal/pkg/ahocorasick"
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder turns service events into Prometheus metrics. It satisfies
// sensitive.Observer.
type Recorder struct {
	reloads       *prometheus.CounterVec
	buildDuration *prometheus.HistogramVec
	patterns      *prometheus.GaugeVec
	redactions    *prometheus.CounterVec
}

// NewRecorder creates the wordmask metrics and registers them with reg.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		reloads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wordmask_reloads_total",
				Help: "Total number of dictionary reload attempts",
			},
			[]string{"strategy", "result"},
		),
		buildDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "wordmask_build_duration_seconds",
				Help:    "Time spent building a matcher from the dictionary",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
			},
			[]string{"strategy"},
		),
		patterns: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "wordmask_patterns",
				Help: "Number of distinct patterns in the active matcher",
			},
			[]string{"strategy"},
		),
		redactions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wordmask_redactions_total",
				Help: "Total number of redaction calls",
			},
			[]string{"strategy", "changed"},
		),
	}

	for _, c := range []prometheus.Collector{r.reloads, r.buildDuration, r.patterns, r.redactions} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register metric: %w", err)
		}
	}
	return r, nil
}

// ObserveReload records one reload attempt.
func (r *Recorder) ObserveReload(strategy ahocorasick.Strategy, patterns int, took time.Duration, err error) {
	if err != nil {
		r.reloads.WithLabelValues(string(strategy), "error").Inc()
		return
	}
	r.reloads.WithLabelValues(string(strategy), "success").Inc()
	r.buildDuration.WithLabelValues(string(strategy)).Observe(took.Seconds())
	r.patterns.WithLabelValues(string(strategy)).Set(float64(patterns))
}

// ObserveRedaction records one redaction call.
func (r *Recorder) ObserveRedaction(strategy ahocorasick.Strategy, changed bool) {
	r.redactions.WithLabelValues(string(strategy), strconv.FormatBool(changed)).Inc()
}
