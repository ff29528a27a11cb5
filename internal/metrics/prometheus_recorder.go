package metrics

import (
	"fmt"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "apidocs"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	reg             *prom.Registry
	surfaceDuration *prom.HistogramVec
	pageResults     *prom.CounterVec
	runOutcomes     *prom.CounterVec
}

// NewPrometheusRecorder constructs the metrics and registers them with reg.
// A nil registry gets a fresh one.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		reg: reg,
		surfaceDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "surface_duration_seconds",
			Help:      "Duration of generating the pages of one API surface",
			Buckets:   prom.DefBuckets,
		}, []string{"surface"}),
		pageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "page_results_total",
			Help:      "Operation page outcomes by surface",
		}, []string{"surface", "result"}),
		runOutcomes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "run_outcomes_total",
			Help:      "Generation runs by final status",
		}, []string{"outcome"}),
	}
	reg.MustRegister(pr.surfaceDuration, pr.pageResults, pr.runOutcomes)
	return pr
}

// Registry returns the registry the metrics are registered with.
func (p *PrometheusRecorder) Registry() *prom.Registry {
	return p.reg
}

func (p *PrometheusRecorder) ObserveSurfaceDuration(surface string, d time.Duration) {
	if p == nil {
		return
	}
	p.surfaceDuration.WithLabelValues(surface).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncPageResult(surface string, result PageResult) {
	if p == nil {
		return
	}
	p.pageResults.WithLabelValues(surface, string(result)).Inc()
}

func (p *PrometheusRecorder) IncRunOutcome(outcome RunOutcome) {
	if p == nil {
		return
	}
	p.runOutcomes.WithLabelValues(string(outcome)).Inc()
}

// WriteTextfile writes every gathered metric to path in the text exposition
// format. The file is replaced atomically.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	if err := prom.WriteToTextfile(path, p.reg); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
