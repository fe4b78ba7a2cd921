package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	buildDuration   prom.Histogram
	buildOutcome    *prom.CounterVec
	eventSuppressed *prom.CounterVec
	rebuilds        prom.Counter
	watching        prom.Gauge
}

// NewPrometheusRecorder constructs and registers Prometheus metrics on reg
// (a fresh registry when nil).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "texkit",
			Name:      "build_duration_seconds",
			Help:      "Duration of toolchain invocations",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "texkit",
			Name:      "build_outcomes_total",
			Help:      "Build outcome counts",
		}, []string{"outcome"}),
		eventSuppressed: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "texkit",
			Name:      "watch_events_suppressed_total",
			Help:      "Watch events that did not trigger a rebuild, by reason",
		}, []string{"reason"}),
		rebuilds: prom.NewCounter(prom.CounterOpts{
			Namespace: "texkit",
			Name:      "watch_rebuilds_total",
			Help:      "Rebuilds triggered by the watch scheduler",
		}),
		watching: prom.NewGauge(prom.GaugeOpts{
			Namespace: "texkit",
			Name:      "watching",
			Help:      "1 while watch mode is active",
		}),
	}
	reg.MustRegister(pr.buildDuration, pr.buildOutcome, pr.eventSuppressed, pr.rebuilds, pr.watching)
	return pr
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome string) {
	p.buildOutcome.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) IncEventSuppressed(reason string) {
	p.eventSuppressed.WithLabelValues(reason).Inc()
}

func (p *PrometheusRecorder) IncRebuildTriggered() {
	p.rebuilds.Inc()
}

func (p *PrometheusRecorder) SetWatching(on bool) {
	if on {
		p.watching.Set(1)
	} else {
		p.watching.Set(0)
	}
}
