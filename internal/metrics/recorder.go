package metrics

import "time"

// Outcome labels for build counters.
const (
	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"
	OutcomeTimeout = "timeout"
)

// Suppression reasons for watch-event counters.
const (
	ReasonIneligible = "ineligible"
	ReasonDebounced  = "debounced"
	ReasonBusy       = "busy"
)

// Recorder defines observability hooks for build and watch metrics.
// Implementations may forward to Prometheus; the NoopRecorder allows
// optional injection.
type Recorder interface {
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome string)
	IncEventSuppressed(reason string)
	IncRebuildTriggered()
	SetWatching(on bool)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveBuildDuration(time.Duration) {}
func (NoopRecorder) IncBuildOutcome(string)             {}
func (NoopRecorder) IncEventSuppressed(string)          {}
func (NoopRecorder) IncRebuildTriggered()               {}
func (NoopRecorder) SetWatching(bool)                   {}
