package metrics

import "time"

// PageResult enumerates per-operation outcomes for counters.
type PageResult string

const (
	PageEmitted   PageResult = "emitted"
	PageUnchanged PageResult = "unchanged"
	PageSkipped   PageResult = "skipped"
)

// RunOutcome is the final status of a generation run.
type RunOutcome string

const (
	RunSuccess RunOutcome = "success"
	RunFailed  RunOutcome = "failed"
)

// Recorder defines observability hooks for generation runs.
type Recorder interface {
	ObserveSurfaceDuration(surface string, d time.Duration)
	IncPageResult(surface string, result PageResult)
	IncRunOutcome(outcome RunOutcome)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveSurfaceDuration(string, time.Duration) {}
func (NoopRecorder) IncPageResult(string, PageResult)            {}
func (NoopRecorder) IncRunOutcome(RunOutcome)                    {}
