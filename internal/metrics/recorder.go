package metrics

import "time"

// ResultLabel enumerates operation outcome categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultFailed   ResultLabel = "failed"
	ResultFound    ResultLabel = "found"
	ResultNotFound ResultLabel = "not_found"
)

// Recorder defines observability hooks for loading, resolution and search.
// Implementations may forward to Prometheus, OpenTelemetry, etc.
type Recorder interface {
	ObserveLoadDuration(d time.Duration)
	SetIndexedDocuments(n int)
	IncSkippedFiles(reason string)
	IncResolution(iface string, result ResultLabel)
	IncRebuild(trigger string, result ResultLabel)
	ObserveSearchDuration(d time.Duration)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveLoadDuration(time.Duration) {}
func (NoopRecorder) SetIndexedDocuments(int) {}
func (NoopRecorder) IncSkippedFiles(string) {}
func (NoopRecorder) IncResolution(string, ResultLabel) {}
func (NoopRecorder) IncRebuild(string, ResultLabel) {}
func (NoopRecorder) ObserveSearchDuration(time.Duration) {}

// OrNoop returns r, or NoopRecorder when r is nil.
func OrNoop(r Recorder) Recorder {
	if r == nil {
		return NoopRecorder{}
	}
	return r
}
