package metrics

import "time"

// ResultLabel enumerates per-file parse outcomes for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultFailed  ResultLabel = "failed"
	ResultSkipped ResultLabel = "skipped"
)

// Recorder defines observability hooks for a documentation run.
type Recorder interface {
	IncMetacommand(command string)
	IncDiagnostic(kind string)
	IncParsedFile(language string, result ResultLabel)
	ObserveParseDuration(language string, d time.Duration)
	ObserveRunDuration(d time.Duration)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncMetacommand(string)                      {}
func (NoopRecorder) IncDiagnostic(string)                       {}
func (NoopRecorder) IncParsedFile(string, ResultLabel)          {}
func (NoopRecorder) ObserveParseDuration(string, time.Duration) {}
func (NoopRecorder) ObserveRunDuration(time.Duration)           {}
