package metrics

import (
	"fmt"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "docparse"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	registry      *prom.Registry
	metacommands  *prom.CounterVec
	diagnostics   *prom.CounterVec
	parsedFiles   *prom.CounterVec
	parseDuration *prom.HistogramVec
	runDuration   prom.Histogram
}

// NewPrometheusRecorder constructs the collectors and registers them with reg.
// A nil reg gets a fresh registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		registry: reg,
		metacommands: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "metacommands_applied_total",
			Help:      "Metacommands applied to documentation nodes, by command",
		}, []string{"command"}),
		diagnostics: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "diagnostics_total",
			Help:      "Warnings reported during the run, by kind",
		}, []string{"kind"}),
		parsedFiles: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "parsed_files_total",
			Help:      "Files handed to parser plugins, by language and result",
		}, []string{"language", "result"}),
		parseDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "parse_file_duration_seconds",
			Help:      "Duration of individual parser plugin calls",
			Buckets:   prom.DefBuckets,
		}, []string{"language"}),
		runDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Total documentation run duration",
			Buckets:   prom.DefBuckets,
		}),
	}
	reg.MustRegister(pr.metacommands, pr.diagnostics, pr.parsedFiles, pr.parseDuration, pr.runDuration)
	return pr
}

// Registry returns the registry the collectors are registered with.
func (p *PrometheusRecorder) Registry() *prom.Registry {
	return p.registry
}

func (p *PrometheusRecorder) IncMetacommand(command string) {
	p.metacommands.WithLabelValues(command).Inc()
}

func (p *PrometheusRecorder) IncDiagnostic(kind string) {
	p.diagnostics.WithLabelValues(kind).Inc()
}

func (p *PrometheusRecorder) IncParsedFile(language string, result ResultLabel) {
	p.parsedFiles.WithLabelValues(language, string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveParseDuration(language string, d time.Duration) {
	p.parseDuration.WithLabelValues(language).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	p.runDuration.Observe(d.Seconds())
}

// WriteTextfile writes the recorder's registry in the text exposition format.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	if err := prom.WriteToTextfile(path, p.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
