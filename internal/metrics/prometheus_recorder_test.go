package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.IncMetacommand("obsolete")
	pr.IncMetacommand("obsolete")
	pr.IncDiagnostic("wrong_node")
	pr.IncParsedFile("Cpp", ResultSuccess)
	pr.ObserveParseDuration("Cpp", 15*time.Millisecond)
	pr.ObserveRunDuration(300 * time.Millisecond)

	mfs, err := reg.Gather()
	require.NoError(t, err)

	counters := map[string]float64{}
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			if c := m.GetCounter(); c != nil {
				counters[mf.GetName()] += c.GetValue()
			}
		}
	}
	assert.InDelta(t, 2, counters["docparse_metacommands_applied_total"], 0)
	assert.InDelta(t, 1, counters["docparse_diagnostics_total"], 0)
	assert.InDelta(t, 1, counters["docparse_parsed_files_total"], 0)
}

func TestPrometheusRecorderWriteTextfile(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.IncParsedFile("QML", ResultFailed)

	path := filepath.Join(t.TempDir(), "docparse.prom")
	require.NoError(t, pr.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `docparse_parsed_files_total{language="QML",result="failed"} 1`)
}

func TestNoopRecorderSatisfiesInterface(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.IncMetacommand("title")
	r.ObserveRunDuration(time.Second)
}
