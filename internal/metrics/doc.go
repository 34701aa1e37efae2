// Package metrics provides run metrics for docparse.
//
// Components receive a Recorder through their options and default to
// NoopRecorder, so callers never check for nil:
//
//	interp := metacommand.NewInterpreter(run, metacommand.WithRecorder(recorder))
//
// PrometheusRecorder backs the Recorder with client_golang collectors. A batch
// run has no scrape endpoint, so the CLI writes the registry to a node-exporter
// textfile with WriteTextfile once the run finishes.
package metrics
