// Package metrics records generation metrics.
//
// Components take a Recorder and default to NoopRecorder, so metrics cost
// nothing unless a PrometheusRecorder is injected. A one-shot run has no
// scrape endpoint; WriteTextfile dumps the registry in the text exposition
// format for a node_exporter textfile collector instead.
package metrics
