// Package metrics counts what a run fetched and can export the counts in the
// Prometheus text format for node_exporter's textfile collector.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "mgnify_downloader"

// Outcome label values.
const (
	OK     = "ok"
	Failed = "failed"
)

// Metrics holds the counters of one run. Each Metrics has its own registry,
// so several runs in one process do not share counts.
type Metrics struct {
	registry *prometheus.Registry

	Analyses  *prometheus.CounterVec
	Artifacts *prometheus.CounterVec
	Pages     *prometheus.CounterVec
	Bytes     prometheus.Counter
	Studies   prometheus.Counter
	Samples   prometheus.Counter
	Refs      prometheus.Counter
}

// New registers a fresh set of counters.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Analyses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Analyses processed, by outcome.",
		}, []string{"outcome"}),
		Artifacts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "artifacts_total",
			Help:      "Artifact downloads attempted, by outcome.",
		}, []string{"outcome"}),
		Pages: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pages_total",
			Help:      "Listing pages fetched, by outcome.",
		}, []string{"outcome"}),
		Bytes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "artifact_bytes_total",
			Help:      "Bytes of artifacts downloaded.",
		}),
		Studies: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "studies_written_total",
			Help:      "Distinct studies written.",
		}),
		Samples: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "samples_written_total",
			Help:      "Distinct samples written.",
		}),
		Refs: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assembly_refs_total",
			Help:      "Analysis and assembly pairs listed.",
		}),
	}
}

// Outcome returns OK or Failed.
func Outcome(failed bool) string {
	if failed {
		return Failed
	}

	return OK
}

// WriteTextfile writes all counters to path in the text exposition format.
// The file is written to a temporary name and renamed into place.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
