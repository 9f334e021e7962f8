package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once           sync.Once
	loadDuration   prom.Histogram
	indexedDocs    prom.Gauge
	skippedFiles   *prom.CounterVec
	resolutions    *prom.CounterVec
	rebuilds       *prom.CounterVec
	searchDuration prom.Histogram
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.loadDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "docengine",
			Name:      "load_duration_seconds",
			Help:      "Duration of full content tree loads",
			Buckets:   prom.DefBuckets,
		})
		pr.indexedDocs = prom.NewGauge(prom.GaugeOpts{
			Namespace: "docengine",
			Name:      "indexed_documents",
			Help:      "Number of documents in the current snapshot",
		})
		pr.skippedFiles = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docengine",
			Name:      "skipped_files_total",
			Help:      "Files excluded from the index by reason",
		}, []string{"reason"})
		pr.resolutions = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docengine",
			Name:      "resolutions_total",
			Help:      "Resolution requests by interface and outcome",
		}, []string{"interface", "result"})
		pr.rebuilds = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docengine",
			Name:      "rebuilds_total",
			Help:      "Snapshot rebuilds by trigger and outcome",
		}, []string{"trigger", "result"})
		pr.searchDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "docengine",
			Name:      "search_duration_seconds",
			Help:      "Duration of full-text search queries",
			Buckets:   prom.DefBuckets,
		})
		reg.MustRegister(pr.loadDuration, pr.indexedDocs, pr.skippedFiles, pr.resolutions, pr.rebuilds, pr.searchDuration)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveLoadDuration(d time.Duration) {
	if p == nil || p.loadDuration == nil {
		return
	}
	p.loadDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) SetIndexedDocuments(n int) {
	if p == nil || p.indexedDocs == nil {
		return
	}
	p.indexedDocs.Set(float64(n))
}

func (p *PrometheusRecorder) IncSkippedFiles(reason string) {
	if p == nil || p.skippedFiles == nil {
		return
	}
	p.skippedFiles.WithLabelValues(reason).Inc()
}

func (p *PrometheusRecorder) IncResolution(iface string, result ResultLabel) {
	if p == nil || p.resolutions == nil {
		return
	}
	p.resolutions.WithLabelValues(iface, string(result)).Inc()
}

func (p *PrometheusRecorder) IncRebuild(trigger string, result ResultLabel) {
	if p == nil || p.rebuilds == nil {
		return
	}
	p.rebuilds.WithLabelValues(trigger, string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveSearchDuration(d time.Duration) {
	if p == nil || p.searchDuration == nil {
		return
	}
	p.searchDuration.Observe(d.Seconds())
}
