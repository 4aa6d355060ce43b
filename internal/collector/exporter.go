package collector

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rusenback/docker-exporter/internal/model"
)

var scrapeErrorDesc = prometheus.NewDesc(
	"container_exporter_scrape_error",
	"Collection of container statistics failed",
	nil, nil,
)

// Exporter adapts a Collector to prometheus.Collector. It is an unchecked
// collector: network family names are only known after sampling.
type Exporter struct {
	collector *Collector
}

func NewExporter(c *Collector) *Exporter {
	return &Exporter{collector: c}
}

// Describe sends nothing, which registers the Exporter as unchecked.
func (e *Exporter) Describe(chan<- *prometheus.Desc) {}

// Collect runs one cycle. A failed cycle is reported as a single invalid
// metric so the registry's Gather fails and the scrape gets no partial data.
// prometheus.Collector carries no request context, so a cycle whose scraper
// went away still runs until the collector timeout. Keep that timeout below
// the Prometheus scrape_timeout.
func (e *Exporter) Collect(ch chan<- prometheus.Metric) {
	families, err := e.collector.Collect(context.Background())
	if err != nil {
		ch <- prometheus.NewInvalidMetric(scrapeErrorDesc, err)
		return
	}

	for _, f := range families {
		emit(ch, f)
	}
}

// emit never panics: it runs on the registry's gather goroutine. Network
// family names come from runtime JSON keys and may not be valid metric
// names; such a family turns into an invalid metric and fails the scrape.
func emit(ch chan<- prometheus.Metric, f model.MetricFamily) {
	desc := prometheus.NewDesc(f.Name, f.Help, f.Labels, nil)
	for _, s := range f.Samples {
		m, err := prometheus.NewConstMetric(desc, prometheus.GaugeValue, s.Value, s.LabelValues...)
		if err != nil {
			ch <- prometheus.NewInvalidMetric(desc, err)
			return
		}
		ch <- m
	}
}
