package generator

import (
	"github.com/prometheus/client_golang/prometheus"
)

// A Collector exposes the Engine's progress to Prometheus. Values are read
// from a fresh Snapshot on every scrape.
type Collector struct {
	engine *Engine

	bytesWritten   *prometheus.Desc
	targetBytes    *prometheus.Desc
	percent        *prometheus.Desc
	running        *prometheus.Desc
	servicesTotal  *prometheus.Desc
	servicesDone   *prometheus.Desc
	servicesFailed *prometheus.Desc
}

func NewCollector(engine *Engine) *Collector {
	return &Collector{
		engine: engine,
		bytesWritten: prometheus.NewDesc(
			"loggen_bytes_written", "Bytes written by the current run.", nil, nil,
		),
		targetBytes: prometheus.NewDesc(
			"loggen_target_bytes", "Byte target of the current run.", nil, nil,
		),
		percent: prometheus.NewDesc(
			"loggen_progress_percent", "Share of the target written so far.", nil, nil,
		),
		running: prometheus.NewDesc(
			"loggen_running", "1 while a run is in progress.", nil, nil,
		),
		servicesTotal: prometheus.NewDesc(
			"loggen_services_total", "Services in the current run.", nil, nil,
		),
		servicesDone: prometheus.NewDesc(
			"loggen_services_done", "Services that have finished.", nil, nil,
		),
		servicesFailed: prometheus.NewDesc(
			"loggen_services_failed", "Services that stopped on an error.", nil, nil,
		),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.bytesWritten
	ch <- c.targetBytes
	ch <- c.percent
	ch <- c.running
	ch <- c.servicesTotal
	ch <- c.servicesDone
	ch <- c.servicesFailed
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	snap := c.engine.Snapshot()

	var running float64
	if snap.Running {
		running = 1
	}

	ch <- prometheus.MustNewConstMetric(c.bytesWritten, prometheus.GaugeValue, float64(snap.BytesWritten))
	ch <- prometheus.MustNewConstMetric(c.targetBytes, prometheus.GaugeValue, float64(snap.TargetBytes))
	ch <- prometheus.MustNewConstMetric(c.percent, prometheus.GaugeValue, snap.Percent)
	ch <- prometheus.MustNewConstMetric(c.running, prometheus.GaugeValue, running)
	ch <- prometheus.MustNewConstMetric(c.servicesTotal, prometheus.GaugeValue, float64(snap.ServicesTotal))
	ch <- prometheus.MustNewConstMetric(c.servicesDone, prometheus.GaugeValue, float64(snap.ServicesDone))
	ch <- prometheus.MustNewConstMetric(c.servicesFailed, prometheus.GaugeValue, float64(snap.ServicesFailed))
}
