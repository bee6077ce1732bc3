package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns the service collectors on a private registry.
type Metrics struct {
	Registry   *prometheus.Registry
	repoOps    *prometheus.CounterVec
	reportJobs *prometheus.CounterVec
}

// New registers runtime collectors plus the service counters.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		repoOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "studentrecords",
			Name:      "repository_operations_total",
			Help:      "Student repository operations by outcome.",
		}, []string{"op", "outcome"}),
		reportJobs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "studentrecords",
			Name:      "report_jobs_total",
			Help:      "Report jobs processed by final status.",
		}, []string{"status"}),
	}
	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.repoOps,
		m.reportJobs,
	)
	return m
}

// Observe counts one repository operation.
func (m *Metrics) Observe(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.repoOps.WithLabelValues(op, outcome).Inc()
}

// ReportJob counts a finished report job.
func (m *Metrics) ReportJob(status string) {
	m.reportJobs.WithLabelValues(status).Inc()
}

// Handler exposes the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
