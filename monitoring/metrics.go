package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	DatasetLoads = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dataset_loads_total",
			Help: "Full table reads from the record store",
		},
	)

	AnalysisDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "analysis_duration_seconds",
			Help:    "Duration of analysis pipeline runs by mode",
			Buckets: []float64{0.01, 0.1, 0.5, 1, 5, 30},
		},
		[]string{"mode"},
	)

	ExportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "exports_total",
			Help: "Export downloads by format",
		},
		[]string{"format"},
	)
)

func Init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(DatasetLoads)
	prometheus.MustRegister(AnalysisDuration)
	prometheus.MustRegister(ExportsTotal)
}

func Handler() http.Handler {
	return promhttp.Handler()
}
