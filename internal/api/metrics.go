package api

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"gospc/domain/run"
)

var (
	// requestsTotal counts HTTP requests.
	// Labels: route (gin route pattern), method, status
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gospc",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests",
	}, []string{"route", "method", "status"})

	// requestDuration measures request latency.
	// Labels: route
	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "gospc",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}, []string{"route"})

	// analysisOutcomes counts per-metric outcomes of analysis runs.
	// Labels: kind (capability, hypothesis), status (ok, absent, error)
	analysisOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gospc",
		Subsystem: "analysis",
		Name:      "outcomes_total",
		Help:      "Per-metric analysis outcomes by status",
	}, []string{"kind", "status"})

	// runsTotal counts completed analysis runs.
	// Labels: kind (capability, gage, hypothesis, battery)
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gospc",
		Subsystem: "analysis",
		Name:      "runs_total",
		Help:      "Completed analysis runs",
	}, []string{"kind"})
)

// metricsMiddleware records request count and latency
func metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		requestsTotal.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

func recordRun(r *run.Run) {
	runsTotal.WithLabelValues(string(r.Kind)).Inc()
	if r.Report == nil {
		return
	}
	for _, o := range r.Report.Outcomes() {
		analysisOutcomes.WithLabelValues(o.Kind, string(o.Status)).Inc()
	}
}
