// Package metrics exposes Prometheus instrumentation for the portal.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_http_requests_total",
			Help: "Total number of handled HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)
	ApplicationsSubmitted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "portal_applications_submitted_total",
			Help: "Total number of submitted job applications.",
		},
	)
	InterviewsScheduled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "portal_interviews_scheduled_total",
			Help: "Total number of interview scheduling actions.",
		},
	)
	JobsDeactivated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "portal_jobs_deactivated_total",
			Help: "Total number of jobs deactivated by the deadline sweeper.",
		},
	)
)

// Register installs all portal collectors into the default registry. Call
// once at startup.
func Register() {
	prometheus.MustRegister(RequestsCounter)
	prometheus.MustRegister(ApplicationsSubmitted)
	prometheus.MustRegister(InterviewsScheduled)
	prometheus.MustRegister(JobsDeactivated)
}

// Handler returns the scrape endpoint handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RequestMetrics is a gin middleware counting every handled request by
// method, route template and status code.
func RequestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		RequestsCounter.WithLabelValues(
			c.Request.Method, path, strconv.Itoa(c.Writer.Status()),
		).Inc()
	}
}
